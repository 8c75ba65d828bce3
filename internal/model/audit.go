package model

import "time"

// AuditDecision is the outcome of a template review.
type AuditDecision string

// Review decisions.
const (
	DecisionApproved AuditDecision = "APPROVED"
	DecisionRejected AuditDecision = "REJECTED"
)

// AuditRecord holds the latest review decision for a template.
// There is at most one record per template; re-review overwrites it.
type AuditRecord struct {
	DecidedAt  time.Time     `json:"decided_at"`
	Decision   AuditDecision `json:"decision"`
	ID         int64         `json:"id"`
	TemplateID int64         `json:"template_id"`
	ReviewerID int64         `json:"reviewer_id"`
}

// Role is the capability a user acts with.
type Role string

// Roles.
const (
	RoleMaker   Role = "MAKER"
	RoleChecker Role = "CHECKER"
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
)

// Actor identifies who is performing an operation and in which capacity.
// It is passed explicitly into every lifecycle operation.
type Actor struct {
	Role   Role
	UserID int64
}

// Maker returns an actor acting as a template author.
func Maker(userID int64) Actor {
	return Actor{UserID: userID, Role: RoleMaker}
}

// Checker returns an actor acting as a template reviewer.
func Checker(userID int64) Actor {
	return Actor{UserID: userID, Role: RoleChecker}
}
