// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// TemplateStore persists templates.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, template *model.Template) error
	GetTemplate(ctx context.Context, id int64) (*model.Template, error)
	UpdateTemplate(ctx context.Context, template *model.Template) error
	GetTemplatesBySenderAndStatus(ctx context.Context, senderHeader string, status model.TemplateStatus) ([]model.Template, error)
	GetTemplatesByStatus(ctx context.Context, status model.TemplateStatus) ([]model.Template, error)
	GetTemplatesByCreator(ctx context.Context, creatorID int64) ([]model.Template, error)
	// FindDuplicateDraft returns the DRAFT template with the same definition, or an
	// error wrapping common.ErrNotFound.
	FindDuplicateDraft(ctx context.Context, template *model.Template) (*model.Template, error)
}

// AuditStore persists the single review record of each template.
type AuditStore interface {
	// GetAuditRecord returns an error wrapping common.ErrNotFound when the template was never reviewed.
	GetAuditRecord(ctx context.Context, templateID int64) (*model.AuditRecord, error)
	// SaveAuditRecord creates or overwrites the record for record.TemplateID.
	SaveAuditRecord(ctx context.Context, record *model.AuditRecord) error
}

// NotificationStore persists unmatched-message notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotification(ctx context.Context, id int64) (*model.Notification, error)
	GetNotificationsByStatus(ctx context.Context, status model.NotificationStatus) ([]model.Notification, error)
	UpdateNotification(ctx context.Context, notification *model.Notification) error
}

// MessageStore persists inbound messages.
type MessageStore interface {
	SaveMessage(ctx context.Context, message *model.Message) error
	GetMessagesByUser(ctx context.Context, userID int64) ([]model.Message, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	TemplateStore
	AuditStore
	NotificationStore
	MessageStore

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
