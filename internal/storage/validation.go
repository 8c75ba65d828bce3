// Package storage provides the SQLite persistence layer for templates, review
// records, inbound messages and unmatched notifications.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// Validation errors.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrEmptyString         = errors.New("string parameter cannot be empty")
	ErrNilParameter        = errors.New("parameter cannot be nil")
	ErrInvalidTemplate     = errors.New("invalid template")
	ErrInvalidAuditRecord  = errors.New("invalid audit record")
	ErrInvalidNotification = errors.New("invalid notification")
	ErrInvalidMessage      = errors.New("invalid message")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTemplate(t *model.Template) error {
	if t == nil {
		return fmt.Errorf("%w: template", ErrNilParameter)
	}
	if strings.TrimSpace(t.SenderHeader) == "" {
		return fmt.Errorf("%w: missing sender header", ErrInvalidTemplate)
	}
	if strings.TrimSpace(t.Pattern) == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidTemplate)
	}
	if !t.SmsType.IsValid() {
		return fmt.Errorf("%w: unknown sms type %q", ErrInvalidTemplate, t.SmsType)
	}
	if t.TransactionType != "" && !t.TransactionType.IsValid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidTemplate, t.TransactionType)
	}
	if t.PaymentType != "" && !t.PaymentType.IsValid() {
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalidTemplate, t.PaymentType)
	}
	if t.Status != "" && !t.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTemplate, t.Status)
	}
	return nil
}

func validateAuditRecord(r *model.AuditRecord) error {
	if r == nil {
		return fmt.Errorf("%w: audit record", ErrNilParameter)
	}
	if r.TemplateID <= 0 {
		return fmt.Errorf("%w: missing template id", ErrInvalidAuditRecord)
	}
	switch r.Decision {
	case model.DecisionApproved, model.DecisionRejected:
	default:
		return fmt.Errorf("%w: unknown decision %q", ErrInvalidAuditRecord, r.Decision)
	}
	if r.DecidedAt.IsZero() {
		return fmt.Errorf("%w: missing decision time", ErrInvalidAuditRecord)
	}
	return nil
}

func validateNotification(n *model.Notification) error {
	if n == nil {
		return fmt.Errorf("%w: notification", ErrNilParameter)
	}
	switch n.Status {
	case model.NotificationPending, model.NotificationResolved:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidNotification, n.Status)
	}
	if n.Status == model.NotificationResolved && n.ResolvedAt == nil {
		return fmt.Errorf("%w: resolved without a timestamp", ErrInvalidNotification)
	}
	return nil
}

func validateMessage(m *model.Message) error {
	if m == nil {
		return fmt.Errorf("%w: message", ErrNilParameter)
	}
	if strings.TrimSpace(m.Reference) == "" {
		return fmt.Errorf("%w: missing reference", ErrInvalidMessage)
	}
	if m.Text == "" {
		return fmt.Errorf("%w: missing text", ErrInvalidMessage)
	}
	return nil
}
