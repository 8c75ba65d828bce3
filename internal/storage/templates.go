package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

const templateColumns = `
	t.id, t.sender_header, t.pattern, t.sample_raw_msg,
	t.sms_type, t.transaction_type, t.payment_type, t.status,
	t.bank_id, t.created_by, t.created_at, t.updated_at,
	a.id, a.reviewer_id, a.decision, a.decided_at`

const templateFrom = `
	FROM templates t
	LEFT JOIN audit_records a ON a.template_id = t.id`

// CreateTemplate inserts a template and sets its ID and timestamps.
// An empty status is stored as DRAFT.
func (s *SQLiteStorage) CreateTemplate(ctx context.Context, template *model.Template) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}
	return createTemplateTx(ctx, s.db, template)
}

func createTemplateTx(ctx context.Context, q queryable, template *model.Template) error {
	if template.Status == "" {
		template.Status = model.StatusDraft
	}
	now := time.Now().UTC()

	result, err := q.ExecContext(ctx, `
		INSERT INTO templates (
			sender_header, pattern, sample_raw_msg,
			sms_type, transaction_type, payment_type, status,
			bank_id, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		template.SenderHeader, template.Pattern, template.SampleRawMsg,
		template.SmsType, template.TransactionType, template.PaymentType, template.Status,
		template.BankID, template.CreatedBy, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get template ID: %w", err)
	}

	template.ID = id
	template.CreatedAt = now
	template.UpdatedAt = now
	return nil
}

// GetTemplate retrieves a template and its review record by ID.
func (s *SQLiteStorage) GetTemplate(ctx context.Context, id int64) (*model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTemplateTx(ctx, s.db, id)
}

func getTemplateTx(ctx context.Context, q queryable, id int64) (*model.Template, error) {
	row := q.QueryRowContext(ctx, "SELECT"+templateColumns+templateFrom+" WHERE t.id = ?", id)

	template, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// UpdateTemplate overwrites a template's definition and status.
func (s *SQLiteStorage) UpdateTemplate(ctx context.Context, template *model.Template) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}
	return updateTemplateTx(ctx, s.db, template)
}

func updateTemplateTx(ctx context.Context, q queryable, template *model.Template) error {
	now := time.Now().UTC()

	result, err := q.ExecContext(ctx, `
		UPDATE templates SET
			sender_header = ?, pattern = ?, sample_raw_msg = ?,
			sms_type = ?, transaction_type = ?, payment_type = ?, status = ?,
			bank_id = ?, updated_at = ?
		WHERE id = ?
	`,
		template.SenderHeader, template.Pattern, template.SampleRawMsg,
		template.SmsType, template.TransactionType, template.PaymentType, template.Status,
		template.BankID, now,
		template.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("template %d: %w", template.ID, common.ErrNotFound)
	}

	template.UpdatedAt = now
	return nil
}

// GetTemplatesBySenderAndStatus returns the templates for a sender header in a
// given status, oldest first. This is the candidate lookup for matching.
func (s *SQLiteStorage) GetTemplatesBySenderAndStatus(ctx context.Context, senderHeader string, status model.TemplateStatus) ([]model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryTemplates(ctx, s.db, "t.sender_header = ? AND t.status = ?", senderHeader, status)
}

// GetTemplatesByStatus returns every template in a status, oldest first.
func (s *SQLiteStorage) GetTemplatesByStatus(ctx context.Context, status model.TemplateStatus) ([]model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryTemplates(ctx, s.db, "t.status = ?", status)
}

// GetTemplatesByCreator returns the templates authored by a user, oldest first.
func (s *SQLiteStorage) GetTemplatesByCreator(ctx context.Context, creatorID int64) ([]model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryTemplates(ctx, s.db, "t.created_by = ?", creatorID)
}

// FindDuplicateDraft returns the DRAFT with the same definition as template.
func (s *SQLiteStorage) FindDuplicateDraft(ctx context.Context, template *model.Template) (*model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	return findDuplicateDraftTx(ctx, s.db, template)
}

func findDuplicateDraftTx(ctx context.Context, q queryable, template *model.Template) (*model.Template, error) {
	templates, err := queryTemplates(ctx, q,
		`t.status = ? AND t.sender_header = ? AND t.pattern = ? AND t.bank_id = ?
		AND t.sms_type = ? AND t.transaction_type = ? AND t.payment_type = ?`,
		model.StatusDraft, template.SenderHeader, template.Pattern, template.BankID,
		template.SmsType, template.TransactionType, template.PaymentType,
	)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("duplicate draft: %w", common.ErrNotFound)
	}
	return &templates[0], nil
}

func queryTemplates(ctx context.Context, q queryable, where string, args ...any) ([]model.Template, error) {
	var query strings.Builder
	query.WriteString("SELECT")
	query.WriteString(templateColumns)
	query.WriteString(templateFrom)
	query.WriteString(" WHERE ")
	query.WriteString(where)
	query.WriteString(" ORDER BY t.id ASC")

	rows, err := q.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []model.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*model.Template, error) {
	var (
		t          model.Template
		auditID    sql.NullInt64
		reviewerID sql.NullInt64
		decision   sql.NullString
		decidedAt  sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.SenderHeader, &t.Pattern, &t.SampleRawMsg,
		&t.SmsType, &t.TransactionType, &t.PaymentType, &t.Status,
		&t.BankID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		&auditID, &reviewerID, &decision, &decidedAt,
	)
	if err != nil {
		return nil, err
	}

	if auditID.Valid {
		t.Audit = &model.AuditRecord{
			ID:         auditID.Int64,
			TemplateID: t.ID,
			ReviewerID: reviewerID.Int64,
			Decision:   model.AuditDecision(decision.String),
			DecidedAt:  decidedAt.Time,
		}
	}

	return &t, nil
}
