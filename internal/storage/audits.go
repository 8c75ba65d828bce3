package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// GetAuditRecord returns the review record of a template.
func (s *SQLiteStorage) GetAuditRecord(ctx context.Context, templateID int64) (*model.AuditRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAuditRecordTx(ctx, s.db, templateID)
}

func getAuditRecordTx(ctx context.Context, q queryable, templateID int64) (*model.AuditRecord, error) {
	var r model.AuditRecord
	err := q.QueryRowContext(ctx, `
		SELECT id, template_id, reviewer_id, decision, decided_at
		FROM audit_records
		WHERE template_id = ?
	`, templateID).Scan(&r.ID, &r.TemplateID, &r.ReviewerID, &r.Decision, &r.DecidedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("audit record for template %d: %w", templateID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit record: %w", err)
	}
	return &r, nil
}

// SaveAuditRecord creates the review record of a template or overwrites the
// existing one. record.ID is set to the stored row's ID.
func (s *SQLiteStorage) SaveAuditRecord(ctx context.Context, record *model.AuditRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAuditRecord(record); err != nil {
		return err
	}
	return saveAuditRecordTx(ctx, s.db, record)
}

func saveAuditRecordTx(ctx context.Context, q queryable, record *model.AuditRecord) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO audit_records (template_id, reviewer_id, decision, decided_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(template_id) DO UPDATE SET
			reviewer_id = excluded.reviewer_id,
			decision = excluded.decision,
			decided_at = excluded.decided_at
		RETURNING id
	`, record.TemplateID, record.ReviewerID, record.Decision, record.DecidedAt.UTC()).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}
	return nil
}
