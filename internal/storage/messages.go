package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// SaveMessage stores an inbound message. The extracted field map is kept as JSON.
func (s *SQLiteStorage) SaveMessage(ctx context.Context, message *model.Message) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMessage(message); err != nil {
		return err
	}
	return saveMessageTx(ctx, s.db, message)
}

func saveMessageTx(ctx context.Context, q queryable, m *model.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	var fields sql.NullString
	if len(m.ExtractedFields) > 0 {
		data, err := json.Marshal(m.ExtractedFields)
		if err != nil {
			return fmt.Errorf("failed to encode extracted fields: %w", err)
		}
		fields = sql.NullString{String: string(data), Valid: true}
	}

	var templateID sql.NullInt64
	if m.MatchedTemplateID != nil {
		templateID = sql.NullInt64{Int64: *m.MatchedTemplateID, Valid: true}
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO messages (
			reference, user_id, sender_header, text, matched_template_id, extracted_fields, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.Reference, m.UserID, m.SenderHeader, m.Text, templateID, fields, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message ID: %w", err)
	}
	m.ID = id
	return nil
}

// GetMessagesByUser returns the messages a user submitted, newest first.
func (s *SQLiteStorage) GetMessagesByUser(ctx context.Context, userID int64) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getMessagesByUserTx(ctx, s.db, userID)
}

func getMessagesByUserTx(ctx context.Context, q queryable, userID int64) ([]model.Message, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, reference, user_id, sender_header, text, matched_template_id, extracted_fields, created_at
		FROM messages
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []model.Message
	for rows.Next() {
		var (
			m          model.Message
			templateID sql.NullInt64
			fields     sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Reference, &m.UserID, &m.SenderHeader, &m.Text,
			&templateID, &fields, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		if templateID.Valid {
			id := templateID.Int64
			m.MatchedTemplateID = &id
		}
		if fields.Valid && fields.String != "" {
			if err := json.Unmarshal([]byte(fields.String), &m.ExtractedFields); err != nil {
				return nil, fmt.Errorf("failed to decode extracted fields for message %d: %w", m.ID, err)
			}
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}
