package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// CreateNotification records an unmatched-message notification.
func (s *SQLiteStorage) CreateNotification(ctx context.Context, notification *model.Notification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}
	return createNotificationTx(ctx, s.db, notification)
}

func createNotificationTx(ctx context.Context, q queryable, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO notifications (
			message_id, sender_header, sms_text, requested_by, status, created_at, resolved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		nullableID(n.MessageID), n.SenderHeader, n.SmsText, n.RequestedBy, n.Status,
		n.CreatedAt, nullableTime(n.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get notification ID: %w", err)
	}
	n.ID = id
	return nil
}

// GetNotification retrieves a notification by ID.
func (s *SQLiteStorage) GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getNotificationTx(ctx, s.db, id)
}

func getNotificationTx(ctx context.Context, q queryable, id int64) (*model.Notification, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, message_id, sender_header, sms_text, requested_by, status, created_at, resolved_at
		FROM notifications
		WHERE id = ?
	`, id)

	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// GetNotificationsByStatus returns notifications in a status, oldest first.
func (s *SQLiteStorage) GetNotificationsByStatus(ctx context.Context, status model.NotificationStatus) ([]model.Notification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getNotificationsByStatusTx(ctx, s.db, status)
}

func getNotificationsByStatusTx(ctx context.Context, q queryable, status model.NotificationStatus) ([]model.Notification, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, message_id, sender_header, sms_text, requested_by, status, created_at, resolved_at
		FROM notifications
		WHERE status = ?
		ORDER BY created_at ASC, id ASC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// UpdateNotification stores a notification's status and resolution time.
func (s *SQLiteStorage) UpdateNotification(ctx context.Context, notification *model.Notification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}
	return updateNotificationTx(ctx, s.db, notification)
}

func updateNotificationTx(ctx context.Context, q queryable, n *model.Notification) error {
	result, err := q.ExecContext(ctx, `
		UPDATE notifications SET status = ?, resolved_at = ?
		WHERE id = ?
	`, n.Status, nullableTime(n.ResolvedAt), n.ID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", n.ID, common.ErrNotFound)
	}
	return nil
}

func scanNotification(row scanner) (*model.Notification, error) {
	var (
		n          model.Notification
		messageID  sql.NullInt64
		resolvedAt sql.NullTime
	)
	err := row.Scan(&n.ID, &messageID, &n.SenderHeader, &n.SmsText, &n.RequestedBy,
		&n.Status, &n.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	n.MessageID = messageID.Int64
	if resolvedAt.Valid {
		t := resolvedAt.Time
		n.ResolvedAt = &t
	}
	return &n, nil
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
