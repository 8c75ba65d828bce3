package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Templates and review records",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS templates (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					sender_header TEXT NOT NULL,
					pattern TEXT NOT NULL,
					sample_raw_msg TEXT NOT NULL DEFAULT '',
					sms_type TEXT NOT NULL,
					transaction_type TEXT NOT NULL DEFAULT '',
					payment_type TEXT NOT NULL DEFAULT '',
					status TEXT NOT NULL DEFAULT 'DRAFT',
					bank_id INTEGER NOT NULL DEFAULT 0,
					created_by INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_templates_sender_status ON templates(sender_header, status)`,
				`CREATE INDEX idx_templates_status ON templates(status)`,

				`CREATE TABLE IF NOT EXISTS audit_records (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					template_id INTEGER NOT NULL UNIQUE,
					reviewer_id INTEGER NOT NULL,
					decision TEXT NOT NULL,
					decided_at DATETIME NOT NULL,
					FOREIGN KEY (template_id) REFERENCES templates(id) ON DELETE CASCADE
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Inbound messages and unmatched notifications",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS messages (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					reference TEXT UNIQUE NOT NULL,
					user_id INTEGER NOT NULL,
					sender_header TEXT NOT NULL DEFAULT '',
					text TEXT NOT NULL,
					matched_template_id INTEGER,
					extracted_fields TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (matched_template_id) REFERENCES templates(id)
				)`,
				`CREATE INDEX idx_messages_user ON messages(user_id)`,

				`CREATE TABLE IF NOT EXISTS notifications (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					message_id INTEGER,
					sender_header TEXT NOT NULL DEFAULT '',
					sms_text TEXT NOT NULL,
					requested_by INTEGER NOT NULL,
					status TEXT NOT NULL DEFAULT 'PENDING',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					resolved_at DATETIME
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index notifications by status and creator lookups",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status, created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_templates_created_by ON templates(created_by)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
