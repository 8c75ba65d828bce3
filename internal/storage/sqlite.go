package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// queryable is satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := "file::memory:?_foreign_keys=on"
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// NewSQLiteStorageFromDB wraps an already opened database handle.
func NewSQLiteStorageFromDB(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{tx: tx}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx *sql.Tx
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods run the shared queries against the open transaction.
func (t *sqliteTransaction) CreateTemplate(ctx context.Context, template *model.Template) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}
	return createTemplateTx(ctx, t.tx, template)
}

func (t *sqliteTransaction) GetTemplate(ctx context.Context, id int64) (*model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTemplateTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) UpdateTemplate(ctx context.Context, template *model.Template) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}
	return updateTemplateTx(ctx, t.tx, template)
}

func (t *sqliteTransaction) GetTemplatesBySenderAndStatus(ctx context.Context, senderHeader string, status model.TemplateStatus) ([]model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryTemplates(ctx, t.tx, "t.sender_header = ? AND t.status = ?", senderHeader, status)
}

func (t *sqliteTransaction) GetTemplatesByStatus(ctx context.Context, status model.TemplateStatus) ([]model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryTemplates(ctx, t.tx, "t.status = ?", status)
}

func (t *sqliteTransaction) GetTemplatesByCreator(ctx context.Context, creatorID int64) ([]model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return queryTemplates(ctx, t.tx, "t.created_by = ?", creatorID)
}

func (t *sqliteTransaction) FindDuplicateDraft(ctx context.Context, template *model.Template) (*model.Template, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	return findDuplicateDraftTx(ctx, t.tx, template)
}

func (t *sqliteTransaction) GetAuditRecord(ctx context.Context, templateID int64) (*model.AuditRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAuditRecordTx(ctx, t.tx, templateID)
}

func (t *sqliteTransaction) SaveAuditRecord(ctx context.Context, record *model.AuditRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAuditRecord(record); err != nil {
		return err
	}
	return saveAuditRecordTx(ctx, t.tx, record)
}

func (t *sqliteTransaction) CreateNotification(ctx context.Context, notification *model.Notification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}
	return createNotificationTx(ctx, t.tx, notification)
}

func (t *sqliteTransaction) GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getNotificationTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetNotificationsByStatus(ctx context.Context, status model.NotificationStatus) ([]model.Notification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getNotificationsByStatusTx(ctx, t.tx, status)
}

func (t *sqliteTransaction) UpdateNotification(ctx context.Context, notification *model.Notification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}
	return updateNotificationTx(ctx, t.tx, notification)
}

func (t *sqliteTransaction) SaveMessage(ctx context.Context, message *model.Message) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMessage(message); err != nil {
		return err
	}
	return saveMessageTx(ctx, t.tx, message)
}

func (t *sqliteTransaction) GetMessagesByUser(ctx context.Context, userID int64) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getMessagesByUserTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
