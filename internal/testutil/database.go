// Package testutil provides test helpers for regexflow: an isolated, migrated
// database plus builders for templates in any lifecycle state.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
	"github.com/vedant-dewangan/RegexFlow/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	tmpl := db.MustCreateTemplate(testutil.NewTemplate("TESTBK", `(?<amount>\d+)`).Verified().Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Templates      []*model.Template
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{Storage: store, t: t}

	for _, tmpl := range opts.Templates {
		db.MustCreateTemplate(tmpl)
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// MustCreateTemplate stores tmpl as given, status included, or fails the test.
func (db *TestDB) MustCreateTemplate(tmpl *model.Template) *model.Template {
	db.t.Helper()
	if err := db.Storage.CreateTemplate(context.Background(), tmpl); err != nil {
		db.t.Fatalf("failed to seed template for %q: %v", tmpl.SenderHeader, err)
	}
	return tmpl
}

// MustGetTemplate reloads a template or fails the test.
func (db *TestDB) MustGetTemplate(id int64) *model.Template {
	db.t.Helper()
	tmpl, err := db.Storage.GetTemplate(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to load template %d: %v", id, err)
	}
	return tmpl
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
