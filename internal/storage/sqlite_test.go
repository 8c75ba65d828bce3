package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func newTestTemplate(sender, pattern string) *model.Template {
	return &model.Template{
		SenderHeader:    sender,
		Pattern:         pattern,
		SampleRawMsg:    "Your account has been debited Rs. 1,500.00",
		SmsType:         model.SmsTypeDebit,
		TransactionType: model.TxnUPIDebit,
		PaymentType:     model.PaymentUPI,
		BankID:          3,
		CreatedBy:       10,
	}
}

func TestSQLiteStorage_TemplateRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := newTestTemplate("TESTBK", `Rs\.?\s*(?<amount>[\d,]+\.?\d*)`)
	require.NoError(t, store.CreateTemplate(ctx, tmpl))
	assert.NotZero(t, tmpl.ID)
	assert.Equal(t, model.StatusDraft, tmpl.Status)
	assert.False(t, tmpl.CreatedAt.IsZero())

	got, err := store.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, got.ID)
	assert.Equal(t, tmpl.Pattern, got.Pattern)
	assert.Equal(t, tmpl.SampleRawMsg, got.SampleRawMsg)
	assert.Equal(t, model.SmsTypeDebit, got.SmsType)
	assert.Equal(t, model.TxnUPIDebit, got.TransactionType)
	assert.Equal(t, model.PaymentUPI, got.PaymentType)
	assert.Equal(t, int64(3), got.BankID)
	assert.Equal(t, int64(10), got.CreatedBy)
	assert.Nil(t, got.Audit)
	assert.True(t, got.SameDefinition(tmpl))

	got.Status = model.StatusPending
	got.SampleRawMsg = "revised"
	require.NoError(t, store.UpdateTemplate(ctx, got))

	again, err := store.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, again.Status)
	assert.Equal(t, "revised", again.SampleRawMsg)
}

func TestSQLiteStorage_TemplateNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetTemplate(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)

	missing := newTestTemplate("TESTBK", `(?<amount>\d+)`)
	missing.ID = 999
	missing.Status = model.StatusDraft
	assert.ErrorIs(t, store.UpdateTemplate(ctx, missing), common.ErrNotFound)
}

func TestSQLiteStorage_GetTemplatesBySenderAndStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	var ids []int64
	for _, seed := range []struct {
		sender string
		status model.TemplateStatus
	}{
		{"TESTBK", model.StatusVerified},
		{"TESTBK", model.StatusDraft},
		{"OTHER", model.StatusVerified},
		{"TESTBK", model.StatusVerified},
		{"TESTBK", model.StatusDeprecated},
	} {
		tmpl := newTestTemplate(seed.sender, `(?<amount>\d+)`)
		tmpl.Status = seed.status
		require.NoError(t, store.CreateTemplate(ctx, tmpl))
		ids = append(ids, tmpl.ID)
	}

	got, err := store.GetTemplatesBySenderAndStatus(ctx, "TESTBK", model.StatusVerified)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[0], got[0].ID)
	assert.Equal(t, ids[3], got[1].ID)

	none, err := store.GetTemplatesBySenderAndStatus(ctx, "NOBODY", model.StatusVerified)
	require.NoError(t, err)
	assert.Empty(t, none)

	byStatus, err := store.GetTemplatesByStatus(ctx, model.StatusVerified)
	require.NoError(t, err)
	assert.Len(t, byStatus, 3)

	byCreator, err := store.GetTemplatesByCreator(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byCreator, 5)
}

func TestSQLiteStorage_FindDuplicateDraft(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	draft := newTestTemplate("TESTBK", `(?<amount>\d+)`)
	require.NoError(t, store.CreateTemplate(ctx, draft))

	dup, err := store.FindDuplicateDraft(ctx, newTestTemplate("TESTBK", `(?<amount>\d+)`))
	require.NoError(t, err)
	assert.Equal(t, draft.ID, dup.ID)

	other := newTestTemplate("TESTBK", `(?<amount>\d+)`)
	other.PaymentType = model.PaymentNetBanking
	_, err = store.FindDuplicateDraft(ctx, other)
	assert.ErrorIs(t, err, common.ErrNotFound)

	draft.Status = model.StatusPending
	require.NoError(t, store.UpdateTemplate(ctx, draft))
	_, err = store.FindDuplicateDraft(ctx, newTestTemplate("TESTBK", `(?<amount>\d+)`))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_Transaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := newTestTemplate("TESTBK", `(?<amount>\d+)`)
	require.NoError(t, store.CreateTemplate(ctx, tmpl))

	t.Run("rollback discards writes", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		tmpl.Status = model.StatusVerified
		require.NoError(t, tx.UpdateTemplate(ctx, tmpl))
		inTx, err := tx.GetTemplate(ctx, tmpl.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusVerified, inTx.Status)

		require.NoError(t, tx.Rollback())

		got, err := store.GetTemplate(ctx, tmpl.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDraft, got.Status)
	})

	t.Run("commit keeps writes", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		tmpl.Status = model.StatusPending
		require.NoError(t, tx.UpdateTemplate(ctx, tmpl))
		require.NoError(t, tx.Commit())

		got, err := store.GetTemplate(ctx, tmpl.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, got.Status)
	})

	t.Run("nested and management calls are refused", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		_, err = tx.BeginTx(ctx)
		assert.Error(t, err)
		assert.Error(t, tx.Migrate(ctx))
		assert.Error(t, tx.Close())
	})
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.CreateTemplate(context.Background(), newTestTemplate("X", `(?<amount>\d)`)))
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		template *model.Template
		wantErr  error
		name     string
	}{
		{name: "nil", template: nil, wantErr: ErrNilParameter},
		{name: "missing sender", template: &model.Template{Pattern: "x", SmsType: model.SmsTypeDebit}, wantErr: ErrInvalidTemplate},
		{name: "missing pattern", template: &model.Template{SenderHeader: "X", SmsType: model.SmsTypeDebit}, wantErr: ErrInvalidTemplate},
		{name: "bad sms type", template: &model.Template{SenderHeader: "X", Pattern: "x", SmsType: "BOTH"}, wantErr: ErrInvalidTemplate},
		{name: "bad payment type", template: &model.Template{SenderHeader: "X", Pattern: "x", SmsType: model.SmsTypeDebit, PaymentType: "BARTER"}, wantErr: ErrInvalidTemplate},
		{name: "bad status", template: &model.Template{SenderHeader: "X", Pattern: "x", SmsType: model.SmsTypeDebit, Status: "LIVE"}, wantErr: ErrInvalidTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.CreateTemplate(ctx, tt.template)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTemplate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	//nolint:staticcheck // nil context is the case under test
	if err := store.CreateTemplate(nil, newTestTemplate("X", "x")); !errors.Is(err, ErrNilContext) {
		t.Errorf("CreateTemplate(nil ctx) error = %v, want %v", err, ErrNilContext)
	}

	if _, err := NewSQLiteStorage("  "); !errors.Is(err, ErrEmptyString) {
		t.Errorf("NewSQLiteStorage(blank) error = %v, want %v", err, ErrEmptyString)
	}
}

func TestNewSQLiteStorage_CreatesDatabaseDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "regexflow.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	assert.DirExists(t, filepath.Dir(dbPath))
	assert.FileExists(t, dbPath)
}
