package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

func TestSQLiteStorage_Messages(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := newTestTemplate("TESTBK", `(?<amount>\d+)`)
	require.NoError(t, store.CreateTemplate(ctx, tmpl))

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	matched := &model.Message{
		Reference:         "ref-1",
		UserID:            42,
		SenderHeader:      "TESTBK",
		Text:              "debited 500",
		MatchedTemplateID: &tmpl.ID,
		ExtractedFields:   map[string]string{"amount": "500"},
		CreatedAt:         base,
	}
	unmatched := &model.Message{
		Reference:    "ref-2",
		UserID:       42,
		SenderHeader: "TESTBK",
		Text:         "hello",
		CreatedAt:    base.Add(time.Minute),
	}
	someoneElse := &model.Message{Reference: "ref-3", UserID: 7, Text: "x"}

	for _, m := range []*model.Message{matched, unmatched, someoneElse} {
		require.NoError(t, store.SaveMessage(ctx, m))
		assert.NotZero(t, m.ID)
	}

	history, err := store.GetMessagesByUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, unmatched.ID, history[0].ID)
	assert.False(t, history[0].HasMatch())
	assert.Nil(t, history[0].ExtractedFields)

	assert.Equal(t, matched.ID, history[1].ID)
	require.True(t, history[1].HasMatch())
	assert.Equal(t, tmpl.ID, *history[1].MatchedTemplateID)
	assert.Equal(t, map[string]string{"amount": "500"}, history[1].ExtractedFields)
	assert.Equal(t, "ref-1", history[1].Reference)

	empty, err := store.GetMessagesByUser(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStorage_MessageValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveMessage(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveMessage(ctx, &model.Message{Text: "x"}), ErrInvalidMessage)
	assert.ErrorIs(t, store.SaveMessage(ctx, &model.Message{Reference: "r"}), ErrInvalidMessage)

	require.NoError(t, store.SaveMessage(ctx, &model.Message{Reference: "dup", Text: "x"}))
	assert.Error(t, store.SaveMessage(ctx, &model.Message{Reference: "dup", Text: "y"}))
}
