package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/metrics"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	dbtest "github.com/vedant-dewangan/RegexFlow/internal/testutil"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(context.Context, Event) error {
	p.calls++
	return errors.New("broker unavailable")
}

func unmatched() model.UnmatchedMessage {
	return model.UnmatchedMessage{
		SenderHeader: "TESTBK",
		Text:         "Unknown format 123",
		MessageID:    0,
		RequesterID:  dbtest.UserID,
	}
}

func TestEmitter_NotifyUnmatched(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	mt := metrics.New()
	e := NewEmitter(db.Storage, WithMetrics(mt), WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	n, err := e.NotifyUnmatched(ctx, unmatched())
	require.NoError(t, err)

	assert.NotZero(t, n.ID)
	assert.Equal(t, model.NotificationPending, n.Status)
	assert.Equal(t, "TESTBK", n.SenderHeader)
	assert.Equal(t, "Unknown format 123", n.SmsText)
	assert.Equal(t, dbtest.UserID, n.RequestedBy)
	assert.True(t, fixedNow.Equal(n.CreatedAt))
	assert.Nil(t, n.ResolvedAt)

	pending, err := e.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, n.ID, pending[0].ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.NotificationsTotal.WithLabelValues(metrics.NotificationEmitted)))

	// Emitting never creates templates.
	drafts, err := db.Storage.GetTemplatesByStatus(ctx, model.StatusDraft)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestEmitter_RecordWaitsForAnnounce(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	mt := metrics.New()
	pub := &failingPublisher{}
	e := NewEmitter(db.Storage, WithMetrics(mt), WithPublisher(pub))
	ctx := context.Background()

	tx, err := db.Storage.BeginTx(ctx)
	require.NoError(t, err)
	n, err := e.Record(ctx, tx, unmatched())
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	require.NoError(t, tx.Rollback())

	assert.Zero(t, pub.calls)
	assert.Equal(t, 0.0, testutil.ToFloat64(mt.NotificationsTotal.WithLabelValues(metrics.NotificationEmitted)))
	pending, err := e.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	tx, err = db.Storage.BeginTx(ctx)
	require.NoError(t, err)
	n, err = e.Record(ctx, tx, unmatched())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	e.Announce(ctx, n)

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.NotificationsTotal.WithLabelValues(metrics.NotificationEmitted)))
	pending, err = e.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, n.ID, pending[0].ID)
}

func TestEmitter_Resolve(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	mt := metrics.New()
	now := fixedNow
	e := NewEmitter(db.Storage, WithMetrics(mt), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	n, err := e.NotifyUnmatched(ctx, unmatched())
	require.NoError(t, err)

	now = fixedNow.Add(time.Hour)
	resolved, err := e.Resolve(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.True(t, now.Equal(*resolved.ResolvedAt))

	now = fixedNow.Add(2 * time.Hour)
	again, err := e.Resolve(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, fixedNow.Add(time.Hour).Equal(*again.ResolvedAt))

	pending, err := e.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.NotificationsTotal.WithLabelValues(metrics.NotificationResolved)))

	_, err = e.Resolve(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEmitter_PublishesToRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	db := dbtest.SetupTestDB(t)
	e := NewEmitter(db.Storage, WithPublisher(NewRedisPublisherWithClient(client, "", fastRetry)))
	ctx := context.Background()

	n, err := e.NotifyUnmatched(ctx, unmatched())
	require.NoError(t, err)
	_, err = e.Resolve(ctx, n.ID)
	require.NoError(t, err)

	entries, err := client.XRange(ctx, DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionUnmatched, entries[0].Values["action"])
	assert.Equal(t, ActionResolved, entries[1].Values["action"])

	id, ok := entries[0].Values["event_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, entries[0].Values["event_id"], entries[1].Values["event_id"])
}

func TestEmitter_PublishFailureIsNotFatal(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	pub := &failingPublisher{}
	e := NewEmitter(db.Storage, WithPublisher(pub))

	n, err := e.NotifyUnmatched(context.Background(), unmatched())
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Equal(t, 1, pub.calls)
}
