// Package notify records messages no verified template could explain and
// optionally announces them on a Redis stream so authors can write templates.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vedant-dewangan/RegexFlow/internal/metrics"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
)

// Event actions.
const (
	ActionUnmatched = "unmatched"
	ActionResolved  = "resolved"
)

// Event announces a change to a notification.
type Event struct {
	OccurredAt     time.Time
	ID             string
	Action         string
	SenderHeader   string
	SmsText        string
	NotificationID int64
	MessageID      int64
	RequestedBy    int64
}

// Publisher delivers notification events to an external channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithPublisher announces every emitted and resolved notification.
func WithPublisher(p Publisher) Option {
	return func(e *Emitter) {
		e.publisher = p
	}
}

// WithMetrics counts emitted and resolved notifications.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

// Emitter stores unmatched-message notifications. It never creates templates.
type Emitter struct {
	store     service.NotificationStore
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewEmitter creates an emitter backed by store.
func NewEmitter(store service.NotificationStore, opts ...Option) *Emitter {
	e := &Emitter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NotifyUnmatched records a PENDING notification for msg and announces it.
// Publishing is best effort: a publisher failure is logged and the stored
// notification returned.
func (e *Emitter) NotifyUnmatched(ctx context.Context, msg model.UnmatchedMessage) (*model.Notification, error) {
	n, err := e.Record(ctx, e.store, msg)
	if err != nil {
		return nil, err
	}
	e.Announce(ctx, n)
	return n, nil
}

// Record stores a PENDING notification for msg in store without announcing it.
// Callers writing inside a transaction call Announce once it commits.
func (e *Emitter) Record(ctx context.Context, store service.NotificationStore, msg model.UnmatchedMessage) (*model.Notification, error) {
	n := &model.Notification{
		MessageID:    msg.MessageID,
		SenderHeader: msg.SenderHeader,
		SmsText:      msg.Text,
		RequestedBy:  msg.RequesterID,
		Status:       model.NotificationPending,
		CreatedAt:    e.now().UTC(),
	}
	if err := store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	slog.Info("Recorded unmatched message",
		"notification_id", n.ID,
		"message_id", n.MessageID,
		"sender_header", n.SenderHeader)
	return n, nil
}

// Announce counts a stored notification and publishes it.
func (e *Emitter) Announce(ctx context.Context, n *model.Notification) {
	e.metrics.ObserveNotification(metrics.NotificationEmitted)
	e.publish(ctx, ActionUnmatched, n)
}

// Resolve marks a notification RESOLVED. Resolving twice keeps the first
// resolution time.
func (e *Emitter) Resolve(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := e.store.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status == model.NotificationResolved {
		return n, nil
	}

	resolvedAt := e.now().UTC()
	n.Status = model.NotificationResolved
	n.ResolvedAt = &resolvedAt
	if err := e.store.UpdateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to resolve notification: %w", err)
	}

	e.metrics.ObserveNotification(metrics.NotificationResolved)
	slog.Info("Resolved notification", "notification_id", n.ID)

	e.publish(ctx, ActionResolved, n)
	return n, nil
}

// Pending lists notifications still waiting for a template, oldest first.
func (e *Emitter) Pending(ctx context.Context) ([]model.Notification, error) {
	return e.store.GetNotificationsByStatus(ctx, model.NotificationPending)
}

func (e *Emitter) publish(ctx context.Context, action string, n *model.Notification) {
	if e.publisher == nil {
		return
	}
	event := Event{
		ID:             uuid.NewString(),
		Action:         action,
		NotificationID: n.ID,
		MessageID:      n.MessageID,
		SenderHeader:   n.SenderHeader,
		SmsText:        n.SmsText,
		RequestedBy:    n.RequestedBy,
		OccurredAt:     e.now().UTC(),
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish notification event",
			"notification_id", n.ID,
			"action", action,
			"error", err)
	}
}
