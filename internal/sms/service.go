// Package sms accepts inbound messages, matches them against verified templates
// and keeps each user's message history.
package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedant-dewangan/RegexFlow/internal/metrics"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/pattern"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
)

// ErrEmptyMessage is returned for blank message text.
var ErrEmptyMessage = errors.New("message text is empty")

// Submission is the result of processing one message.
type Submission struct {
	CreatedAt            time.Time
	TemplateID           *int64
	Notification         *model.Notification
	Fields               map[string]string
	Reference            string
	Text                 string
	SenderHeader         string
	TemplateSenderHeader string
	Direction            model.SmsType
	MessageID            int64
	Score                int
	HasMatch             bool
}

// Notifier records unmatched messages inside the caller's transaction and
// announces them once it has committed.
type Notifier interface {
	Record(ctx context.Context, store service.NotificationStore, msg model.UnmatchedMessage) (*model.Notification, error)
	Announce(ctx context.Context, n *model.Notification)
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets who is told about messages no template explains.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithParallelScoring scores candidate templates concurrently.
func WithParallelScoring(parallel bool) Option {
	return func(s *Service) {
		s.parallel = parallel
	}
}

// WithMetrics records match outcomes and scoring time.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service processes inbound messages.
type Service struct {
	store     service.Storage
	extractor pattern.Extractor
	notifier  Notifier
	metrics   *metrics.Metrics
	parallel  bool
}

// NewService creates a message service backed by store.
func NewService(store service.Storage, opts ...Option) *Service {
	s := &Service{store: store, extractor: pattern.NewExtractor()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process matches text from userID against the VERIFIED templates of its
// sender header and stores it. The message and, when nothing matched, its
// notification are written in one transaction; the notification is announced
// only after that commits.
func (s *Service) Process(ctx context.Context, text string, userID int64) (*Submission, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	header := ExtractSenderHeader(text)
	candidates, err := s.store.GetTemplatesBySenderAndStatus(ctx, header, model.StatusVerified)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates for %q: %w", header, err)
	}

	msg := &model.Message{
		Reference:    uuid.NewString(),
		UserID:       userID,
		SenderHeader: header,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	saver := &saveBeforeNotify{tx: tx, message: msg, notifier: s.notifier}
	matcher := pattern.NewMatcher(s.extractor,
		pattern.WithParallelScoring(s.parallel),
		pattern.WithNotifier(saver),
		pattern.WithMetrics(s.metrics),
	)

	decision, err := matcher.Match(ctx, pattern.Message{
		Text:         text,
		SenderHeader: header,
		RequesterID:  userID,
	}, candidates)
	if err != nil {
		return nil, err
	}

	if decision.Matched() {
		templateID := decision.Template.ID
		msg.MatchedTemplateID = &templateID
		msg.ExtractedFields = decision.Outcome.Values()
		if err := tx.SaveMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("failed to save message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	sub := &Submission{
		MessageID:    msg.ID,
		CreatedAt:    msg.CreatedAt,
		Reference:    msg.Reference,
		Text:         text,
		SenderHeader: header,
		Notification: decision.Notification,
	}

	if !decision.Matched() {
		if decision.Notification != nil {
			s.notifier.Announce(ctx, decision.Notification)
		}
		slog.Info("Message did not match any template",
			"message_id", msg.ID,
			"sender_header", header,
			"candidates", len(candidates))
		return sub, nil
	}

	tmpl := decision.Template
	sub.HasMatch = true
	sub.TemplateID = msg.MatchedTemplateID
	sub.TemplateSenderHeader = tmpl.SenderHeader
	sub.Fields = msg.ExtractedFields
	sub.Score = decision.Score
	sub.Direction = ResolveDirection(tmpl.SmsType, decision.Outcome, text)

	slog.Info("Message matched template",
		"message_id", msg.ID,
		"template_id", tmpl.ID,
		"score", decision.Score)
	return sub, nil
}

// History returns the messages a user submitted, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.store.GetMessagesByUser(ctx, userID)
}

// saveBeforeNotify stores the pending message in tx, then records the
// notification in the same transaction with the stored message's ID.
type saveBeforeNotify struct {
	tx       service.Transaction
	notifier Notifier
	message  *model.Message
}

func (n *saveBeforeNotify) NotifyUnmatched(ctx context.Context, msg model.UnmatchedMessage) (*model.Notification, error) {
	if err := n.tx.SaveMessage(ctx, n.message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	if n.notifier == nil {
		return nil, nil
	}
	msg.MessageID = n.message.ID
	return n.notifier.Record(ctx, n.tx, msg)
}
