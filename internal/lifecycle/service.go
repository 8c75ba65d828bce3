package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/metrics"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/pattern"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
)

// Option configures a Service.
type Option func(*Service)

// WithMetrics counts applied transitions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for review timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service creates templates and moves them through review.
type Service struct {
	store     service.Storage
	extractor pattern.Extractor
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService creates a lifecycle service backed by store.
func NewService(store service.Storage, opts ...Option) *Service {
	s := &Service{
		store:     store,
		extractor: pattern.NewExtractor(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revision holds the definition changes a maker applies while submitting a
// draft. Empty fields keep the current value.
type Revision struct {
	SenderHeader    string
	Pattern         string
	SampleRawMsg    string
	SmsType         model.SmsType
	TransactionType model.TransactionType
	PaymentType     model.PaymentType
	BankID          int64
}

func (r *Revision) applyTo(t *model.Template) {
	if r == nil {
		return
	}
	if r.SenderHeader != "" {
		t.SenderHeader = strings.TrimSpace(r.SenderHeader)
	}
	if r.Pattern != "" {
		t.Pattern = r.Pattern
	}
	if r.SampleRawMsg != "" {
		t.SampleRawMsg = r.SampleRawMsg
	}
	if r.SmsType != "" {
		t.SmsType = r.SmsType
	}
	if r.TransactionType != "" {
		t.TransactionType = r.TransactionType
	}
	if r.PaymentType != "" {
		t.PaymentType = r.PaymentType
	}
	if r.BankID != 0 {
		t.BankID = r.BankID
	}
}

// CreateDraft stores a new DRAFT authored by actor. The pattern must pass
// validation and no DRAFT with the same definition may exist.
func (s *Service) CreateDraft(ctx context.Context, actor model.Actor, t *model.Template) (*model.Template, error) {
	if actor.Role != model.RoleMaker {
		return nil, fmt.Errorf("%w: role %s cannot author templates", common.ErrForbidden, actor.Role)
	}

	draft := *t
	draft.ID = 0
	draft.Audit = nil
	draft.SenderHeader = strings.TrimSpace(draft.SenderHeader)
	draft.Status = model.StatusDraft
	draft.CreatedBy = actor.UserID

	if _, err := pattern.Validate(draft.Pattern); err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	existing, err := s.store.FindDuplicateDraft(ctx, &draft)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: draft %d has the same definition", common.ErrDuplicateEntry, existing.ID)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to check for duplicate drafts: %w", err)
	}

	if err := s.store.CreateTemplate(ctx, &draft); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	slog.Info("Created draft template",
		"template_id", draft.ID,
		"sender_header", draft.SenderHeader,
		"created_by", draft.CreatedBy)
	return &draft, nil
}

// Submit moves a DRAFT to PENDING. Only the maker who created it may submit,
// optionally revising the definition in the same step.
func (s *Service) Submit(ctx context.Context, actor model.Actor, templateID int64, rev *Revision) (*model.Template, error) {
	if rev != nil && rev.Pattern != "" {
		if _, err := pattern.Validate(rev.Pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	return s.transition(ctx, actor, templateID, EventSubmit, func(_ context.Context, _ service.Transaction, t *model.Template) error {
		if t.CreatedBy != actor.UserID {
			return fmt.Errorf("%w: only the creator can submit template %d", common.ErrForbidden, t.ID)
		}
		rev.applyTo(t)
		return nil
	})
}

// Approve moves a PENDING template to VERIFIED and records the decision.
func (s *Service) Approve(ctx context.Context, actor model.Actor, templateID int64) (*model.Template, error) {
	return s.review(ctx, actor, templateID, EventApprove, model.DecisionApproved)
}

// Reject sends a PENDING template back to DRAFT and records the decision.
func (s *Service) Reject(ctx context.Context, actor model.Actor, templateID int64) (*model.Template, error) {
	return s.review(ctx, actor, templateID, EventReject, model.DecisionRejected)
}

// Deprecate retires a VERIFIED template. The review record is left unchanged.
func (s *Service) Deprecate(ctx context.Context, actor model.Actor, templateID int64) (*model.Template, error) {
	return s.transition(ctx, actor, templateID, EventDeprecate, nil)
}

func (s *Service) review(ctx context.Context, actor model.Actor, templateID int64, ev Event, decision model.AuditDecision) (*model.Template, error) {
	return s.transition(ctx, actor, templateID, ev, func(ctx context.Context, tx service.Transaction, t *model.Template) error {
		record := &model.AuditRecord{
			TemplateID: t.ID,
			ReviewerID: actor.UserID,
			Decision:   decision,
			DecidedAt:  s.now().UTC(),
		}
		if err := tx.SaveAuditRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to save audit record: %w", err)
		}
		t.Audit = record
		return nil
	})
}

// transition loads the template, checks and applies ev, runs hook and stores
// the result in one transaction. Nothing is written if any step fails.
func (s *Service) transition(
	ctx context.Context,
	actor model.Actor,
	templateID int64,
	ev Event,
	hook func(context.Context, service.Transaction, *model.Template) error,
) (*model.Template, error) {
	if err := authorize(actor, ev); err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	t, err := tx.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	from := t.Status
	to, err := Next(from, ev)
	if err != nil {
		return nil, fmt.Errorf("template %d: %w", t.ID, err)
	}

	if hook != nil {
		if err := hook(ctx, tx, t); err != nil {
			return nil, err
		}
	}

	t.Status = to
	if err := tx.UpdateTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.ObserveTransition(string(from), string(to))
	slog.Info("Template transitioned",
		"template_id", t.ID,
		"event", ev,
		"from", from,
		"to", to,
		"actor", actor.UserID)
	return t, nil
}

// Get returns a template with its review record.
func (s *Service) Get(ctx context.Context, templateID int64) (*model.Template, error) {
	return s.store.GetTemplate(ctx, templateID)
}

// ByCreator lists the templates a maker authored.
func (s *Service) ByCreator(ctx context.Context, creatorID int64) ([]model.Template, error) {
	return s.store.GetTemplatesByCreator(ctx, creatorID)
}

// ByStatus lists templates in a state.
func (s *Service) ByStatus(ctx context.Context, status model.TemplateStatus) ([]model.Template, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown template status %q", status)
	}
	return s.store.GetTemplatesByStatus(ctx, status)
}

// PendingReview lists the templates waiting for a checker.
func (s *Service) PendingReview(ctx context.Context, actor model.Actor) ([]model.Template, error) {
	if actor.Role != model.RoleChecker {
		return nil, fmt.Errorf("%w: role %s cannot review templates", common.ErrForbidden, actor.Role)
	}
	return s.store.GetTemplatesByStatus(ctx, model.StatusPending)
}

// TestPattern runs a pattern against a sample message without storing anything.
// Validation problems are returned; a pattern that simply does not match
// yields an outcome with every field absent.
func (s *Service) TestPattern(regex, sample string, tags pattern.Tags) (pattern.Outcome, *pattern.Report, error) {
	report, err := pattern.Validate(regex)
	if err != nil {
		return pattern.Outcome{}, nil, err
	}
	outcome := s.extractor.Extract(pattern.Request{Pattern: regex, Message: sample, Tags: tags})
	return outcome, report, nil
}
