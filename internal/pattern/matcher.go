package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vedant-dewangan/RegexFlow/internal/metrics"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithParallelScoring scores candidates concurrently. Selection stays
// first-max-wins over the candidate order.
func WithParallelScoring(parallel bool) MatcherOption {
	return func(m *Matcher) {
		m.parallel = parallel
	}
}

// WithNotifier sets who is told about unmatched messages.
func WithNotifier(n UnmatchedNotifier) MatcherOption {
	return func(m *Matcher) {
		m.notifier = n
	}
}

// WithMetrics records scoring durations and outcomes.
func WithMetrics(mt *metrics.Metrics) MatcherOption {
	return func(m *Matcher) {
		m.metrics = mt
	}
}

// Matcher selects the template that extracts the most fields from a message.
type Matcher struct {
	extractor Extractor
	notifier  UnmatchedNotifier
	metrics   *metrics.Metrics
	parallel  bool
}

// NewMatcher creates a matcher using the given extractor.
func NewMatcher(extractor Extractor, opts ...MatcherOption) *Matcher {
	m := &Matcher{extractor: extractor}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match scores every candidate against msg and returns the best one.
//
// Candidates are expected to be VERIFIED templates for msg's sender header, in
// the order the store returned them. A later candidate only wins with a strictly
// higher score, so ties go to the earlier one. When no candidate extracts any
// field the notifier is called and the decision has no template.
func (m *Matcher) Match(ctx context.Context, msg Message, candidates []model.Template) (Decision, error) {
	start := time.Now()
	outcomes, err := m.score(ctx, msg.Text, candidates)
	m.metrics.ObserveScoring(time.Since(start), len(candidates))
	if err != nil {
		return Decision{}, err
	}

	best := -1
	bestScore := 0
	for i, o := range outcomes {
		if s := o.Score(); s > bestScore {
			best, bestScore = i, s
		}
	}

	if best < 0 {
		slog.Info("No template matched message",
			"sender_header", msg.SenderHeader,
			"candidates", len(candidates))
		m.metrics.ObserveMessage(metrics.OutcomeUnmatched)

		decision := Decision{}
		if m.notifier != nil {
			n, err := m.notifier.NotifyUnmatched(ctx, model.UnmatchedMessage{
				SenderHeader: msg.SenderHeader,
				Text:         msg.Text,
				MessageID:    msg.MessageID,
				RequesterID:  msg.RequesterID,
			})
			if err != nil {
				return decision, fmt.Errorf("failed to notify unmatched message: %w", err)
			}
			decision.Notification = n
		}
		return decision, nil
	}

	winner := candidates[best]
	slog.Debug("Selected template",
		"template_id", winner.ID,
		"sender_header", winner.SenderHeader,
		"score", bestScore)
	m.metrics.ObserveMessage(metrics.OutcomeMatched)

	return Decision{
		Template: &winner,
		Outcome:  outcomes[best],
		Score:    bestScore,
	}, nil
}

// score runs the extractor for each candidate. outcomes[i] belongs to candidates[i].
func (m *Matcher) score(ctx context.Context, text string, candidates []model.Template) ([]Outcome, error) {
	outcomes := make([]Outcome, len(candidates))

	if !m.parallel || len(candidates) < 2 {
		for i := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = m.extractor.Extract(requestFor(&candidates[i], text))
		}
		return outcomes, nil
	}

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = m.extractor.Extract(requestFor(&candidates[i], text))
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func requestFor(t *model.Template, text string) Request {
	return Request{Pattern: t.Pattern, Message: text, Tags: TagsOf(t)}
}
