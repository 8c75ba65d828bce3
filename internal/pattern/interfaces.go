// Package pattern extracts catalog fields from SMS text with regex templates and
// selects the template that best explains a message.
package pattern

import (
	"context"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// Extractor resolves the field catalog for a pattern and message.
type Extractor interface {
	Extract(req Request) Outcome
}

// UnmatchedNotifier is told about messages no candidate template could explain.
type UnmatchedNotifier interface {
	NotifyUnmatched(ctx context.Context, msg model.UnmatchedMessage) (*model.Notification, error)
}

// Message is what the matcher needs to know about an inbound SMS.
type Message struct {
	Text         string
	SenderHeader string
	MessageID    int64
	RequesterID  int64
}

// Decision is the result of selecting a template for a message.
// Template is nil when nothing matched.
type Decision struct {
	Template     *model.Template
	Notification *model.Notification
	Outcome      Outcome
	Score        int
}

// Matched reports whether a template was selected.
func (d Decision) Matched() bool {
	return d.Template != nil
}
