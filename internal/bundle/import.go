package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// DraftCreator creates DRAFT templates on behalf of a maker.
type DraftCreator interface {
	CreateDraft(ctx context.Context, actor model.Actor, t *model.Template) (*model.Template, error)
}

// Result is the outcome of importing one entry.
type Result struct {
	Err      error
	Template *model.Template
	Index    int
}

// Skipped reports whether the entry duplicated an existing draft.
func (r Result) Skipped() bool {
	return errors.Is(r.Err, common.ErrDuplicateEntry)
}

// Summary counts import results.
type Summary struct {
	Created int
	Skipped int
	Failed  int
}

// Import creates a draft for every entry in b, in order. Duplicate drafts are
// skipped and other per-entry failures are collected, so one bad entry does not
// stop the rest. A forbidden entry stops the import after it is reported.
// onResult, when non-nil, is called after each entry.
func Import(ctx context.Context, creator DraftCreator, actor model.Actor, b *Bundle, onResult func(Result)) ([]Result, Summary, error) {
	if b == nil {
		return nil, Summary{}, fmt.Errorf("%w: nil bundle", ErrInvalidBundle)
	}

	results := make([]Result, 0, len(b.Templates))
	var summary Summary
	for i, entry := range b.Templates {
		if err := ctx.Err(); err != nil {
			return results, summary, err
		}

		tmpl := entry.Template()
		created, err := creator.CreateDraft(ctx, actor, &tmpl)
		res := Result{Index: i, Template: created, Err: err}

		switch {
		case err == nil:
			summary.Created++
		case res.Skipped():
			summary.Skipped++
			slog.Debug("Skipping duplicate draft", "index", i, "sender_header", entry.SenderHeader)
		case errors.Is(err, common.ErrForbidden):
			results = append(results, res)
			if onResult != nil {
				onResult(res)
			}
			return results, summary, err
		default:
			summary.Failed++
			slog.Warn("Failed to import template", "index", i, "sender_header", entry.SenderHeader, "error", err)
		}

		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
	}

	slog.Info("Imported template bundle",
		"created", summary.Created,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return results, summary, nil
}
