package pattern

import (
	"log/slog"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
)

// Request is the input to a single extraction.
type Request struct {
	Pattern string
	Message string
	Tags    Tags
}

// FieldExtractor runs a pattern against a message and resolves the field catalog.
// It holds no state and is safe for concurrent use.
type FieldExtractor struct{}

// NewExtractor creates a field extractor.
func NewExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract matches req.Pattern case-insensitively against the first occurrence in
// req.Message. Invalid patterns and non-matching messages produce an outcome with
// every field absent; extraction never fails.
func (e *FieldExtractor) Extract(req Request) Outcome {
	outcome := emptyOutcome(req.Tags)

	re, err := common.CompileFold(req.Pattern)
	if err != nil {
		slog.Debug("Pattern failed to compile", "error", err)
		return outcome
	}

	groups, err := BuildGroupIndex(req.Pattern)
	if err != nil {
		slog.Debug("Pattern group scan failed", "error", err)
		return outcome
	}

	loc := re.FindStringSubmatchIndex(req.Message)
	if loc == nil {
		return outcome
	}

	for _, f := range Catalog {
		sub := re.SubexpIndex(string(f.Name))
		if sub < 0 {
			continue
		}
		start, end := loc[2*sub], loc[2*sub+1]
		if start < 0 {
			// Group did not participate in the match.
			continue
		}
		idx := groups.Lookup(string(f.Name))
		if idx < 0 {
			continue
		}
		value := req.Message[start:end]
		outcome.fields[f.Name] = FieldResult{Value: &value, Index: idx}
	}

	return outcome
}
