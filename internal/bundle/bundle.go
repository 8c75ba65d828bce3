// Package bundle reads template definitions from YAML files so a maker can
// author many drafts at once.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Version is the bundle format version this package reads.
const Version = 1

// ErrInvalidBundle is returned when a bundle does not match the schema.
var ErrInvalidBundle = errors.New("invalid template bundle")

// Entry is one template definition in a bundle.
type Entry struct {
	SenderHeader    string `yaml:"sender_header"`
	Pattern         string `yaml:"pattern"`
	Sample          string `yaml:"sample,omitempty"`
	SmsType         string `yaml:"sms_type"`
	TransactionType string `yaml:"transaction_type,omitempty"`
	PaymentType     string `yaml:"payment_type,omitempty"`
	BankID          int64  `yaml:"bank_id,omitempty"`
}

// Template converts the entry to an unsaved template.
func (e Entry) Template() model.Template {
	return model.Template{
		SenderHeader:    strings.TrimSpace(e.SenderHeader),
		Pattern:         e.Pattern,
		SampleRawMsg:    e.Sample,
		SmsType:         model.SmsType(e.SmsType),
		TransactionType: model.TransactionType(e.TransactionType),
		PaymentType:     model.PaymentType(e.PaymentType),
		BankID:          e.BankID,
	}
}

// Bundle is a set of template definitions.
type Bundle struct {
	Templates []Entry `yaml:"templates"`
	Version   int     `yaml:"version"`
}

// Load reads and validates the bundle at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the bundle schema and decodes it.
func Parse(data []byte) (*Bundle, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidBundle)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema()), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidBundle, strings.Join(errs, "; "))
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return &b, nil
}

// Marshal encodes templates as a bundle.
func Marshal(templates []model.Template) ([]byte, error) {
	b := Bundle{Version: Version}
	for _, t := range templates {
		b.Templates = append(b.Templates, Entry{
			SenderHeader:    t.SenderHeader,
			Pattern:         t.Pattern,
			Sample:          t.SampleRawMsg,
			SmsType:         string(t.SmsType),
			TransactionType: string(t.TransactionType),
			PaymentType:     string(t.PaymentType),
			BankID:          t.BankID,
		})
	}
	return yaml.Marshal(&b)
}

func schema() map[string]any {
	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"version", "templates"},
		"properties": map[string]any{
			"version": map[string]any{"const": Version},
			"templates": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"required":             []any{"sender_header", "pattern", "sms_type"},
					"additionalProperties": false,
					"properties": map[string]any{
						"sender_header":    map[string]any{"type": "string", "minLength": 1},
						"pattern":          map[string]any{"type": "string", "minLength": 1},
						"sample":           map[string]any{"type": "string"},
						"sms_type":         map[string]any{"enum": enum(model.SmsTypes)},
						"transaction_type": map[string]any{"enum": enum(model.TransactionTypes)},
						"payment_type":     map[string]any{"enum": enum(model.PaymentTypes)},
						"bank_id":          map[string]any{"type": "integer", "minimum": 0},
					},
				},
			},
		},
	}
}

func enum[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
