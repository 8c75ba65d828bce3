package sms

import (
	"strings"

	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/pattern"
)

// Debit keywords are checked before credit keywords.
var (
	debitKeywords  = []string{"debited", "withdrawn", "spent", "paid", "deducted", "debit"}
	creditKeywords = []string{"credited", "received", "deposited", "added", "credit"}
)

// ExtractSenderHeader returns the text before the first ':' when the message
// does not start with one, otherwise the first word.
func ExtractSenderHeader(text string) string {
	if text == "" {
		return ""
	}
	if i := strings.IndexByte(text, ':'); i > 0 {
		return strings.TrimSpace(text[:i])
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// ResolveDirection decides whether a matched message is a debit or a credit.
// The template's SMS type wins; otherwise a present amountNegative means
// DEBIT; otherwise the text is scanned for keywords. It returns "" when
// nothing decides.
func ResolveDirection(smsType model.SmsType, outcome pattern.Outcome, text string) model.SmsType {
	if smsType != "" {
		return smsType
	}
	if outcome.Field(pattern.FieldAmountNegative).Present() {
		return model.SmsTypeDebit
	}

	lower := strings.ToLower(text)
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			return model.SmsTypeDebit
		}
	}
	for _, kw := range creditKeywords {
		if strings.Contains(lower, kw) {
			return model.SmsTypeCredit
		}
	}
	return ""
}
