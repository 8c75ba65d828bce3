package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/pattern"
)

func TestExtractSenderHeader(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "TESTBK: Your account has been debited", want: "TESTBK"},
		{text: "  AX-HDFCBK  : Rs 500 credited", want: "AX-HDFCBK"},
		{text: "HDFC Rs 500 debited", want: "HDFC"},
		{text: "Rs 500 debited at 10:30", want: "Rs 500 debited at 10"},
		{text: ":no header here", want: ":no"},
		{text: "   spaced   words", want: "spaced"},
		{text: "", want: ""},
		{text: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSenderHeader(tt.text))
		})
	}
}

func TestResolveDirection(t *testing.T) {
	extractor := pattern.NewExtractor()
	withNegative := extractor.Extract(pattern.Request{
		Pattern: `(?<amountNegative>-)?(?<amount>\d+)`,
		Message: "-500 moved",
	})
	empty := extractor.Extract(pattern.Request{Pattern: `x`, Message: "y"})

	tests := []struct {
		outcome pattern.Outcome
		smsType model.SmsType
		want    model.SmsType
		name    string
		text    string
	}{
		{name: "template type wins", smsType: model.SmsTypeLoan, outcome: withNegative, text: "credited", want: model.SmsTypeLoan},
		{name: "negative amount", outcome: withNegative, text: "credited", want: model.SmsTypeDebit},
		{name: "debit keyword", outcome: empty, text: "Rs 50 SPENT at store", want: model.SmsTypeDebit},
		{name: "credit keyword", outcome: empty, text: "salary Received", want: model.SmsTypeCredit},
		{name: "debit keywords are checked first", outcome: empty, text: "credited via debit card", want: model.SmsTypeDebit},
		{name: "no signal", outcome: empty, text: "your OTP is 1234", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDirection(tt.smsType, tt.outcome, tt.text))
		})
	}
}
