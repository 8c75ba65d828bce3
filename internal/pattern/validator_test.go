package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
)

func TestValidate(t *testing.T) {
	report, err := Validate(`(?<merchant>\w+) (?<foo>\d+) Rs (?<amount>[\d,.]+) (?<bar>x)`)
	require.NoError(t, err)

	assert.Equal(t, []string{"merchant", "amount"}, report.Fields)
	assert.Equal(t, []string{"bar", "foo"}, report.Unknown)
	assert.Equal(t, GroupIndex{"merchant": 1, "foo": 2, "amount": 3, "bar": 4}, report.Groups)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		pattern string
	}{
		{name: "unbalanced", pattern: `[invalid(regex`, wantErr: common.ErrPatternSyntax},
		{name: "ambiguous group", pattern: `(?<a b>\d)`, wantErr: common.ErrAmbiguousGroupSyntax},
		{name: "lookahead rejected by engine", pattern: `(?<amount>\d+)(?=USD)`, wantErr: common.ErrPatternSyntax},
		{name: "bad repetition", pattern: `a**`, wantErr: common.ErrPatternSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Validate(tt.pattern)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalog(t *testing.T) {
	assert.Len(t, Catalog, 38)

	seen := make(map[FieldName]bool)
	for _, f := range Catalog {
		assert.False(t, seen[f.Name], "duplicate field %s", f.Name)
		seen[f.Name] = true
		assert.NotEmpty(t, f.Section)
		assert.True(t, InCatalog(string(f.Name)))
	}
	assert.False(t, InCatalog("Amount"))
}
