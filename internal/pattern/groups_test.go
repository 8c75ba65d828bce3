package pattern

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
)

func TestBuildGroupIndex(t *testing.T) {
	tests := []struct {
		want    GroupIndex
		name    string
		pattern string
	}{
		{
			name:    "single named group",
			pattern: `Rs\.?\s*(?<amount>[\d,]+\.?\d*)`,
			want:    GroupIndex{"amount": 1},
		},
		{
			name:    "anonymous groups count toward the index",
			pattern: `(\d+)-(?<amount>\d+)(?:x)(?<balance>\d+)`,
			want:    GroupIndex{"amount": 2, "balance": 3},
		},
		{
			name:    "lookahead does not capture",
			pattern: `(?<amount>\d+)(?=USD)(?<balance>\d+)(?!x)`,
			want:    GroupIndex{"amount": 1, "balance": 2},
		},
		{
			name:    "positive lookbehind is not a named group",
			pattern: `(?<=Rs)(?<amount>\d+)`,
			want:    GroupIndex{"amount": 1},
		},
		{
			name:    "negative lookbehind is not a named group",
			pattern: `(?<!Dr)(?<amount>\d+)(?<=\d)(?<balance>\d+)`,
			want:    GroupIndex{"amount": 1, "balance": 2},
		},
		{
			name:    "escaped parentheses are literals",
			pattern: `\((?<amount>\d+)\)`,
			want:    GroupIndex{"amount": 1},
		},
		{
			name:    "parentheses inside a class are literals",
			pattern: `[(](x)[^)](?<amount>\d)`,
			want:    GroupIndex{"amount": 2},
		},
		{
			name:    "leading bracket in a class is literal",
			pattern: `[]()](?<amount>\d)`,
			want:    GroupIndex{"amount": 1},
		},
		{
			name:    "posix class inside a class",
			pattern: `[[:alpha:](](?<merchant>\w+)`,
			want:    GroupIndex{"merchant": 1},
		},
		{
			name:    "quoted literal section",
			pattern: `\Q(a)\E(?<amount>\d)`,
			want:    GroupIndex{"amount": 1},
		},
		{
			name:    "inline flags",
			pattern: `(?i)(?i:abc)(?<amount>\d)(?s:.)`,
			want:    GroupIndex{"amount": 1},
		},
		{
			name:    "P-style named group",
			pattern: `(a)(?P<amount>\d)`,
			want:    GroupIndex{"amount": 2},
		},
		{
			name:    "nested groups",
			pattern: `((?<amount>\d+)(?<balance>\d+))`,
			want:    GroupIndex{"amount": 2, "balance": 3},
		},
		{
			name:    "no groups",
			pattern: `debited`,
			want:    GroupIndex{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildGroupIndex(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildGroupIndex_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		pattern string
	}{
		{name: "missing close paren", pattern: `(?<amount>\d+`, wantErr: common.ErrPatternSyntax},
		{name: "unmatched close paren", pattern: `\d+)`, wantErr: common.ErrPatternSyntax},
		{name: "unterminated class", pattern: `[invalid(regex`, wantErr: common.ErrPatternSyntax},
		{name: "trailing backslash", pattern: `abc\`, wantErr: common.ErrPatternSyntax},
		{name: "duplicate name", pattern: `(?<amount>x)(?<amount>y)`, wantErr: common.ErrPatternSyntax},
		{name: "bad P-style name", pattern: `(?P<a-b>x)`, wantErr: common.ErrPatternSyntax},
		{name: "invalid character after (?<", pattern: `(?<a-b>x)`, wantErr: common.ErrAmbiguousGroupSyntax},
		{name: "empty name", pattern: `(?<>x)`, wantErr: common.ErrAmbiguousGroupSyntax},
		{name: "unterminated name", pattern: `(?<amount`, wantErr: common.ErrAmbiguousGroupSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildGroupIndex(tt.pattern)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)

			var perr *common.PatternError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

// The scan must agree with the regexp engine wherever the engine accepts the pattern.
func TestBuildGroupIndex_AgreesWithEngine(t *testing.T) {
	patterns := []string{
		`Rs\.?\s*(?<amount>[\d,]+\.?\d*)`,
		`(?i)(\w+)\s(?<merchant>[A-Z ]+)\s(?:on)\s(?<date>\d{2}-\d{2}-\d{4})`,
		`\((x)\)(?P<balance>\d+)[(](?<amount>\d+)`,
		`\Q((\E(a(b(?<txnNote>c)))(?<city>d)`,
		`(?s:.*)(?<bankAcId>X+\d{4})|(?<sAcId>\d+)`,
	}

	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			index, err := BuildGroupIndex(p)
			require.NoError(t, err)

			re := regexp.MustCompile(p)
			for i, name := range re.SubexpNames() {
				if name == "" {
					continue
				}
				assert.Equal(t, i, index.Lookup(name), "group %q", name)
			}
			assert.Len(t, index, countNames(re))
		})
	}
}

func TestBuildGroupIndex_StrictlyIncreasing(t *testing.T) {
	p := `(?<bankAcId>\w+)(x)(?:y)(?<amount>\d+)(?=z)((?<date>\d+))(?<balance>\d+)`
	index, err := BuildGroupIndex(p)
	require.NoError(t, err)

	order := []string{"bankAcId", "amount", "date", "balance"}
	prev := 0
	for _, name := range order {
		idx := index.Lookup(name)
		assert.Greater(t, idx, prev, "group %q", name)
		prev = idx
	}
	assert.Equal(t, GroupIndex{"bankAcId": 1, "amount": 3, "date": 5, "balance": 6}, index)
}

func TestGroupIndex_Lookup(t *testing.T) {
	index := GroupIndex{"amount": 2}
	assert.Equal(t, 2, index.Lookup("amount"))
	assert.Equal(t, -1, index.Lookup("balance"))

	var empty GroupIndex
	assert.Equal(t, -1, empty.Lookup("amount"))
}

func countNames(re *regexp.Regexp) int {
	n := 0
	for _, name := range re.SubexpNames() {
		if name != "" {
			n++
		}
	}
	return n
}
