package pattern

import (
	"fmt"
	"strings"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
)

// GroupIndex maps each named group of a pattern to its 1-based position among
// all capturing groups, named and anonymous, in order of opening parenthesis.
type GroupIndex map[string]int

// Lookup returns the index recorded for name, or -1.
func (g GroupIndex) Lookup(name string) int {
	if idx, ok := g[name]; ok {
		return idx
	}
	return -1
}

// BuildGroupIndex scans pattern source and numbers its capturing groups.
//
// Escapes (\x) and \Q...\E quoting are skipped, as are parentheses inside
// character classes. (?:, (?=, (?!, (?<=, (?<! and inline flag groups do not
// capture. (?<name> and (?P<name> capture and are recorded. Any other ( is an
// anonymous capturing group.
//
// A '=' or '!' right after "(?<" is always read as lookbehind. Anything else
// after "(?<" that is not a valid name closed by '>' fails with
// common.ErrAmbiguousGroupSyntax. Unbalanced parentheses and unterminated
// classes fail with common.ErrPatternSyntax.
func BuildGroupIndex(pattern string) (GroupIndex, error) {
	index := make(GroupIndex)
	count := 0
	depth := 0
	n := len(pattern)

	for i := 0; i < n; i++ {
		switch pattern[i] {
		case '\\':
			if i+1 >= n {
				return nil, syntaxErr(i, "trailing backslash")
			}
			if pattern[i+1] == 'Q' {
				end := indexFrom(pattern, `\E`, i+2)
				if end < 0 {
					// \Q without \E quotes the rest of the pattern.
					i = n
					continue
				}
				i = end + 1
				continue
			}
			i++

		case '[':
			end, err := skipClass(pattern, i)
			if err != nil {
				return nil, err
			}
			i = end

		case ')':
			depth--
			if depth < 0 {
				return nil, syntaxErr(i, "unmatched ')'")
			}

		case '(':
			depth++
			if i+1 >= n || pattern[i+1] != '?' {
				count++
				continue
			}

			rest := pattern[i+2:]
			switch {
			case strings.HasPrefix(rest, "<=") || strings.HasPrefix(rest, "<!"):
				i += 3
			case strings.HasPrefix(rest, "P<"):
				name, end, err := readGroupName(pattern, i+4)
				if err != nil {
					return nil, syntaxErr(i, err.Error())
				}
				count++
				if _, dup := index[name]; dup {
					return nil, syntaxErr(i, fmt.Sprintf("duplicate group name %q", name))
				}
				index[name] = count
				i = end
			case strings.HasPrefix(rest, "<"):
				name, end, err := readGroupName(pattern, i+3)
				if err != nil {
					return nil, &common.PatternError{Kind: common.ErrAmbiguousGroupSyntax, Offset: i, Reason: err.Error()}
				}
				count++
				if _, dup := index[name]; dup {
					return nil, syntaxErr(i, fmt.Sprintf("duplicate group name %q", name))
				}
				index[name] = count
				i = end
			default:
				// (?:, (?=, (?!, flags: skip the '?' and keep scanning.
				i++
			}
		}
	}

	if depth != 0 {
		return nil, syntaxErr(n, "missing ')'")
	}

	return index, nil
}

// readGroupName reads a group name starting at start and returns it with the
// offset of the closing '>'.
func readGroupName(pattern string, start int) (string, int, error) {
	for j := start; j < len(pattern); j++ {
		c := pattern[j]
		if c == '>' {
			if j == start {
				return "", 0, fmt.Errorf("empty group name")
			}
			return pattern[start:j], j, nil
		}
		if !isNameChar(c) {
			return "", 0, fmt.Errorf("invalid character %q in group name", c)
		}
	}
	return "", 0, fmt.Errorf("unterminated group name")
}

// skipClass returns the offset of the ']' closing the class opened at start.
// A ']' directly after '[' or '[^' is a literal.
func skipClass(pattern string, start int) (int, error) {
	j := start + 1
	if j < len(pattern) && pattern[j] == '^' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for ; j < len(pattern); j++ {
		switch pattern[j] {
		case '\\':
			j++
		case '[':
			// POSIX class such as [:alpha:].
			if j+1 < len(pattern) && pattern[j+1] == ':' {
				if end := indexFrom(pattern, ":]", j+2); end >= 0 {
					j = end + 1
				}
			}
		case ']':
			return j, nil
		}
	}
	return 0, syntaxErr(start, "missing ']'")
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func indexFrom(s, sub string, from int) int {
	if from > len(s) {
		return -1
	}
	if j := strings.Index(s[from:], sub); j >= 0 {
		return from + j
	}
	return -1
}

func syntaxErr(offset int, reason string) error {
	return &common.PatternError{Kind: common.ErrPatternSyntax, Offset: offset, Reason: reason}
}
