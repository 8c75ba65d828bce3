package pattern

import (
	"sort"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
)

// Report describes the named groups of a pattern that passed validation.
type Report struct {
	Groups  GroupIndex
	Fields  []string
	Unknown []string
}

// Validate checks a pattern at authoring time. Unlike Extract, it surfaces
// problems: group scan errors (common.ErrPatternSyntax or
// common.ErrAmbiguousGroupSyntax) and engine compile errors
// (common.ErrPatternSyntax).
func Validate(pattern string) (*Report, error) {
	groups, err := BuildGroupIndex(pattern)
	if err != nil {
		return nil, err
	}

	re, err := common.CompileFold(pattern)
	if err != nil {
		return nil, err
	}

	report := &Report{Groups: groups}
	for _, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		if InCatalog(name) {
			report.Fields = append(report.Fields, name)
		} else {
			report.Unknown = append(report.Unknown, name)
		}
	}
	sort.Strings(report.Unknown)

	return report, nil
}
