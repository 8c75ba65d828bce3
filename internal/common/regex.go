package common

import (
	"fmt"
	"regexp"
)

// CompileFold compiles a pattern case-insensitively.
// Compilation failures are wrapped in ErrPatternSyntax.
func CompileFold(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatternSyntax, err)
	}
	return re, nil
}
