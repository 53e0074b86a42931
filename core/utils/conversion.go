package utils

import (
	"strings"

	"github.com/spf13/cast"
)

// ToInt parses a configuration value. Blank or malformed values yield 0.
func ToInt(s string) int {
	n, err := cast.ToIntE(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ToBool parses a configuration value. "1", "t" and "true" in any case are
// true; blank or malformed values are false.
func ToBool(s string) bool {
	b, err := cast.ToBoolE(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return b
}
