package arguments

import (
	"iter"
	"strings"
)

// MatchesPrefix reports whether option starts with prefix at its beginning
// or right after one of its underscores. "north_east" matches "east" but not
// "orth"; every option matches the empty prefix.
func MatchesPrefix(prefix, option string) bool {
	for i := 0; !strings.HasPrefix(option[i:], prefix); i++ {
		j := strings.IndexByte(option[i:], '_')
		if j < 0 {
			return false
		}
		i += j
	}
	return true
}

// Filter returns the options matching the lower-cased remaining input, in
// order. The sequence is recomputed on every iteration.
func Filter(remaining string, options []string) iter.Seq[string] {
	prefix := strings.ToLower(remaining)
	return func(yield func(string) bool) {
		for _, option := range options {
			if MatchesPrefix(prefix, option) && !yield(option) {
				return
			}
		}
	}
}
