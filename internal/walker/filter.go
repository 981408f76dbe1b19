package walker

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directories never descended into.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"etc.clientlibs",
	"_jcr_content",
	"fragments",
	".DS_Store",
}

func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude reports whether sitePath matches any include pattern.
// With no patterns everything is included.
func MatchesInclude(sitePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(sitePath, patterns)
}

// MatchesExclude reports whether sitePath matches any exclude pattern.
func MatchesExclude(sitePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(sitePath, patterns)
}

// matchesAny matches with doublestar semantics, against the path with
// and without its leading slash, and against the file name alone.
func matchesAny(sitePath string, patterns []string) bool {
	trimmed := strings.TrimPrefix(sitePath, "/")
	base := path.Base(sitePath)
	for _, pattern := range patterns {
		for _, candidate := range []string{sitePath, trimmed, base} {
			if matched, err := doublestar.Match(pattern, candidate); err == nil && matched {
				return true
			}
		}
	}
	return false
}
