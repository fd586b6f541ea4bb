// Package ignore matches file paths against glob ignore patterns for the
// cmd/parsekit directory walk, using doublestar for correct "**" semantics
// including patterns like "**/target/**".
package ignore

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher matches file paths against ignore patterns.
type Matcher struct {
	patterns []string
}

// NewMatcher creates a new pattern matcher.
func NewMatcher(patterns []string) *Matcher {
	return &Matcher{patterns: patterns}
}

// ShouldIgnore returns true if path matches any ignore pattern, checking
// the path itself and its basename. Ancestor directories are not checked
// individually.
func (m *Matcher) ShouldIgnore(path string) bool {
	path = filepath.ToSlash(path)
	filename := filepath.Base(path)

	for _, pattern := range m.patterns {
		pattern = filepath.ToSlash(pattern)
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
		if doublestar.MatchUnvalidated(pattern, filename) {
			return true
		}
	}
	return false
}

// DefaultPatterns returns the default ignore patterns.
func DefaultPatterns() []string {
	return []string{
		"target/**",
		"build/**",
		"dist/**",
		"out/**",
		"node_modules/**",
		".pnp/**",
		"**/*.min.js",
		"**/*.bundle.js",
		".git/**",
		".idea/**",
		".vscode/**",
		"*.iml",
	}
}
