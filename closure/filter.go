/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Negation is the prefix marking an exclusion pattern.
const Negation = "!"

type rule struct {
	pattern string
	exclude bool
}

// Filter removes files matching exclusion patterns from a closure.
//
// Patterns use doublestar syntax and are matched against slash-separated
// paths relative to the project root. A pattern prefixed with "!" excludes,
// a plain pattern keeps what earlier patterns excluded. The last matching
// pattern decides. A pattern matching a directory applies to everything
// below it, so "!node_modules/**/aws-crt" drops the whole package.
type Filter struct {
	rules []rule
}

// NewFilter validates patterns and builds a Filter.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{rules: make([]rule, 0, len(patterns))}
	for _, p := range patterns {
		pattern, exclude := strings.CutPrefix(strings.TrimSpace(p), Negation)
		pattern = strings.TrimPrefix(pattern, "./")
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
		f.rules = append(f.rules, rule{pattern: pattern, exclude: exclude})
	}
	return f, nil
}

// ExcludePatterns converts packaging-style patterns, where a plain pattern
// excludes and "!" re-includes, into Filter patterns.
func ExcludePatterns(patterns []string) []string {
	if patterns == nil {
		return nil
	}
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if rest, ok := strings.CutPrefix(p, Negation); ok {
			out = append(out, rest)
			continue
		}
		out = append(out, Negation+p)
	}
	return out
}

// Excluded reports whether the root-relative slash path rel is filtered out.
func (f *Filter) Excluded(rel string) bool {
	excluded := false
	for _, r := range f.rules {
		if matchesOrAncestor(r.pattern, rel) {
			excluded = r.exclude
		}
	}
	return excluded
}

// Apply returns the files under root that are not excluded, in order.
func (f *Filter) Apply(root string, files []string) []string {
	if len(f.rules) == 0 {
		return files
	}
	kept := make([]string, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil || !f.Excluded(filepath.ToSlash(rel)) {
			kept = append(kept, file)
		}
	}
	return kept
}

func matchesOrAncestor(pattern, rel string) bool {
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		// Patterns are validated by NewFilter
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
