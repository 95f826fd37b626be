/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pack

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/specifier"
)

// expandGlobs returns the files under root matching any of patterns.
// Patterns are relative to root and use doublestar syntax.
func expandGlobs(filesystem incfs.FileSystem, root string, patterns []string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := expandGlob(filesystem, root, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				result = append(result, m)
			}
		}
	}

	return result, nil
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func expandGlob(filesystem incfs.FileSystem, root, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(strings.TrimPrefix(pattern, "./"))

	if !containsGlob(pattern) {
		p := filepath.Join(root, filepath.FromSlash(pattern))
		if incfs.IsFile(filesystem, p) {
			return []string{p}, nil
		}
		return nil, nil
	}

	// Walk from the non-glob prefix only
	base := pattern
	for containsGlob(base) {
		base = path.Dir(base)
	}
	baseDir := filepath.Join(root, filepath.FromSlash(base))
	if !incfs.IsDir(filesystem, baseDir) {
		return nil, nil
	}

	searchModules := strings.Contains(pattern, specifier.NodeModulesDir)

	var matches []string
	err := fs.WalkDir(filesystem, baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't read
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !searchModules && d.Name() == specifier.NodeModulesDir {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		if matched, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); matched {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}
