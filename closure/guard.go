/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import (
	"path/filepath"
	"strings"
)

// IsOutside reports whether candidate escapes root. A relative candidate is
// taken relative to root.
func IsOutside(root, candidate string) bool {
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// checkBoundary returns a *BoundaryError when p is outside root.
func checkBoundary(root, p string) error {
	if IsOutside(root, p) {
		return &BoundaryError{Path: p, Root: root}
	}
	return nil
}
