/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"fmt"
	"path/filepath"

	incfs "bennypowers.dev/incdeps/fs"
)

// NodeModulesDir is the name of the directory packages are installed into.
const NodeModulesDir = "node_modules"

// ResolvePackageRoot resolves a package name to its installed directory.
// It walks up the directory tree from baseDir looking for
// node_modules/<name>, so nested (private) versions shadow hoisted ones.
// The returned path has symbolic links evaluated.
func (r *NodeResolver) ResolvePackageRoot(name, baseDir string) (string, error) {
	// Convert baseDir to absolute path for proper walk-up
	dir := baseDir
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path %s: %w", dir, err)
		}
		dir = absDir
	}

	startDir := dir

	// Walk up directory tree looking for node_modules
	for {
		// node_modules/node_modules is never searched
		if filepath.Base(dir) != NodeModulesDir {
			nodeModulesBase := filepath.Join(dir, NodeModulesDir)
			candidate := filepath.Join(nodeModulesBase, name)

			// Path traversal protection: verify path stays inside node_modules
			if candidate == nodeModulesBase || !isInsideDir(candidate, nodeModulesBase) {
				return "", fmt.Errorf("invalid package name %q", name)
			}

			if incfs.IsDir(r.fs, candidate) {
				return r.fs.RealPath(candidate)
			}
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: package %s (looked in node_modules starting from %s)", ErrNotFound, name, startDir)
}
