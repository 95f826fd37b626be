/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/manifest"
	"bennypowers.dev/incdeps/specifier"
)

// walkLocal follows relative imports from entry. Bare imports are recorded
// as package requests for walkPackages.
func (r *run) walkLocal(ctx context.Context, entry string) error {
	queue := []string{entry}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if !r.cache.MarkFile(current) {
			continue
		}
		r.files = append(r.files, current)

		specs, err := r.analyzer.Specifiers(ctx, current)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}

		base := filepath.Dir(current)
		for _, raw := range specs {
			spec := specifier.Classify(raw, r.ignore)

			switch spec.Kind {
			case specifier.KindRelative:
				resolved, err := r.resolveFile(raw, base)
				if err != nil {
					return fmt.Errorf("%w: %q in %s: %w", ErrUnresolvedImport, raw, current, err)
				}
				if err := checkBoundary(r.root, resolved); err != nil {
					return err
				}
				if r.inNodeModules(resolved) {
					// A relative path reaching into node_modules names a package
					pkgRoot, err := r.owningPackage(resolved)
					if err != nil {
						return err
					}
					r.seeds = append(r.seeds, pkgRoot)
					continue
				}
				queue = append(queue, resolved)

			case specifier.KindPackage:
				r.requests = append(r.requests, packageRequest{name: spec.Package, base: base, from: current})

			default:
				r.logger.Debugf("skipping %s import %q in %s", spec.Kind, raw, current)
			}
		}
	}

	return nil
}

func (r *run) inNodeModules(p string) bool {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return false
	}
	return slices.Contains(strings.Split(filepath.ToSlash(rel), "/"), specifier.NodeModulesDir)
}

// owningPackage returns the nearest directory above file that holds a
// package.json, without leaving the enclosing node_modules directory.
func (r *run) owningPackage(file string) (string, error) {
	dir := filepath.Dir(file)
	for filepath.Base(dir) != specifier.NodeModulesDir {
		if incfs.IsFile(r.fs, filepath.Join(dir, manifest.FileName)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: no %s above %s", ErrManifestNotFound, manifest.FileName, file)
}
