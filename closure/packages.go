/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import (
	"context"
	"errors"

	"bennypowers.dev/incdeps/manifest"
	"bennypowers.dev/incdeps/specifier"
)

// walkPackages expands the package requests of the local walk through the
// dependency declarations of each package.json, recording every package
// root reached.
func (r *run) walkPackages(ctx context.Context) error {
	queue := make([]string, 0, len(r.requests)+len(r.seeds))

	for _, req := range r.requests {
		root, err := r.resolvePackage(req.name, req.base)
		if errors.Is(err, specifier.ErrNotFound) {
			return &MissingDependencyError{Name: req.name, From: req.from, Category: CategoryImport}
		}
		if err != nil {
			return err
		}
		if err := checkBoundary(r.root, root); err != nil {
			return err
		}
		queue = append(queue, root)
	}
	queue = append(queue, r.seeds...)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if !r.cache.MarkRoot(current) {
			continue
		}
		r.roots = append(r.roots, current)

		m, err := r.loadManifest(current)
		if err != nil {
			return err
		}

		deps, err := r.dependencies(current, m)
		if err != nil {
			return err
		}
		queue = append(queue, deps...)
	}

	return nil
}

// dependencies resolves the declared dependencies of the package at root,
// searching node_modules upwards from root.
func (r *run) dependencies(root string, m *manifest.Manifest) ([]string, error) {
	var found []string

	for _, category := range manifest.Categories {
		for _, name := range m.Names(category) {
			// npm mirrors optional dependencies into "dependencies"
			if category != manifest.Optional && m.IsOptional(name) {
				continue
			}
			// Declared names are npm packages even when they shadow a
			// built-in, e.g. string_decoder, so only the ignore set applies.
			if specifier.Classify(name, r.ignore).Kind == specifier.KindIgnored {
				r.logger.Debugf("skipping ignored dependency %s of %s", name, root)
				continue
			}

			dep, err := r.resolvePackage(name, root)
			if err == nil {
				if err := checkBoundary(r.root, dep); err != nil {
					return nil, err
				}
				found = append(found, dep)
				continue
			}
			if !errors.Is(err, specifier.ErrNotFound) {
				return nil, err
			}

			switch {
			case category == manifest.Optional:
				r.logger.Warnf("missing optional dependency %s of %s", name, root)
			case category == manifest.Peer && m.IsOptionalPeer(name):
				// optional peers are left to the consumer
			default:
				return nil, &MissingDependencyError{Name: name, From: root, Category: category.String()}
			}
		}
	}

	return found, nil
}
