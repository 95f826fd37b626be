/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import (
	"context"
	"io/fs"
	"sync"

	"golang.org/x/sync/errgroup"

	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/specifier"
)

// materialize lists the files of every package root, enumerating up to
// limit roots at once.
func materialize(ctx context.Context, filesystem incfs.FileSystem, roots []string, limit int) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var (
		mu    sync.Mutex
		files []string
	)
	for _, root := range roots {
		g.Go(func() error {
			found, err := packageFiles(ctx, filesystem, root)
			if err != nil {
				return err
			}
			mu.Lock()
			files = append(files, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// packageFiles lists the files under root. Nested node_modules directories
// hold packages of their own and are skipped.
func packageFiles(ctx context.Context, filesystem incfs.FileSystem, root string) ([]string, error) {
	var files []string

	err := fs.WalkDir(filesystem, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if p != root && d.Name() == specifier.NodeModulesDir {
				return fs.SkipDir
			}
			return nil
		}

		// Symlinked directories are not descended into
		if d.Type()&fs.ModeSymlink != 0 && incfs.IsDir(filesystem, p) {
			return nil
		}

		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
