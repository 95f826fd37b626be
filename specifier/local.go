/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"fmt"
	"path/filepath"
	"strings"

	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/manifest"
)

// ResolveRelative resolves a relative or absolute file specifier to the
// real path of a file, trying in order: the exact file, the file with each
// known extension, the directory's package.json "main" entry, and finally
// the directory's index file.
func (r *NodeResolver) ResolveRelative(spec, baseDir string) (string, error) {
	target := spec
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, spec)
	}

	// A trailing slash forces directory resolution
	if !strings.HasSuffix(spec, "/") {
		if p, ok := r.tryFile(target); ok {
			return r.fs.RealPath(p)
		}
	}

	if p, ok := r.tryDirectory(target); ok {
		return r.fs.RealPath(p)
	}

	return "", fmt.Errorf("%w: cannot find %q from %s", ErrNotFound, spec, baseDir)
}

func (r *NodeResolver) tryFile(p string) (string, bool) {
	if incfs.IsFile(r.fs, p) {
		return p, true
	}
	for _, ext := range r.extensions {
		if incfs.IsFile(r.fs, p+ext) {
			return p + ext, true
		}
	}
	return "", false
}

func (r *NodeResolver) tryIndex(dir string) (string, bool) {
	for _, ext := range r.extensions {
		p := filepath.Join(dir, "index"+ext)
		if incfs.IsFile(r.fs, p) {
			return p, true
		}
	}
	return "", false
}

func (r *NodeResolver) tryDirectory(dir string) (string, bool) {
	if !incfs.IsDir(r.fs, dir) {
		return "", false
	}

	// A malformed manifest falls back to index lookup
	if m, err := manifest.Read(r.fs, dir); err == nil && m.Main != "" {
		main := filepath.Join(dir, m.Main)
		if p, ok := r.tryFile(main); ok {
			return p, true
		}
		if p, ok := r.tryIndex(main); ok {
			return p, true
		}
	}

	return r.tryIndex(dir)
}
