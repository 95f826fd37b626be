/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"errors"
	"path/filepath"
	"strings"

	incfs "bennypowers.dev/incdeps/fs"
)

// ErrNotFound indicates a specifier could not be resolved to a path.
var ErrNotFound = errors.New("not found")

// Resolver translates specifiers into filesystem paths.
type Resolver interface {
	// ResolveRelative resolves a relative or absolute file specifier against
	// baseDir, returning the absolute real path of the file.
	ResolveRelative(spec, baseDir string) (string, error)

	// ResolvePackageRoot finds the directory of the named package, searching
	// node_modules directories from baseDir upwards.
	ResolvePackageRoot(name, baseDir string) (string, error)
}

// DefaultExtensions are tried, in order, when a relative specifier omits its extension.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".json", ".node"}

// NodeResolver implements Resolver using the Node.js CommonJS lookup algorithm.
type NodeResolver struct {
	fs         incfs.FileSystem
	extensions []string
}

// NewNodeResolver creates a resolver backed by the given filesystem.
func NewNodeResolver(fs incfs.FileSystem) *NodeResolver {
	return &NodeResolver{
		fs:         fs,
		extensions: DefaultExtensions,
	}
}

// WithExtensions returns a copy of the resolver that tries exts instead of DefaultExtensions.
func (r *NodeResolver) WithExtensions(exts ...string) *NodeResolver {
	return &NodeResolver{fs: r.fs, extensions: exts}
}

// isInsideDir reports whether p is dir or a descendant of dir.
func isInsideDir(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
