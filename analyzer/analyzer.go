/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package analyzer extracts static import specifiers from source files.
//
// Only literal specifiers are reported: computed import expressions such as
// require(name) or import(`./${x}.js`) cannot be resolved without running
// the code and are skipped.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	incfs "bennypowers.dev/incdeps/fs"
)

// ErrSyntax indicates a source file could not be parsed.
var ErrSyntax = errors.New("syntax error")

// Analyzer reports the import specifiers of a file.
type Analyzer interface {
	// Specifiers returns the raw specifiers imported by the file at path,
	// in source order and without duplicates.
	Specifiers(ctx context.Context, path string) ([]string, error)
}

// Extractor returns the specifiers found in source.
type Extractor func(source []byte) ([]string, error)

// ByExtension dispatches files to an Extractor based on their extension.
// Files with unregistered extensions (JSON, native addons, assets) have no
// imports.
type ByExtension struct {
	fs         incfs.FileSystem
	extractors map[string]Extractor
}

// New creates an analyzer with no registered extractors.
func New(filesystem incfs.FileSystem) *ByExtension {
	return &ByExtension{
		fs:         filesystem,
		extractors: make(map[string]Extractor),
	}
}

// Default creates an analyzer for JavaScript, CSS and HTML files.
func Default(filesystem incfs.FileSystem) *ByExtension {
	a := New(filesystem)
	for _, ext := range []string{".js", ".mjs", ".cjs", ".jsx"} {
		a.Register(ext, JavaScript)
	}
	a.Register(".css", CSS)
	a.Register(".html", HTML)
	a.Register(".htm", HTML)
	return a
}

// Register associates an extractor with a file extension, including the dot.
func (a *ByExtension) Register(ext string, extractor Extractor) {
	a.extractors[strings.ToLower(ext)] = extractor
}

// Handles reports whether files at path are parsed for imports.
func (a *ByExtension) Handles(path string) bool {
	_, ok := a.extractors[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Specifiers implements Analyzer.
func (a *ByExtension) Specifiers(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extract, ok := a.extractors[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, nil
	}

	source, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	specs, err := extract(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dedupe(specs), nil
}

func dedupe(specs []string) []string {
	seen := make(map[string]bool, len(specs))
	result := make([]string, 0, len(specs))
	for _, spec := range specs {
		if seen[spec] {
			continue
		}
		seen[spec] = true
		result = append(result, spec)
	}
	return result
}
