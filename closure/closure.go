/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package closure computes the set of files an entry point needs to run
// standalone: the local files it imports, transitively, and every file of
// every installed package it depends on, transitively through package.json.
package closure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"bennypowers.dev/incdeps/analyzer"
	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/internal/logger"
	"bennypowers.dev/incdeps/manifest"
	"bennypowers.dev/incdeps/specifier"
)

// Logger receives diagnostics. *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Options configures a resolution.
type Options struct {
	// Root is the project directory no dependency may escape.
	// Defaults to the working directory.
	Root string

	// FS defaults to the OS filesystem.
	FS incfs.FileSystem

	// Ignore lists package names (or exact specifiers) assumed present at runtime.
	Ignore []string

	// Exclude lists doublestar patterns relative to Root. A pattern prefixed
	// with "!" removes matching files from the result; a plain pattern keeps
	// what earlier patterns removed. See ExcludePatterns for packaging-style lists.
	Exclude []string

	// Cache, when set, is shared with other Resolve calls. Files already
	// returned through it are not returned again.
	Cache *Cache

	Analyzer analyzer.Analyzer
	Resolver specifier.Resolver
	Logger   Logger

	// Concurrency bounds parallel package enumeration. Defaults to GOMAXPROCS.
	Concurrency int
}

// Resolve returns the sorted absolute paths of every file entry needs.
// Any error aborts the resolution; no partial closure is returned.
func Resolve(ctx context.Context, entry string, opts Options) ([]string, error) {
	r, err := newRun(opts)
	if err != nil {
		return nil, err
	}

	filter, err := NewFilter(opts.Exclude)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(entry) {
		entry = filepath.Join(r.root, entry)
	}
	realEntry, err := r.fs.RealPath(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: entry point %s: %w", ErrUnresolvedImport, entry, err)
	}
	if err := checkBoundary(r.root, realEntry); err != nil {
		return nil, err
	}

	files, err := r.resolve(ctx, realEntry)
	if err != nil {
		r.cache.forget(r.files, r.roots)
		return nil, err
	}

	r.logger.Debugf("resolved %s: %d local files, %d packages, %d files",
		realEntry, len(r.files), len(r.roots), len(files))

	return filter.Apply(r.root, files), nil
}

// packageRequest is a bare import waiting for the package walk.
type packageRequest struct {
	name string
	base string
	from string
}

// run holds the state of one Resolve call.
type run struct {
	root        string
	fs          incfs.FileSystem
	ignore      []string
	cache       *Cache
	analyzer    analyzer.Analyzer
	resolver    specifier.Resolver
	manifests   *manifest.Loader
	logger      Logger
	concurrency int

	files    []string
	requests []packageRequest
	seeds    []string
	roots    []string
}

func newRun(opts Options) (*run, error) {
	r := &run{
		fs:          opts.FS,
		ignore:      opts.Ignore,
		cache:       opts.Cache,
		analyzer:    opts.Analyzer,
		resolver:    opts.Resolver,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
	}
	if r.fs == nil {
		r.fs = incfs.NewOSFileSystem()
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	if r.analyzer == nil {
		r.analyzer = analyzer.Default(r.fs)
	}
	if r.resolver == nil {
		r.resolver = specifier.NewNodeResolver(r.fs)
	}
	if r.logger == nil {
		r.logger = logger.Get()
	}
	if r.concurrency <= 0 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	r.manifests = manifest.NewLoader(r.fs)

	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine project root: %w", err)
		}
		root = wd
	}
	realRoot, err := r.fs.RealPath(root)
	if err != nil {
		return nil, fmt.Errorf("invalid project root %s: %w", root, err)
	}
	r.root = realRoot

	return r, nil
}

// resolve runs the local walk, the package walk and the materialization, in that order.
func (r *run) resolve(ctx context.Context, entry string) ([]string, error) {
	if err := r.walkLocal(ctx, entry); err != nil {
		return nil, err
	}
	if err := r.walkPackages(ctx); err != nil {
		return nil, err
	}
	packaged, err := materialize(ctx, r.fs, r.roots, r.concurrency)
	if err != nil {
		return nil, err
	}

	files := append(slices.Clone(r.files), packaged...)
	slices.Sort(files)
	return slices.Compact(files), nil
}

func (r *run) resolveFile(spec, base string) (string, error) {
	return r.cache.resolve(lookupKey{kind: lookupFile, spec: spec, base: base}, func() (string, error) {
		return r.resolver.ResolveRelative(spec, base)
	})
}

func (r *run) resolvePackage(name, base string) (string, error) {
	return r.cache.resolve(lookupKey{kind: lookupPackage, spec: name, base: base}, func() (string, error) {
		return r.resolver.ResolvePackageRoot(name, base)
	})
}

// loadManifest maps manifest errors onto the closure sentinels.
func (r *run) loadManifest(root string) (*manifest.Manifest, error) {
	m, err := r.manifests.Load(root)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, manifest.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, root)
	case errors.Is(err, manifest.ErrInvalid):
		return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	default:
		return nil, err
	}
}
