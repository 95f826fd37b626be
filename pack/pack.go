/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package pack plans the packaging manifests of a service: for every
// Node.js function it resolves the dependency closure of the handler and
// adds it to the include list of the service, or of the function when
// functions are packaged individually.
package pack

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/incdeps/analyzer"
	"bennypowers.dev/incdeps/closure"
	"bennypowers.dev/incdeps/config"
	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/internal/logger"
	"bennypowers.dev/incdeps/specifier"
)

// ExcludeDependencies is appended to every exclude list. Dependencies are
// shipped through the include list instead.
const ExcludeDependencies = "node_modules/**"

// ErrUnknownFunction indicates the requested function is not configured.
var ErrUnknownFunction = errors.New("unknown function")

// Logger receives progress and diagnostics.
type Logger interface {
	closure.Logger
	Infof(format string, args ...any)
}

// PackageSpec is a computed packaging manifest.
type PackageSpec struct {
	Individually bool     `yaml:"individually,omitempty" json:"individually,omitempty"`
	Include      []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// Plan holds the manifests for a service and its individually packaged functions.
type Plan struct {
	Service   PackageSpec            `yaml:"service" json:"service"`
	Functions map[string]PackageSpec `yaml:"functions,omitempty" json:"functions,omitempty"`

	// Skipped lists functions not planned because their runtime is not Node.js.
	Skipped []string `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Planner computes packaging plans.
type Planner struct {
	// FS defaults to the OS filesystem.
	FS incfs.FileSystem

	// Root is the service directory. Defaults to the working directory.
	Root string

	// Config defaults to config.Default().
	Config *config.Config

	// Function, when set, restricts planning to one function.
	Function string

	// Logger defaults to the shared logger.
	Logger Logger
}

// Plan resolves every configured function and returns the resulting manifests.
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	filesystem := p.FS
	if filesystem == nil {
		filesystem = incfs.NewOSFileSystem()
	}
	log := p.Logger
	if log == nil {
		log = logger.Get()
	}
	cfg := p.Config
	if cfg == nil {
		cfg = config.Default()
	}

	root := p.Root
	if root == "" {
		root = "."
	}
	root, err := filesystem.RealPath(root)
	if err != nil {
		return nil, fmt.Errorf("invalid service root: %w", err)
	}

	names, err := p.functionNames(cfg)
	if err != nil {
		return nil, err
	}

	var a analyzer.Analyzer = analyzer.Default(filesystem)
	if cfg.Cache {
		if a, err = analyzer.NewCached(a, filesystem, analyzer.DefaultCacheSize); err != nil {
			return nil, err
		}
	}
	resolver := specifier.NewNodeResolver(filesystem)

	always, err := expandGlobs(filesystem, root, cfg.Always)
	if err != nil {
		return nil, fmt.Errorf("expanding always patterns: %w", err)
	}

	individually := cfg.Package.Individually
	opts := closure.Options{
		Root:     root,
		FS:       filesystem,
		Ignore:   cfg.Ignore,
		Exclude:  resolverExcludes(cfg),
		Analyzer: a,
		Resolver: resolver,
		Logger:   log,
	}
	if !individually {
		// Functions share one manifest, so each file only needs adding once
		opts.Cache = closure.NewCache()
	}

	plan := &Plan{
		Service: PackageSpec{
			Individually: individually,
			Include:      union(cfg.Package.Include),
			Exclude:      union(cfg.Package.Exclude, []string{ExcludeDependencies}),
		},
	}

	for _, name := range names {
		fn := cfg.Functions[name]
		if runtime := cfg.RuntimeFor(fn); !config.IsNode(runtime) {
			log.Debugf("skipping function %s with runtime %s", name, runtime)
			plan.Skipped = append(plan.Skipped, name)
			continue
		}

		entry, err := handlerFile(resolver, root, fn.Handler)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", name, err)
		}

		fnOpts := opts
		if individually {
			fnOpts.Cache = closure.NewCache()
		}

		files, err := resolveAll(ctx, append([]string{entry}, always...), fnOpts)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", name, err)
		}
		rel := relativeTo(root, files)
		log.Infof("function %s: %d files", name, len(rel))

		if individually {
			if plan.Functions == nil {
				plan.Functions = make(map[string]PackageSpec)
			}
			plan.Functions[name] = PackageSpec{
				Include: union(fn.Package.Include, cfg.Always, rel),
				Exclude: union(fn.Package.Exclude, []string{ExcludeDependencies}),
			}
			continue
		}
		plan.Service.Include = union(plan.Service.Include, cfg.Always, rel)
	}

	return plan, nil
}

func (p *Planner) functionNames(cfg *config.Config) ([]string, error) {
	if p.Function == "" {
		return slices.Sorted(maps.Keys(cfg.Functions)), nil
	}
	if _, ok := cfg.Functions[p.Function]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, p.Function)
	}
	return []string{p.Function}, nil
}

// handlerFile resolves a "path/to/file.export" handler to its source file.
func handlerFile(resolver specifier.Resolver, root, handler string) (string, error) {
	if handler == "" {
		return "", errors.New("no handler configured")
	}
	file := handler
	if i := strings.LastIndex(handler, "."); i > strings.LastIndex(handler, "/") {
		file = handler[:i]
	}
	entry, err := resolver.ResolveRelative(filepath.Join(root, filepath.FromSlash(file)), root)
	if err != nil {
		return "", fmt.Errorf("handler %s: %w", handler, err)
	}
	return entry, nil
}

func resolveAll(ctx context.Context, entries []string, opts closure.Options) ([]string, error) {
	var all []string
	for _, entry := range entries {
		files, err := closure.Resolve(ctx, entry, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	slices.Sort(all)
	return slices.Compact(all), nil
}

// resolverExcludes returns the configured closure excludes plus the package
// exclude patterns that address dependencies, in closure filter form.
func resolverExcludes(cfg *config.Config) []string {
	patterns := slices.Clone(cfg.Exclude)
	for _, p := range cfg.Package.Exclude {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(p, "!"), "./")
		if strings.HasPrefix(trimmed, specifier.NodeModulesDir+"/") {
			patterns = append(patterns, p)
		}
	}
	return closure.ExcludePatterns(patterns)
}

func relativeTo(root string, files []string) []string {
	rel := make([]string, 0, len(files))
	for _, f := range files {
		if r, err := filepath.Rel(root, f); err == nil {
			rel = append(rel, filepath.ToSlash(r))
		}
	}
	return rel
}

// union concatenates lists, dropping empty strings and repeats while
// preserving first-seen order.
func union(lists ...[]string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
