/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command, which serves dependency closures
// to AI agents over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"bennypowers.dev/incdeps/analyzer"
	"bennypowers.dev/incdeps/closure"
	"bennypowers.dev/incdeps/config"
	"bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/internal/cli"
	"bennypowers.dev/incdeps/internal/logger"
	"bennypowers.dev/incdeps/internal/version"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve dependency closures over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout.

The server exposes one tool, resolve_closure, which lists the files
an entry point needs. Logging is silenced so it cannot corrupt the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: run,
}

// ResolveInput is the argument of the resolve_closure tool.
type ResolveInput struct {
	Entries []string `json:"entries" jsonschema:"entry files, absolute or relative to the root"`
	Root    string   `json:"root,omitempty" jsonschema:"project root, defaults to the server root"`
	Ignore  []string `json:"ignore,omitempty" jsonschema:"packages assumed present at runtime"`
	Exclude []string `json:"exclude,omitempty" jsonschema:"patterns removed from the closure, prefix with ! to keep a file"`
}

// ResolveOutput is the result of the resolve_closure tool.
type ResolveOutput struct {
	Root  string   `json:"root" jsonschema:"real path of the project root"`
	Files []string `json:"files" jsonschema:"files relative to the root, sorted"`
}

func run(cmd *cobra.Command, args []string) error {
	logger.SetOutput(io.Discard)

	filesystem := fs.NewOSFileSystem()
	settings, err := cli.Load(filesystem)
	if err != nil {
		return err
	}

	t, err := newTools(filesystem, settings)
	if err != nil {
		return err
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "incdeps",
		Version: version.Get(),
	}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_closure",
		Description: "List every file a Node.js entry point needs to run standalone: the local files it imports and all files of the packages it depends on.",
	}, t.handle)

	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}

// tools holds state shared between tool calls.
type tools struct {
	fs       fs.FileSystem
	settings *cli.Settings
	analyzer analyzer.Analyzer
}

func newTools(filesystem fs.FileSystem, settings *cli.Settings) (*tools, error) {
	cached, err := analyzer.NewCached(analyzer.Default(filesystem), filesystem, analyzer.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &tools{fs: filesystem, settings: settings, analyzer: cached}, nil
}

func (t *tools) handle(ctx context.Context, req *mcp.CallToolRequest, in ResolveInput) (*mcp.CallToolResult, ResolveOutput, error) {
	out, err := t.resolve(ctx, in)
	return nil, out, err
}

// resolve computes the closure of the requested entries. Every call gets a
// fresh closure cache so that it reports the complete closure; parsed
// sources are reused across calls.
func (t *tools) resolve(ctx context.Context, in ResolveInput) (ResolveOutput, error) {
	if len(in.Entries) == 0 {
		return ResolveOutput{}, fmt.Errorf("at least one entry is required")
	}

	root := t.settings.Root
	cfg := t.settings.Config
	if in.Root != "" {
		requested := in.Root
		if !filepath.IsAbs(requested) {
			requested = filepath.Join(root, requested)
		}
		realRoot, err := t.fs.RealPath(requested)
		if err != nil {
			return ResolveOutput{}, fmt.Errorf("invalid project root %s: %w", in.Root, err)
		}
		root = realRoot
		cfg = config.LoadOrDefault(t.fs, root)
	}

	opts := closure.Options{
		Root:     root,
		FS:       t.fs,
		Ignore:   cfg.Ignore,
		Exclude:  closure.ExcludePatterns(cfg.Exclude),
		Cache:    closure.NewCache(),
		Analyzer: t.analyzer,
	}
	if in.Ignore != nil {
		opts.Ignore = in.Ignore
	}
	if in.Exclude != nil {
		opts.Exclude = closure.ExcludePatterns(in.Exclude)
	}

	files := []string{}
	for _, entry := range in.Entries {
		resolved, err := closure.Resolve(ctx, entry, opts)
		if err != nil {
			return ResolveOutput{}, err
		}
		for _, f := range resolved {
			rel, err := filepath.Rel(root, f)
			if err != nil {
				rel = f
			}
			files = append(files, filepath.ToSlash(rel))
		}
	}
	slices.Sort(files)

	return ResolveOutput{Root: root, Files: slices.Compact(files)}, nil
}
