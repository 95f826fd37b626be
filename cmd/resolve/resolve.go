/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for incdeps.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"bennypowers.dev/incdeps/analyzer"
	"bennypowers.dev/incdeps/closure"
	"bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/internal/cli"
	"bennypowers.dev/incdeps/internal/logger"
)

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve <entry>...",
	Short: "List the files entry points need",
	Long: `List every local file the entry points import, and every file of every package they
depend on, relative to the project root.

Examples:
  # Files needed by a Lambda handler
  incdeps resolve src/handler.js

  # Two handlers sharing one packaging run, as JSON
  incdeps resolve --format json src/a.js src/b.js

  # Drop TypeScript sources and source maps shipped inside packages
  incdeps resolve --exclude 'node_modules/**/*.ts' --exclude 'node_modules/**/*.map' src/handler.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	Cmd.Flags().Bool("absolute", false, "Print absolute paths")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	absolute, _ := cmd.Flags().GetBool("absolute")

	filesystem := fs.NewOSFileSystem()
	settings, err := cli.Load(filesystem)
	if err != nil {
		return err
	}

	files, err := Files(cmd.Context(), filesystem, settings, args)
	if err != nil {
		return err
	}
	logger.Debug("%d entries need %d files", len(args), len(files))
	if !absolute {
		files = relative(settings.Root, files)
	}

	return write(cmd.OutOrStdout(), format, files)
}

// Files resolves every entry with a shared cache and returns the sorted union.
func Files(ctx context.Context, filesystem fs.FileSystem, settings *cli.Settings, entries []string) ([]string, error) {
	opts := settings.ClosureOptions(filesystem)
	opts.Cache = closure.NewCache()
	if settings.Config.Cache {
		cached, err := analyzer.NewCached(analyzer.Default(filesystem), filesystem, analyzer.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		opts.Analyzer = cached
	}

	var all []string
	for _, entry := range entries {
		if !filepath.IsAbs(entry) {
			abs, err := filepath.Abs(entry)
			if err != nil {
				return nil, err
			}
			entry = abs
		}
		files, err := closure.Resolve(ctx, entry, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}

	slices.Sort(all)
	return slices.Compact(all), nil
}

func relative(root string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if rel, err := filepath.Rel(root, f); err == nil {
			out = append(out, filepath.ToSlash(rel))
		} else {
			out = append(out, f)
		}
	}
	return out
}

func write(w io.Writer, format string, files []string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if files == nil {
			files = []string{}
		}
		return enc.Encode(files)
	case "text", "":
		for _, f := range files {
			if _, err := fmt.Fprintln(w, f); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
