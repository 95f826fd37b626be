/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package pack provides the package command for incdeps.
package pack

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/internal/cli"
	"bennypowers.dev/incdeps/internal/logger"
	packlib "bennypowers.dev/incdeps/pack"
)

// Cmd is the package cobra command.
var Cmd = &cobra.Command{
	Use:   "package",
	Short: "Plan the packaging manifests of a service",
	Long: `Resolve the handler of every Node.js function in .config/include-dependencies.yaml
and print the include/exclude manifests a packaging tool should use.

When package.individually is set, every function gets its own manifest.
Otherwise one service manifest lists the files of all functions.

Examples:
  # Plan every function
  incdeps package

  # Plan one function, as JSON
  incdeps package --function hello --format json`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("function", "", "Only plan this function")
	Cmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json")
}

func run(cmd *cobra.Command, args []string) error {
	function, _ := cmd.Flags().GetString("function")
	format, _ := cmd.Flags().GetString("format")

	filesystem := fs.NewOSFileSystem()
	settings, err := cli.Load(filesystem)
	if err != nil {
		return err
	}

	planner := &packlib.Planner{
		FS:       filesystem,
		Root:     settings.Root,
		Config:   settings.Config,
		Function: function,
	}
	plan, err := planner.Plan(cmd.Context())
	if err != nil {
		return err
	}
	if len(plan.Skipped) > 0 {
		logger.Info("not packaged, runtime is not Node.js: %s", strings.Join(plan.Skipped, ", "))
	}

	return write(cmd.OutOrStdout(), format, plan)
}

func write(w io.Writer, format string, plan *packlib.Plan) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
