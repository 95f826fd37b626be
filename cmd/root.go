/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for incdeps.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/incdeps/cmd/mcp"
	"bennypowers.dev/incdeps/cmd/pack"
	"bennypowers.dev/incdeps/cmd/resolve"
	"bennypowers.dev/incdeps/cmd/version"
	"bennypowers.dev/incdeps/internal/cli"
	"bennypowers.dev/incdeps/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "incdeps",
	Short: "Compute the files a Node.js entry point needs to run standalone",
	Long: `incdeps follows the static imports of a Node.js entry point and the package.json
dependencies of every package it reaches, and lists the files a deployment package must contain.

Settings can also be given as INCDEPS_ environment variables (INCDEPS_ROOT, INCDEPS_IGNORE, ...)
or in .config/include-dependencies.{yaml,yml,json,toml} under the project root.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case viper.GetBool(cli.KeyQuiet):
			logger.SetQuiet()
		case viper.GetBool(cli.KeyVerbose):
			logger.SetVerbose(true)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(cli.KeyRoot, "r", "", "Project root no dependency may escape (default: current directory)")
	flags.StringSlice(cli.KeyIgnore, nil, "Packages assumed present at runtime (default: aws-sdk)")
	flags.StringSlice(cli.KeyExclude, nil, "Patterns removed from the closure; prefix with ! to re-include")
	flags.Bool(cli.KeyCache, false, "Reuse analysis results across entry points")
	flags.BoolP(cli.KeyVerbose, "v", false, "Enable debug logging")
	flags.BoolP(cli.KeyQuiet, "q", false, "Only log errors")

	if err := cli.Bind(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(pack.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
