/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cli merges command-line flags, INCDEPS_ environment variables and
// the project config file into the settings shared by every command.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bennypowers.dev/incdeps/closure"
	"bennypowers.dev/incdeps/config"
	incfs "bennypowers.dev/incdeps/fs"
	"bennypowers.dev/incdeps/internal/logger"
)

// EnvPrefix is the prefix of environment variables overriding flags.
const EnvPrefix = "INCDEPS"

// Keys of the settings shared by every command.
const (
	KeyRoot    = "root"
	KeyIgnore  = "ignore"
	KeyExclude = "exclude"
	KeyCache   = "cache"
	KeyVerbose = "verbose"
	KeyQuiet   = "quiet"
)

// Bind registers flags with viper and enables environment overrides,
// e.g. INCDEPS_ROOT for --root.
func Bind(flags *pflag.FlagSet) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	return viper.BindPFlags(flags)
}

// Settings are the resolved project settings.
type Settings struct {
	// Root is the real path of the project directory.
	Root string

	// Config is the project config with flag overrides applied.
	Config *config.Config
}

// Load reads the config file of the project root and applies flag
// overrides. Flags win over the config file.
func Load(filesystem incfs.FileSystem) (*Settings, error) {
	root := viper.GetString(KeyRoot)
	if root == "" {
		root = "."
	}
	realRoot, err := filesystem.RealPath(root)
	if err != nil {
		return nil, fmt.Errorf("invalid project root %s: %w", root, err)
	}

	cfg, err := config.Load(filesystem, realRoot)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		logger.Debug("no config file under %s, using defaults", realRoot)
		cfg = config.Default()
	}

	if ignore := viper.GetStringSlice(KeyIgnore); len(ignore) > 0 {
		cfg.Ignore = ignore
	}
	if exclude := viper.GetStringSlice(KeyExclude); len(exclude) > 0 {
		cfg.Exclude = exclude
	}
	if viper.GetBool(KeyCache) {
		cfg.Cache = true
	}

	return &Settings{Root: realRoot, Config: cfg}, nil
}

// ClosureOptions returns resolver options for the settings.
func (s *Settings) ClosureOptions(filesystem incfs.FileSystem) closure.Options {
	return closure.Options{
		Root:    s.Root,
		FS:      filesystem,
		Ignore:  s.Config.Ignore,
		Exclude: closure.ExcludePatterns(s.Config.Exclude),
	}
}
