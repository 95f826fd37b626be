/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cli

import (
	"slices"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bennypowers.dev/incdeps/internal/mapfs"
	"bennypowers.dev/incdeps/testutil"
)

func TestLoad_ConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	mfs := testutil.NewFixtureFS(t, "service", "/project")
	viper.Set(KeyRoot, "/project")

	s, err := Load(mfs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Root != "/project" {
		t.Errorf("Root = %q, want /project", s.Root)
	}
	if !slices.Equal(s.Config.Exclude, []string{"node_modules/**/*.md"}) {
		t.Errorf("Exclude = %v, want the config file value", s.Config.Exclude)
	}

	opts := s.ClosureOptions(mfs)
	if opts.Root != "/project" || !slices.Equal(opts.Ignore, []string{"aws-sdk"}) {
		t.Errorf("unexpected closure options %+v", opts)
	}
	if !slices.Equal(opts.Exclude, []string{"!node_modules/**/*.md"}) {
		t.Errorf("closure Exclude = %v, want the config value as an exclusion", opts.Exclude)
	}
}

func TestLoad_FlagsWin(t *testing.T) {
	t.Cleanup(viper.Reset)
	mfs := testutil.NewFixtureFS(t, "service", "/project")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyRoot, "", "")
	flags.StringSlice(KeyIgnore, nil, "")
	flags.StringSlice(KeyExclude, nil, "")
	flags.Bool(KeyCache, false, "")
	if err := Bind(flags); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := flags.Parse([]string{"--root", "/project", "--ignore", "sharp,canvas", "--exclude", "**/*.map"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	s, err := Load(mfs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(s.Config.Ignore, []string{"sharp", "canvas"}) {
		t.Errorf("Ignore = %v, want flag value", s.Config.Ignore)
	}
	if !slices.Equal(s.Config.Exclude, []string{"**/*.map"}) {
		t.Errorf("Exclude = %v, want flag value", s.Config.Exclude)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("INCDEPS_ROOT", "/project")
	mfs := mapfs.New()
	mfs.AddFile("/project/index.js", "", 0644)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyRoot, "", "")
	if err := Bind(flags); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	s, err := Load(mfs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Root != "/project" {
		t.Errorf("Root = %q, want value from INCDEPS_ROOT", s.Root)
	}
	if !slices.Equal(s.Config.Ignore, []string{"aws-sdk"}) {
		t.Errorf("Ignore = %v, want defaults without a config file", s.Config.Ignore)
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set(KeyRoot, "/nowhere")

	if _, err := Load(mapfs.New()); err == nil {
		t.Error("expected error for missing root")
	}
}
