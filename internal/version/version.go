/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides version information for the incdeps CLI.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version information, set at build time via ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// build holds what the toolchain stamped into the binary.
type build struct {
	module   string
	revision string
	time     string
	modified bool
}

func readBuild() build {
	var b build
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if info.Main.Version != "(devel)" {
		b.module = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.revision = s.Value
		case "vcs.time":
			b.time = s.Value
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}
	return b
}

// Get returns the version string for the application.
// ldflags win, then the module version, then the VCS revision.
func Get() string {
	return resolve(Version, GitCommit, readBuild())
}

func resolve(version, commit string, b build) string {
	if version != "dev" {
		return version
	}
	if b.module != "" {
		return b.module
	}

	revision := b.revision
	if commit != "unknown" {
		revision = commit
	}
	if revision == "" {
		return "dev"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	v := fmt.Sprintf("dev-%s", revision)
	if b.modified {
		v += "-dirty"
	}
	return v
}

// Info returns detailed build information.
func Info() map[string]string {
	b := readBuild()
	commit, built := GitCommit, BuildTime
	if commit == "unknown" && b.revision != "" {
		commit = b.revision
	}
	if built == "unknown" && b.time != "" {
		built = b.time
	}
	return map[string]string{
		"version":   resolve(Version, GitCommit, b),
		"gitCommit": commit,
		"buildTime": built,
	}
}
