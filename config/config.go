/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for dependency packaging.
package config

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIgnore lists packages provided by the Lambda Node.js runtime.
var DefaultIgnore = []string{"aws-sdk"}

// Config describes a service: its functions and how they are packaged.
type Config struct {
	// Runtime is the provider-level runtime, e.g. "nodejs20.x".
	// Functions without their own runtime inherit it.
	Runtime string `yaml:"runtime" json:"runtime" toml:"runtime"`

	// Ignore lists package names assumed present at runtime.
	Ignore []string `yaml:"ignore" json:"ignore" toml:"ignore"`

	// Always lists globs of files whose dependencies are always packaged,
	// in addition to each function's handler.
	Always []string `yaml:"always" json:"always" toml:"always"`

	// Exclude lists patterns removed from every resolved closure. A pattern
	// prefixed with "!" keeps files an earlier pattern removed.
	Exclude []string `yaml:"exclude" json:"exclude" toml:"exclude"`

	// Cache shares resolution work between functions of one packaging run.
	Cache bool `yaml:"cache" json:"cache" toml:"cache"`

	// Package is the service-level packaging manifest.
	Package Package `yaml:"package" json:"package" toml:"package"`

	// Functions maps function names to their definitions.
	Functions map[string]Function `yaml:"functions" json:"functions" toml:"functions"`
}

// Package is an include/exclude packaging manifest.
type Package struct {
	// Individually packages every function on its own.
	Individually bool `yaml:"individually" json:"individually" toml:"individually"`

	Include []string `yaml:"include" json:"include" toml:"include"`
	Exclude []string `yaml:"exclude" json:"exclude" toml:"exclude"`
}

// Function is a deployable entry point.
// In YAML and JSON it can be given as just its handler string.
type Function struct {
	// Handler is "path/to/file.export", relative to the service root.
	Handler string `yaml:"handler" json:"handler" toml:"handler"`

	// Runtime overrides the provider runtime.
	Runtime string `yaml:"runtime" json:"runtime" toml:"runtime"`

	Package Package `yaml:"package" json:"package" toml:"package"`
}

// UnmarshalYAML handles both string and object forms for Function.
func (f *Function) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Handler = node.Value
		return nil
	}

	type rawFunction Function
	return node.Decode((*rawFunction)(f))
}

// UnmarshalJSON handles both string and object forms for Function.
func (f *Function) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Handler = s
		return nil
	}

	type rawFunction Function
	return json.Unmarshal(data, (*rawFunction)(f))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Ignore: append([]string(nil), DefaultIgnore...),
	}
}

// RuntimeFor returns the effective runtime of a function.
func (c *Config) RuntimeFor(fn Function) string {
	if fn.Runtime != "" {
		return fn.Runtime
	}
	return c.Runtime
}

// IsNode reports whether runtime is a Node.js runtime. An empty runtime
// means the provider default, which is Node.js.
func IsNode(runtime string) bool {
	return runtime == "" || strings.HasPrefix(runtime, "nodejs")
}
