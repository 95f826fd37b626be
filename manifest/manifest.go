/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package manifest reads package.json dependency declarations.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/tidwall/jsonc"

	incfs "bennypowers.dev/incdeps/fs"
)

// FileName is the name of a package manifest.
const FileName = "package.json"

// Sentinel errors for manifest operations.
var (
	// ErrNotFound indicates a package root has no manifest.
	ErrNotFound = errors.New("package manifest not found")

	// ErrInvalid indicates a manifest could not be decoded.
	ErrInvalid = errors.New("invalid package manifest")
)

// Category is one of the dependency declaration groups of a manifest.
type Category int

const (
	// Required dependencies are declared in "dependencies".
	Required Category = iota
	// Peer dependencies are declared in "peerDependencies".
	Peer
	// Optional dependencies are declared in "optionalDependencies".
	Optional
)

// Categories lists every category in resolution order.
var Categories = []Category{Required, Peer, Optional}

// String returns the manifest field name for the category.
func (c Category) String() string {
	switch c {
	case Required:
		return "dependencies"
	case Peer:
		return "peerDependencies"
	case Optional:
		return "optionalDependencies"
	default:
		return "unknown"
	}
}

// PeerMeta holds the per-peer metadata from "peerDependenciesMeta".
type PeerMeta struct {
	Optional bool `json:"optional"`
}

// Manifest is the subset of package.json relevant to dependency resolution.
type Manifest struct {
	Name                 string              `json:"name"`
	Version              string              `json:"version"`
	Main                 string              `json:"main"`
	Dependencies         map[string]string   `json:"dependencies"`
	PeerDependencies     map[string]string   `json:"peerDependencies"`
	OptionalDependencies map[string]string   `json:"optionalDependencies"`
	PeerDependenciesMeta map[string]PeerMeta `json:"peerDependenciesMeta"`
}

// Parse decodes manifest data. Comments and trailing commas are tolerated.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(jsonc.ToJSON(data), m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return m, nil
}

// Read loads the manifest in root.
func Read(filesystem incfs.FileSystem, root string) (*Manifest, error) {
	p := filepath.Join(root, FileName)
	data, err := filesystem.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return m, nil
}

// Names returns the sorted dependency names declared in the category.
func (m *Manifest) Names(c Category) []string {
	var deps map[string]string
	switch c {
	case Required:
		deps = m.Dependencies
	case Peer:
		deps = m.PeerDependencies
	case Optional:
		deps = m.OptionalDependencies
	}
	return slices.Sorted(maps.Keys(deps))
}

// IsOptional reports whether name is declared in "optionalDependencies".
// npm also records optional dependencies under "dependencies"; such entries
// must be treated as optional.
func (m *Manifest) IsOptional(name string) bool {
	_, ok := m.OptionalDependencies[name]
	return ok
}

// IsOptionalPeer reports whether "peerDependenciesMeta" marks the peer optional.
func (m *Manifest) IsOptionalPeer(name string) bool {
	return m.PeerDependenciesMeta[name].Optional
}
