/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier classifies import specifiers and resolves them to
// files and package roots using Node.js module resolution rules.
package specifier

import (
	"path"
	"regexp"
	"slices"
	"strings"
)

// Kind indicates how a specifier participates in dependency resolution.
type Kind int

const (
	// KindRelative is a file path relative to the importing file (or absolute).
	KindRelative Kind = iota
	// KindPackage is a bare package name, resolved through node_modules.
	KindPackage
	// KindCore is a runtime built-in module.
	KindCore
	// KindIgnored is a specifier that is assumed present at runtime.
	KindIgnored
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindPackage:
		return "package"
	case KindCore:
		return "core"
	case KindIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Specifier represents a classified import specifier.
type Specifier struct {
	// Kind is the classification of the specifier.
	Kind Kind

	// Package is the package name (e.g., "@scope/pkg" or "pkg").
	// Empty unless Kind is KindPackage, KindCore or KindIgnored.
	Package string

	// File is the subpath within the package, or the path for relative specifiers.
	File string

	// Raw is the original specifier string.
	Raw string
}

// packagePattern matches @scope/pkg/path, pkg/path, or bare pkg.
var packagePattern = regexp.MustCompile(`^(@[^/]+/[^/]+|[^/]+)(/.*)?$`)

// urlSchemes are specifier prefixes that never refer to the local filesystem.
var urlSchemes = []string{"http:", "https:", "data:", "file:"}

// Parse splits a specifier into its package name and subpath without
// classifying it. npm: prefixes are stripped, jsr: packages are mapped to
// their npm compatibility name and version suffixes are dropped.
func Parse(spec string) *Specifier {
	if IsRelative(spec) {
		return &Specifier{Kind: KindRelative, File: spec, Raw: spec}
	}

	name := spec
	jsr := false
	if rest, ok := strings.CutPrefix(name, "npm:"); ok {
		name = rest
	} else if rest, ok := strings.CutPrefix(name, "jsr:"); ok {
		name = rest
		jsr = true
	}

	matches := packagePattern.FindStringSubmatch(name)
	if len(matches) != 3 {
		return &Specifier{Kind: KindPackage, Package: name, Raw: spec}
	}

	pkg := stripVersion(matches[1])
	if jsr {
		pkg = "@jsr/" + jsrToNPMCompatPackage(pkg)
	}

	return &Specifier{
		Kind:    KindPackage,
		Package: pkg,
		File:    strings.TrimPrefix(matches[2], "/"),
		Raw:     spec,
	}
}

// Classify categorizes a raw specifier. Specifiers whose package name, or
// whose full text, appears in ignore are classified as KindIgnored.
func Classify(spec string, ignore []string) *Specifier {
	parsed := Parse(spec)
	if parsed.Kind == KindRelative {
		return parsed
	}

	if isURL(spec) {
		parsed.Kind = KindIgnored
		return parsed
	}

	if slices.Contains(ignore, parsed.Package) || slices.Contains(ignore, spec) {
		parsed.Kind = KindIgnored
		return parsed
	}

	if IsBuiltin(spec) {
		parsed.Kind = KindCore
		return parsed
	}

	return parsed
}

// IsRelative returns true for specifiers that name a file path rather than a package.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") ||
		strings.HasPrefix(spec, "../") ||
		path.IsAbs(spec)
}

// IsRelative returns true if this is a relative or absolute file path.
func (s *Specifier) IsRelative() bool {
	return s.Kind == KindRelative
}

// IsPackage returns true if this specifier must be resolved through node_modules.
func (s *Specifier) IsPackage() bool {
	return s.Kind == KindPackage
}

// IsDropped returns true for core and ignored specifiers.
func (s *Specifier) IsDropped() bool {
	return s.Kind == KindCore || s.Kind == KindIgnored
}

func isURL(spec string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(spec, scheme) {
			return true
		}
	}
	return false
}

// stripVersion removes an @version suffix: "pkg@1.2.3" → "pkg",
// "@scope/pkg@^2" → "@scope/pkg".
func stripVersion(pkg string) string {
	start := 0
	if strings.HasPrefix(pkg, "@") {
		start = strings.Index(pkg, "/")
		if start < 0 {
			return pkg
		}
	}
	if i := strings.Index(pkg[start:], "@"); i > 0 {
		return pkg[:start+i]
	}
	return pkg
}
