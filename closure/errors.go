/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import (
	"errors"
	"fmt"
)

// Sentinel errors for closure resolution. Every one of them is fatal.
var (
	// ErrParse indicates a local source file could not be analyzed.
	ErrParse = errors.New("failed to parse source file")

	// ErrUnresolvedImport indicates a relative import names no existing file.
	ErrUnresolvedImport = errors.New("unresolved import")

	// ErrMissingDependency indicates a required or non-optional peer
	// dependency is not installed.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrBoundaryViolation indicates a resolved path lies outside the project root.
	ErrBoundaryViolation = errors.New("path outside project root")

	// ErrManifestNotFound indicates a package root has no package.json.
	ErrManifestNotFound = errors.New("package manifest not found")

	// ErrManifestInvalid indicates a package.json could not be decoded.
	ErrManifestInvalid = errors.New("invalid package manifest")

	// ErrInvalidPattern indicates a malformed exclude pattern.
	ErrInvalidPattern = errors.New("invalid exclude pattern")
)

// CategoryImport marks a package imported directly by a local source file.
const CategoryImport = "import"

// MissingDependencyError names a dependency that could not be found.
type MissingDependencyError struct {
	// Name is the package that could not be resolved.
	Name string
	// From is the importing file or the package root declaring the dependency.
	From string
	// Category is "import" or the manifest field the dependency is declared in.
	Category string
}

func (e *MissingDependencyError) Error() string {
	if e.Category == CategoryImport {
		return fmt.Sprintf("%s: cannot find package %q imported from %s", ErrMissingDependency, e.Name, e.From)
	}
	return fmt.Sprintf("%s: cannot find package %q listed in %s of %s", ErrMissingDependency, e.Name, e.Category, e.From)
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// BoundaryError reports a path that escapes the project root.
type BoundaryError struct {
	Path string
	Root string
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("%s: %s is not inside %s (packages linked from outside the project with npm link or file: dependencies cannot be packaged)",
		ErrBoundaryViolation, e.Path, e.Root)
}

func (e *BoundaryError) Unwrap() error {
	return ErrBoundaryViolation
}
