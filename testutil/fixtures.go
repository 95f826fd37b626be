/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture loading for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/incdeps/internal/mapfs"
)

// NewFixtureFS loads a project tree from testdata/fixtures and returns a
// MapFileSystem with its files mapped under rootPath. Dot directories such
// as .config and node_modules trees are loaded like any other files.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	mfs := mapfs.New()

	fixturePath := findFixture(fixtureDir)
	if fixturePath == "" {
		t.Fatalf("Could not find fixtures at %s (tried all paths)", fixtureDir)
	}

	// Walk fixture directory and load all files
	err := filepath.WalkDir(fixturePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fixturePath, path)
		if err != nil {
			return err
		}

		virtualPath := filepath.Join(rootPath, relPath)
		mfs.AddFile(virtualPath, string(content), 0644)

		return nil
	})

	if err != nil {
		t.Fatalf("Failed to load fixtures from %s: %v", fixtureDir, err)
	}

	return mfs
}

// LoadFixtureFile reads a single fixture file and returns its content.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()

	if path := findFixture(fixturePath); path != "" {
		if content, err := os.ReadFile(path); err == nil {
			return content
		}
	}
	t.Fatalf("Failed to read fixture %s (tried all paths)", fixturePath)
	return nil
}

// findFixture locates name under testdata/fixtures, trying parent
// directories since go test runs in the package directory.
func findFixture(name string) string {
	for _, dir := range []string{".", "..", filepath.Join("..", "..")} {
		path := filepath.Join(dir, "testdata", "fixtures", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
