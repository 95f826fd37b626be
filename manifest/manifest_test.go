/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package manifest

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"bennypowers.dev/incdeps/internal/mapfs"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		// written by hand
		"name": "left-pad",
		"version": "1.3.0",
		"main": "lib/index.js",
		"dependencies": {"b": "^1", "a": "^2"},
		"peerDependencies": {"react": "*", "react-dom": "*"},
		"peerDependenciesMeta": {"react-dom": {"optional": true}},
		"optionalDependencies": {"fsevents": "*"},
	}`)

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if m.Name != "left-pad" || m.Version != "1.3.0" || m.Main != "lib/index.js" {
		t.Errorf("unexpected metadata: %+v", m)
	}
	if got := m.Names(Required); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names(Required) = %v, want sorted [a b]", got)
	}
	if got := m.Names(Peer); !slices.Equal(got, []string{"react", "react-dom"}) {
		t.Errorf("Names(Peer) = %v", got)
	}
	if got := m.Names(Optional); !slices.Equal(got, []string{"fsevents"}) {
		t.Errorf("Names(Optional) = %v", got)
	}
	if !m.IsOptionalPeer("react-dom") || m.IsOptionalPeer("react") || m.IsOptionalPeer("missing") {
		t.Error("IsOptionalPeer reports the wrong peers")
	}
	if !m.IsOptional("fsevents") || m.IsOptional("a") {
		t.Error("IsOptional reports the wrong dependencies")
	}
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, c := range Categories {
		if names := m.Names(c); len(names) != 0 {
			t.Errorf("Names(%s) = %v, want none", c, names)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, data := range []string{`{"dependencies": [}`, `not json`, `{"dependencies": ["a"]}`} {
		if _, err := Parse([]byte(data)); !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalid", data, err)
		}
	}
}

func TestRead(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/node_modules/a/package.json", `{"name": "a"}`, 0644)
	mfs.AddFile("/project/node_modules/bad/package.json", `{`, 0644)
	mfs.AddDir("/project/node_modules/empty", 0755)

	m, err := Read(mfs, "/project/node_modules/a")
	if err != nil || m.Name != "a" {
		t.Fatalf("Read = %+v, %v", m, err)
	}

	if _, err := Read(mfs, "/project/node_modules/empty"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = Read(mfs, "/project/node_modules/bad")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestCategory_String(t *testing.T) {
	want := []string{"dependencies", "peerDependencies", "optionalDependencies"}
	for i, c := range Categories {
		if c.String() != want[i] {
			t.Errorf("Categories[%d].String() = %q, want %q", i, c.String(), want[i])
		}
	}
}

func TestLoader_ReadsOnce(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/node_modules/a/package.json", `{"name": "a"}`, 0644)

	loader := NewLoader(mfs)

	var wg sync.WaitGroup
	results := make([]*Manifest, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := loader.Load("/project/node_modules/a")
			if err != nil {
				t.Errorf("Load: %v", err)
			}
			results[i] = m
		}()
	}
	wg.Wait()

	for _, m := range results {
		if m != results[0] {
			t.Fatal("expected every caller to receive the same manifest")
		}
	}

	// A later edit is not observed within the same loader
	mfs.AddFile("/project/node_modules/a/package.json", `{"name": "changed"}`, 0644)
	m, _ := loader.Load("/project/node_modules/a")
	if m.Name != "a" {
		t.Errorf("Load = %q, want memoized manifest", m.Name)
	}
	if loader.Len() != 1 {
		t.Errorf("Len = %d, want 1", loader.Len())
	}

	if _, err := loader.Load("/project/node_modules/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
