/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package manifest

import (
	"sync"

	incfs "bennypowers.dev/incdeps/fs"
)

// Loader memoizes manifests by package root. It is safe for concurrent use.
type Loader struct {
	fs incfs.FileSystem

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once     sync.Once
	manifest *Manifest
	err      error
}

// NewLoader creates a loader reading from filesystem.
func NewLoader(filesystem incfs.FileSystem) *Loader {
	return &Loader{
		fs:      filesystem,
		entries: make(map[string]*entry),
	}
}

// Load returns the manifest in root, reading it at most once.
func (l *Loader) Load(root string) (*Manifest, error) {
	l.mu.Lock()
	e, ok := l.entries[root]
	if !ok {
		e = &entry{}
		l.entries[root] = e
	}
	l.mu.Unlock()

	e.once.Do(func() {
		e.manifest, e.err = Read(l.fs, root)
	})
	return e.manifest, e.err
}

// Len returns the number of roots loaded so far.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
