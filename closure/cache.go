/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import "sync"

type lookupKind int

const (
	lookupFile lookupKind = iota
	lookupPackage
)

type lookupKey struct {
	kind lookupKind
	spec string
	base string
}

// Cache records the work done by previous Resolve calls: specifier
// resolutions, processed local files and expanded package roots.
//
// When one Cache is passed to several Resolve calls, files and packages
// already returned by an earlier call are not returned again, so later
// closures hold only what is new. A Cache is safe for concurrent use.
//
// Marks are provisional until the call that made them succeeds. A failing
// call unmarks what it visited, but a concurrent call that already skipped
// one of those files does not return it either. After any failed call on a
// shared cache, Reset it and resolve the entries again.
type Cache struct {
	mu       sync.Mutex
	files    map[string]bool
	roots    map[string]bool
	resolved map[lookupKey]string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	c := &Cache{}
	c.Reset()
	return c
}

// Reset discards everything the cache has recorded.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]bool)
	c.roots = make(map[string]bool)
	c.resolved = make(map[lookupKey]string)
}

// MarkFile marks a local file processed. It returns false if it already was.
func (c *Cache) MarkFile(path string) bool {
	return c.mark(c.files, path)
}

// MarkRoot marks a package root expanded. It returns false if it already was.
func (c *Cache) MarkRoot(root string) bool {
	return c.mark(c.roots, root)
}

// HasFile reports whether a local file has been processed.
func (c *Cache) HasFile(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files[path]
}

// HasRoot reports whether a package root has been expanded.
func (c *Cache) HasRoot(root string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roots[root]
}

// Stats returns the number of processed files, expanded roots and memoized
// resolutions.
func (c *Cache) Stats() (files, roots, resolutions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files), len(c.roots), len(c.resolved)
}

func (c *Cache) mark(set map[string]bool, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set[key] {
		return false
	}
	set[key] = true
	return true
}

// forget unmarks files and roots, undoing a resolution that failed.
func (c *Cache) forget(files, roots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range files {
		delete(c.files, f)
	}
	for _, r := range roots {
		delete(c.roots, r)
	}
}

// resolve returns the memoized path for key, computing it with fn on a miss.
// Failed lookups are not memoized.
func (c *Cache) resolve(key lookupKey, fn func() (string, error)) (string, error) {
	c.mu.Lock()
	path, ok := c.resolved[key]
	c.mu.Unlock()
	if ok {
		return path, nil
	}

	path, err := fn()
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.resolved[key] = path
	c.mu.Unlock()
	return path, nil
}
