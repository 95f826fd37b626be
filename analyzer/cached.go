/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	incfs "bennypowers.dev/incdeps/fs"
)

// DefaultCacheSize is the number of files whose specifiers are retained.
const DefaultCacheSize = 4096

type cachedEntry struct {
	size    int64
	modTime time.Time
	specs   []string
}

// Cached memoizes another Analyzer by path. An entry is reused only while
// the file's size and modification time are unchanged, so long-lived
// processes (the MCP server, repeated packaging runs) do not reparse
// unchanged files. Failures are never cached.
type Cached struct {
	inner Analyzer
	fs    incfs.FileSystem
	lru   *lru.Cache[string, cachedEntry]
}

// NewCached wraps inner with an LRU cache holding up to size files.
func NewCached(inner Analyzer, filesystem incfs.FileSystem, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, fs: filesystem, lru: cache}, nil
}

// Specifiers implements Analyzer.
func (c *Cached) Specifiers(ctx context.Context, path string) ([]string, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return c.inner.Specifiers(ctx, path)
	}

	if entry, ok := c.lru.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.specs, nil
	}

	specs, err := c.inner.Specifiers(ctx, path)
	if err != nil {
		return nil, err
	}
	c.lru.Add(path, cachedEntry{size: info.Size(), modTime: info.ModTime(), specs: specs})
	return specs, nil
}

// Len returns the number of cached files.
func (c *Cached) Len() int {
	return c.lru.Len()
}

// Purge drops every cached entry.
func (c *Cached) Purge() {
	c.lru.Purge()
}
