/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mapfs provides an in-memory filesystem implementation for testing.
package mapfs

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

// maxLinkHops bounds symlink chasing, like ELOOP on unix.
const maxLinkHops = 40

// MapFileSystem implements FileSystem using an in-memory fstest.MapFS.
// Symbolic links are modelled as a path-prefix rewrite table, so that
// node_modules entries linked in from elsewhere can be simulated.
type MapFileSystem struct {
	mu      sync.RWMutex
	mapFS   fstest.MapFS
	links   map[string]string
	modTime time.Time
}

// New creates a new in-memory filesystem for testing.
func New() *MapFileSystem {
	return &MapFileSystem{
		mapFS:   make(fstest.MapFS),
		links:   make(map[string]string),
		modTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a file to the in-memory filesystem.
func (mfs *MapFileSystem) AddFile(p string, content string, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	p = mfs.cleanPath(p)
	mfs.mapFS[p] = &fstest.MapFile{
		Data:    []byte(content),
		Mode:    mode,
		ModTime: mfs.modTime,
	}
}

// AddDir adds a directory to the in-memory filesystem.
func (mfs *MapFileSystem) AddDir(p string, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	p = mfs.cleanPath(p)
	mfs.mapFS[p] = &fstest.MapFile{
		Mode:    fs.ModeDir | mode.Perm(),
		ModTime: mfs.modTime,
	}
}

// AddSymlink makes link resolve to target. A relative target is interpreted
// relative to the directory containing link.
func (mfs *MapFileSystem) AddSymlink(link, target string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if !path.IsAbs(target) {
		target = path.Join(path.Dir(path.Clean("/"+link)), target)
	}
	mfs.links[mfs.cleanPath(link)] = mfs.cleanPath(target)
}

// Touch updates the modification time of an existing file.
func (mfs *MapFileSystem) Touch(p string, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if file, ok := mfs.mapFS[mfs.cleanPath(p)]; ok {
		file.ModTime = modTime
	}
}

// ReadFile implements FileSystem.
func (mfs *MapFileSystem) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	p, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(mfs.mapFS, p)
}

// Stat implements FileSystem.
func (mfs *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	p, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return fs.Stat(mfs.mapFS, p)
}

// Exists implements FileSystem.
func (mfs *MapFileSystem) Exists(name string) bool {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	p, err := mfs.resolveLocked(name)
	if err != nil {
		return false
	}

	if _, exists := mfs.mapFS[p]; exists {
		return true
	}

	prefix := p + "/"
	for filePath := range mfs.mapFS {
		if strings.HasPrefix(filePath, prefix) {
			return true
		}
	}

	return false
}

// ReadDir implements FileSystem.
func (mfs *MapFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	p, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(mfs.mapFS, p)
}

// RealPath implements FileSystem.
func (mfs *MapFileSystem) RealPath(name string) (string, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	p, err := mfs.resolveLocked(name)
	if err != nil {
		return "", err
	}
	if _, err := fs.Stat(mfs.mapFS, p); err != nil {
		return "", &fs.PathError{Op: "realpath", Path: name, Err: fs.ErrNotExist}
	}
	if p == "." {
		return "/", nil
	}
	return "/" + p, nil
}

// Open implements FileSystem.
func (mfs *MapFileSystem) Open(name string) (fs.File, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	p, err := mfs.resolveLocked(name)
	if err != nil {
		return nil, err
	}
	return mfs.mapFS.Open(p)
}

// resolveLocked rewrites every symlinked prefix of name until none remain.
func (mfs *MapFileSystem) resolveLocked(name string) (string, error) {
	p := mfs.cleanPath(name)
	if len(mfs.links) == 0 {
		return p, nil
	}

	for range maxLinkHops {
		rewritten, ok := mfs.rewriteOnce(p)
		if !ok {
			return p, nil
		}
		p = rewritten
	}
	return "", &fs.PathError{Op: "open", Path: name, Err: fmt.Errorf("too many levels of symbolic links")}
}

func (mfs *MapFileSystem) rewriteOnce(p string) (string, bool) {
	parts := strings.Split(p, "/")
	for i := 1; i <= len(parts); i++ {
		prefix := strings.Join(parts[:i], "/")
		target, ok := mfs.links[prefix]
		if !ok {
			continue
		}
		rest := strings.Join(parts[i:], "/")
		if rest == "" {
			return target, true
		}
		if target == "." {
			return rest, true
		}
		return target + "/" + rest, true
	}
	return p, false
}

func (mfs *MapFileSystem) cleanPath(p string) string {
	cleaned := path.Clean(p)
	if !path.IsAbs(cleaned) {
		cleaned = "/" + cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}
