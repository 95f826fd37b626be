/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mapfs

import (
	"io/fs"
	"testing"
)

func TestMapFileSystem_Symlink(t *testing.T) {
	mfs := New()
	mfs.AddFile("/elsewhere/pkg/package.json", `{"name":"pkg"}`, 0644)
	mfs.AddSymlink("/project/node_modules/pkg", "/elsewhere/pkg")

	data, err := mfs.ReadFile("/project/node_modules/pkg/package.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"name":"pkg"}` {
		t.Errorf("ReadFile through link = %q", data)
	}

	got, err := mfs.RealPath("/project/node_modules/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/elsewhere/pkg" {
		t.Errorf("RealPath = %q, want /elsewhere/pkg", got)
	}

	if !mfs.Exists("/project/node_modules/pkg") {
		t.Error("expected linked directory to exist")
	}
}

func TestMapFileSystem_RelativeSymlink(t *testing.T) {
	mfs := New()
	mfs.AddFile("/project/packages/shared/index.js", "", 0644)
	mfs.AddSymlink("/project/node_modules/shared", "../packages/shared")

	got, err := mfs.RealPath("/project/node_modules/shared/index.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/project/packages/shared/index.js" {
		t.Errorf("RealPath = %q", got)
	}
}

func TestMapFileSystem_SymlinkLoop(t *testing.T) {
	mfs := New()
	mfs.AddSymlink("/a", "/b")
	mfs.AddSymlink("/b", "/a")

	if _, err := mfs.Stat("/a/file"); err == nil {
		t.Error("expected error for symlink loop")
	}
}

func TestMapFileSystem_RealPathMissing(t *testing.T) {
	mfs := New()
	if _, err := mfs.RealPath("/missing"); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestMapFileSystem_WalkDir(t *testing.T) {
	mfs := New()
	mfs.AddFile("/root/a.js", "", 0644)
	mfs.AddFile("/root/lib/b.js", "", 0644)

	var files []string
	err := fs.WalkDir(mfs, "/root", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 || files[0] != "/root/a.js" || files[1] != "/root/lib/b.js" {
		t.Errorf("WalkDir files = %v", files)
	}
}
