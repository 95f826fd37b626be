/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package closure

import "testing"

func TestIsOutside(t *testing.T) {
	tests := []struct {
		name      string
		root      string
		candidate string
		want      bool
	}{
		{"root itself", "/project", "/project", false},
		{"child", "/project", "/project/node_modules/a", false},
		{"dotdot-prefixed name", "/project", "/project/..hidden/a.js", false},
		{"parent", "/project", "/", true},
		{"sibling", "/project", "/project-other/a.js", true},
		{"linked outside", "/project", "/home/dev/linked", true},
		{"relative inside", "/project", "src/a.js", false},
		{"relative escape", "/project", "../elsewhere", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOutside(tt.root, tt.candidate); got != tt.want {
				t.Errorf("IsOutside(%q, %q) = %v, want %v", tt.root, tt.candidate, got, tt.want)
			}
		})
	}
}
