/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import "strings"

// jsrToNPMCompatPackage converts a JSR package name to its npm compatibility layer name.
// Packages installed via `npx jsr add @scope/pkg` appear in node_modules
// under the @jsr scope with the following naming convention:
//   - jsr:@scope/pkg → @jsr/scope__pkg
//
// JSR requires scoped packages; unscoped names are passed through.
func jsrToNPMCompatPackage(pkg string) string {
	if scopedPkg, ok := strings.CutPrefix(pkg, "@"); ok {
		// @scope/pkg → scope__pkg
		// Remove the leading @ and replace / with __
		return strings.Replace(scopedPkg, "/", "__", 1)
	}
	return pkg
}
