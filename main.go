/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Command incdeps lists the files a Node.js entry point needs to run standalone.
package main

import (
	"os"

	"bennypowers.dev/incdeps/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
