/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

var javascriptLanguage = tree_sitter.NewLanguage(tree_sitter_javascript.Language())

// JavaScript extracts specifiers from ES module and CommonJS sources:
//
//	import x from "a"        import "a"
//	export * from "a"        export { x } from "a"
//	require("a")             import("a")
//
// Template literals count as static only when they contain no substitutions.
func JavaScript(source []byte) ([]string, error) {
	tree, err := parse(javascriptLanguage, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var specs []string
	add := func(n *tree_sitter.Node) {
		if spec, ok := stringLiteral(n, source); ok {
			specs = append(specs, spec)
		}
	}

	walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_statement", "export_statement":
			if src := n.ChildByFieldName("source"); src != nil {
				add(src)
			}
		case "call_expression":
			if isImportCall(n, source) {
				if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
					add(args.NamedChild(0))
				}
			}
		}
		return true
	})

	return specs, nil
}

// isImportCall matches require(...) and dynamic import(...).
func isImportCall(call *tree_sitter.Node, source []byte) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Kind() {
	case "import":
		return true
	case "identifier":
		return fn.Utf8Text(source) == "require"
	}
	return false
}

// stringLiteral returns the value of a string or substitution-free template literal.
func stringLiteral(n *tree_sitter.Node, source []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind() {
	case "string":
		value := unquote(n.Utf8Text(source))
		return value, value != ""
	case "template_string":
		for i := range n.NamedChildCount() {
			if child := n.NamedChild(i); child != nil && child.Kind() == "template_substitution" {
				return "", false
			}
		}
		value := unquote(n.Utf8Text(source))
		return value, value != ""
	}
	return "", false
}
