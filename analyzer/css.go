/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

var cssLanguage = tree_sitter.NewLanguage(tree_sitter_css.Language())

// CSS extracts the targets of @import rules, in either the string or url() form.
// CSS URLs are relative by default, so "theme.css" is reported as "./theme.css".
func CSS(source []byte) ([]string, error) {
	tree, err := parse(cssLanguage, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var specs []string
	walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n.Kind() != "import_statement" {
			return true
		}
		if target, ok := importTarget(n, source); ok {
			if spec, ok := relativeURL(target); ok {
				specs = append(specs, spec)
			}
		}
		return false
	})

	return specs, nil
}

func importTarget(stmt *tree_sitter.Node, source []byte) (string, bool) {
	for i := range stmt.NamedChildCount() {
		child := stmt.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string_value":
			return unquote(child.Utf8Text(source)), true
		case "call_expression":
			return urlArgument(child, source)
		}
	}
	return "", false
}

// urlArgument returns the argument of a url(...) call.
func urlArgument(call *tree_sitter.Node, source []byte) (string, bool) {
	var name, args *tree_sitter.Node
	for i := range call.NamedChildCount() {
		child := call.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_name":
			name = child
		case "arguments":
			args = child
		}
	}
	if name == nil || args == nil || name.Utf8Text(source) != "url" || args.NamedChildCount() == 0 {
		return "", false
	}
	arg := args.NamedChild(0)
	if arg == nil {
		return "", false
	}
	return unquote(arg.Utf8Text(source)), true
}
