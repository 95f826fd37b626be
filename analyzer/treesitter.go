/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// parse parses source with lang. The caller must close the returned tree.
// Trees containing ERROR or MISSING nodes are rejected.
func parse(lang *tree_sitter.Language, source []byte) (*tree_sitter.Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set parser language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", ErrSyntax)
	}

	root := tree.RootNode()
	if root.HasError() {
		defer tree.Close()
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, fmt.Errorf("%w at %d:%d", ErrSyntax, pos.Row+1, pos.Column+1)
		}
		return nil, ErrSyntax
	}

	return tree, nil
}

// walk visits node and its named descendants in document order.
// Returning false from visit skips the node's children.
func walk(node *tree_sitter.Node, visit func(n *tree_sitter.Node) bool) {
	stack := []*tree_sitter.Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(n) {
			continue
		}

		// Push in reverse so children pop in source order
		for i := n.NamedChildCount(); i > 0; i-- {
			if child := n.NamedChild(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}
}

func firstError(root *tree_sitter.Node) *tree_sitter.Node {
	var found *tree_sitter.Node
	stack := []*tree_sitter.Node{root}
	for len(stack) > 0 && found == nil {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsError() || n.IsMissing() {
			found = n
			break
		}
		if !n.HasError() {
			continue
		}
		for i := n.ChildCount(); i > 0; i-- {
			if child := n.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return found
}

// unquote strips matching quote characters from a literal's source text.
func unquote(text string) string {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return text[1 : len(text)-1]
		}
	}
	return text
}

// relativeURL converts a URL found in CSS or HTML into a relative file
// specifier. URLs with a scheme, protocol-relative and root-relative URLs,
// and fragment-only references do not name project files.
func relativeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "/") {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	p := u.Path
	if !strings.HasPrefix(p, "./") && !strings.HasPrefix(p, "../") {
		p = "./" + p
	}
	return p, true
}
