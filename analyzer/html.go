/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package analyzer

import (
	"slices"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

var htmlLanguage = tree_sitter.NewLanguage(tree_sitter_html.Language())

// linkRels are the <link rel> values whose href is loaded by the page.
var linkRels = []string{"stylesheet", "modulepreload", "preload", "icon", "manifest"}

// HTML extracts <script src> and <link href> references to local files.
func HTML(source []byte) ([]string, error) {
	tree, err := parse(htmlLanguage, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var specs []string
	walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		kind := n.Kind()
		if kind != "start_tag" && kind != "self_closing_tag" {
			return true
		}

		tag, attrs := readTag(n, source)
		var ref string
		switch tag {
		case "script":
			ref = attrs["src"]
		case "link":
			if hasRel(attrs["rel"]) {
				ref = attrs["href"]
			}
		}
		if spec, ok := relativeURL(ref); ok {
			specs = append(specs, spec)
		}
		return false
	})

	return specs, nil
}

func readTag(tag *tree_sitter.Node, source []byte) (string, map[string]string) {
	var name string
	attrs := make(map[string]string)

	for i := range tag.NamedChildCount() {
		child := tag.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "tag_name":
			name = strings.ToLower(child.Utf8Text(source))
		case "attribute":
			key, value := readAttribute(child, source)
			if key != "" {
				attrs[key] = value
			}
		}
	}
	return name, attrs
}

func readAttribute(attr *tree_sitter.Node, source []byte) (string, string) {
	var key, value string
	for i := range attr.NamedChildCount() {
		child := attr.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "attribute_name":
			key = strings.ToLower(child.Utf8Text(source))
		case "attribute_value":
			value = child.Utf8Text(source)
		case "quoted_attribute_value":
			value = unquote(child.Utf8Text(source))
		}
	}
	return key, value
}

func hasRel(rel string) bool {
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		if slices.Contains(linkRels, r) {
			return true
		}
	}
	return false
}
