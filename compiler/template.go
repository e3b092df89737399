// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IdentityAttr is the attribute that names a component on its placeholder
// element, on every mounted container node, and on per-component style tags.
const IdentityAttr = "data-component"

// RewriteTemplate replaces every occurrence of an imported component's tag in
// the template with a generic placeholder element: a div carrying the
// component identity attribute, the original tag's attributes, and the
// original children (empty for a self-closing tag). The placeholder is
// resolved at mount time by the compiled module, which mounts the child
// component's factory into it.
//
// The template is parsed as an HTML fragment rather than rewritten with text
// substitution, so attribute values and nested markup, including same-named
// tags inside a component's content, behave correctly. Templates with no
// component imports are returned untouched.
func RewriteTemplate(template string, imports []ImportRecord) string {
	if len(imports) == 0 || strings.TrimSpace(template) == "" {
		return template
	}

	// Rewriting keys on the tag name; later duplicate imports shadow
	// earlier ones. HTML parsing lowercases tag names, so the table is
	// keyed on the lowercased local name.
	byTag := make(map[string]string, len(imports))
	for _, rec := range imports {
		byTag[strings.ToLower(rec.LocalName)] = rec.LocalName
	}

	template = expandSelfClosing(template, imports)

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(template), ctx)
	if err != nil {
		// Malformed input degrades to the untouched template rather
		// than failing the compile.
		return template
	}

	var out strings.Builder
	for _, node := range nodes {
		rewriteComponentTags(node, byTag)
		if err := html.Render(&out, node); err != nil {
			return template
		}
	}
	return out.String()
}

// rewriteComponentTags walks a parsed fragment and turns every element whose
// tag matches an imported component into a placeholder div.
func rewriteComponentTags(node *html.Node, byTag map[string]string) {
	if node.Type == html.ElementNode {
		if localName, ok := byTag[node.Data]; ok {
			node.Data = "div"
			node.DataAtom = atom.Div
			node.Attr = append(
				[]html.Attribute{{Key: IdentityAttr, Val: localName}},
				node.Attr...,
			)
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		rewriteComponentTags(child, byTag)
	}
}

// expandSelfClosing turns <Card .../> into <Card ...></Card> for each
// imported component. HTML parsing ignores the self-closing slash on unknown
// elements and would otherwise swallow following siblings as children.
func expandSelfClosing(template string, imports []ImportRecord) string {
	for _, rec := range imports {
		re := regexp.MustCompile(`<(` + regexp.QuoteMeta(rec.LocalName) + `)((?:\s[^>]*?)?)/>`)
		template = re.ReplaceAllString(template, "<$1$2></"+rec.LocalName+">")
	}
	return template
}
