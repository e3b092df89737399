// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"strings"
)

// StyleBlock is the style section of a component source.
type StyleBlock struct {
	Source string // raw CSS text, possibly empty
	Scoped bool   // true only when the style tag carries the scoped attribute
}

// Sections holds the three parts of a single-file component after extraction.
type Sections struct {
	Script   string
	Style    StyleBlock
	Template string
}

// ExtractSections splits raw component source into script, style, and
// template text. At most one script and one style region are honored; the
// first occurrence of each wins and any later duplicate block is left in the
// template text untouched. Missing sections are not errors: an absent script
// yields empty script text and an absent style yields an empty, unscoped
// style block. The template is whatever remains once the honored sections are
// removed, with surrounding whitespace trimmed.
func ExtractSections(source string) Sections {
	var s Sections

	script, _, rest, ok := extractTagBlock(source, "script")
	if ok {
		s.Script = script
		source = rest
	}

	style, attrs, rest, ok := extractTagBlock(source, "style")
	if ok {
		s.Style = StyleBlock{Source: style, Scoped: hasAttr(attrs, "scoped")}
		source = rest
	}

	s.Template = strings.TrimSpace(source)
	return s
}

// extractTagBlock finds the first <tag ...>...</tag> region in source.
// It returns the inner content, the raw attribute text of the opening tag,
// and the source with the whole region removed.
func extractTagBlock(source, tag string) (content, attrs, rest string, ok bool) {
	lower := strings.ToLower(source)
	open := "<" + tag
	close := "</" + tag + ">"

	start := 0
	for {
		i := strings.Index(lower[start:], open)
		if i < 0 {
			return "", "", source, false
		}
		i += start
		// The character after the tag name must terminate it, otherwise
		// <styleguide> would match <style>.
		after := i + len(open)
		if after < len(source) && source[after] != '>' && !isSpace(source[after]) {
			start = after
			continue
		}

		gt := strings.IndexByte(source[after:], '>')
		if gt < 0 {
			return "", "", source, false
		}
		contentStart := after + gt + 1

		end := strings.Index(lower[contentStart:], close)
		if end < 0 {
			return "", "", source, false
		}
		end += contentStart

		content = source[contentStart:end]
		attrs = strings.TrimSpace(source[after : contentStart-1])
		rest = source[:i] + source[end+len(close):]
		return content, attrs, rest, true
	}
}

// hasAttr reports whether the raw attribute text of an opening tag contains
// the named bare attribute.
func hasAttr(attrs, name string) bool {
	for _, field := range strings.Fields(attrs) {
		field = strings.ToLower(field)
		if field == name || strings.HasPrefix(field, name+"=") {
			return true
		}
	}
	return false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
