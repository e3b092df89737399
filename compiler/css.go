// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"strings"
)

// frameKind classifies an open CSS block while scoping.
type frameKind int

const (
	// frameGroup is a context whose direct children are style rules whose
	// selectors must be scoped: the stylesheet top level and the bodies of
	// conditional group at-rules (@media, @supports).
	frameGroup frameKind = iota
	// frameRule is a declaration body; its lines pass through unchanged.
	frameRule
	// frameOpaque is the body of a non-conditional at-rule such as
	// @keyframes, whose inner selectors (from/to/percentages) are not
	// element selectors and must never be scoped.
	frameOpaque
)

// conditional group at-rules whose nested rules are scoped like top-level ones.
var groupAtRules = []string{"@media", "@supports"}

// ScopeCSS rewrites stylesheet text so every rule only applies beneath a
// component root carrying the scope token attribute. Each top-level selector
// becomes "[token] selector"; a :root pseudo-class is replaced by the
// bracketed token itself so the component root stands in for the document
// root. At-rule headers pass through untouched: rules nested in @media and
// @supports are scoped like top-level rules, while @keyframes and other
// opaque at-rule bodies are emitted verbatim.
//
// The scanner is line-based, not a CSS parser. Block comments are tracked
// across lines so comment text never counts toward brace depth and never
// shadows a selector; a brace on its own line is folded into the header that
// preceded it. Braces inside string literals will still confuse the scan, and
// malformed input degrades silently rather than raising an error.
func ScopeCSS(css, token string) string {
	if token == "" {
		return css
	}

	var out strings.Builder
	stack := []frameKind{frameGroup}
	pending := frameRule
	inComment := false

	for _, raw := range strings.SplitAfter(css, "\n") {
		if raw == "" {
			continue
		}
		body := strings.TrimSuffix(raw, "\n")

		code, codeAt, open := lineCode(body, inComment)
		inComment = open
		trimmed := strings.TrimSpace(code)
		current := stack[len(stack)-1]

		switch {
		case current != frameGroup, trimmed == "":
			out.WriteString(raw)
		case strings.HasPrefix(trimmed, "@"):
			out.WriteString(raw)
			kind := frameOpaque
			if isGroupAtRule(trimmed) {
				kind = frameGroup
			}
			if strings.Contains(trimmed, "{") {
				stack = pushFrames(stack, kind, braceDelta(trimmed))
				continue
			}
			if !strings.HasSuffix(trimmed, ";") {
				pending = kind
			}
		case strings.HasPrefix(trimmed, "}"):
			out.WriteString(raw)
		case strings.HasPrefix(trimmed, "{"):
			// The brace belongs to the header emitted on the previous
			// line; open its block rather than treating the line as a
			// selector of its own.
			out.WriteString(raw)
			stack = pushFrames(stack, pending, braceDelta(trimmed))
			continue
		default:
			// Leading whitespace and comments pass through verbatim,
			// then the code portion is scoped as a selector line.
			out.WriteString(body[:codeAt])
			selector, rest, hasBrace := strings.Cut(body[codeAt:], "{")
			out.WriteString(scopeSelectorList(strings.TrimSpace(selector), token))
			if hasBrace {
				out.WriteString(" {")
				out.WriteString(rest)
			} else {
				pending = frameRule
			}
			if strings.HasSuffix(raw, "\n") {
				out.WriteString("\n")
			}
			stack = pushFrames(stack, frameRule, braceDelta(trimmed))
			continue
		}
		stack = pushFrames(stack, current, braceDelta(trimmed))
	}

	return out.String()
}

// lineCode splits one line into its code and comment parts. It returns the
// line with every /* ... */ span replaced by a space, the index of the first
// code character in the original line (len(line) when the line is nothing but
// whitespace and comments), and whether the line ends inside an unclosed
// comment. The incoming inComment flag carries comment state over from the
// previous line.
func lineCode(line string, inComment bool) (code string, codeAt int, open bool) {
	var b strings.Builder
	codeAt = -1
	i := 0
	for i < len(line) {
		if inComment {
			end := strings.Index(line[i:], "*/")
			if end < 0 {
				i = len(line)
				break
			}
			i += end + 2
			inComment = false
			b.WriteByte(' ')
			continue
		}
		if strings.HasPrefix(line[i:], "/*") {
			inComment = true
			i += 2
			continue
		}
		if codeAt < 0 && !isSpace(line[i]) {
			codeAt = i
		}
		b.WriteByte(line[i])
		i++
	}
	if codeAt < 0 {
		codeAt = len(line)
	}
	return b.String(), codeAt, inComment
}

// scopeSelectorList scopes each branch of a comma-separated selector list
// independently and rejoins them with ", ". A trailing comma marks a selector
// list continued on the next line and is kept as-is.
func scopeSelectorList(selectors, token string) string {
	continued := strings.HasSuffix(selectors, ",")
	parts := strings.Split(strings.TrimSuffix(selectors, ","), ",")
	for i, part := range parts {
		parts[i] = scopeSelector(strings.TrimSpace(part), token)
	}
	list := strings.Join(parts, ", ")
	if continued {
		list += ","
	}
	return list
}

// scopeSelector constrains one selector to the component root. A :root
// pseudo-class becomes the token attribute selector itself; every other
// selector is prefixed so it only matches descendants of the root.
func scopeSelector(selector, token string) string {
	if selector == "" {
		return "[" + token + "]"
	}
	if strings.Contains(selector, ":root") {
		return strings.ReplaceAll(selector, ":root", "["+token+"]")
	}
	return "[" + token + "] " + selector
}

// braceDelta is the net number of blocks a line opens (positive) or closes
// (negative).
func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

// pushFrames applies a line's net brace count to the frame stack, opening
// blocks of the given kind or closing existing ones. The bottom frame is the
// stylesheet top level and is never popped.
func pushFrames(stack []frameKind, kind frameKind, delta int) []frameKind {
	for ; delta > 0; delta-- {
		stack = append(stack, kind)
	}
	for ; delta < 0 && len(stack) > 1; delta++ {
		stack = stack[:len(stack)-1]
	}
	return stack
}

func isGroupAtRule(line string) bool {
	for _, rule := range groupAtRules {
		if strings.HasPrefix(line, rule) {
			return true
		}
	}
	return false
}
