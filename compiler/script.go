// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"regexp"
	"strings"
)

// propsHelper is the prop-setup helper recognized in component scripts.
// Compiled components receive no props, so every form of the idiom is elided
// from the script before it is spliced into the mount function.
const propsHelper = "props"

// Recognized forms of the prop-setup idiom, one pattern per statement shape.
// The removal order matters where the shapes overlap: declarations are
// removed before bare calls so `const p = props()` is never half-matched.
var (
	propsImportRe = regexp.MustCompile(
		`(?m)^[ \t]*import\s+(?:\{[^}]*\b` + propsHelper + `\b[^}]*\}|` + propsHelper + `)\s+from\s+['"][^'"]+['"]\s*;?[ \t]*\r?\n?`)
	propsDeclRe = regexp.MustCompile(
		`(?m)^[ \t]*(?:const|let|var)\s+[A-Za-z_$][A-Za-z0-9_$]*\s*=\s*` + propsHelper + `\s*\([^)]*\)\s*;?[ \t]*\r?\n?`)
	propsAssignRe = regexp.MustCompile(
		`(?m)^[ \t]*[A-Za-z_$][A-Za-z0-9_$.]*\s*=\s*` + propsHelper + `\s*\([^)]*\)\s*;?[ \t]*\r?\n?`)
	propsCallRe = regexp.MustCompile(
		`(?m)^[ \t]*` + propsHelper + `\s*\([^)]*\)\s*;?[ \t]*\r?\n?`)
)

// CleanScript prepares script text for splicing into the compiled mount
// function. Component imports are stripped (the emitter hoists them to the
// top of the module) and every recognized form of the prop-setup idiom is
// removed: its import, declarations and assignments calling it, bare calls,
// and a local function declaring it.
func CleanScript(script string) string {
	script = stripComponentImports(script)
	script = propsImportRe.ReplaceAllString(script, "")
	script = propsDeclRe.ReplaceAllString(script, "")
	script = propsAssignRe.ReplaceAllString(script, "")
	script = propsCallRe.ReplaceAllString(script, "")
	script = stripFunctionDecl(script, propsHelper)
	return strings.TrimSpace(script)
}

// stripFunctionDecl removes every `function <name>(...) {...}` declaration
// from the script by matching braces from the declaration keyword onward.
// Braces inside strings or comments within the function body will unbalance
// the scan; in that case the remainder of the script is left untouched.
func stripFunctionDecl(script, name string) string {
	declRe := regexp.MustCompile(`(?m)^[ \t]*function\s+` + name + `\s*\(`)
	for {
		loc := declRe.FindStringIndex(script)
		if loc == nil {
			return script
		}
		end, ok := findBlockEnd(script, loc[1])
		if !ok {
			return script
		}
		// Swallow one trailing newline so no blank line is left behind.
		if end < len(script) && script[end] == '\n' {
			end++
		}
		script = script[:loc[0]] + script[end:]
	}
}

// findBlockEnd scans from the opening parenthesis of a function declaration
// past the parameter list and the brace-balanced body, returning the index
// just after the closing brace.
func findBlockEnd(script string, from int) (int, bool) {
	i := strings.IndexByte(script[from:], '{')
	if i < 0 {
		return 0, false
	}
	depth := 0
	for j := from + i; j < len(script); j++ {
		switch script[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		}
	}
	return 0, false
}
