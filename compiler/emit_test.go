// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"strings"
	"testing"
)

// TestEmitModuleShape tests the ordering of the emitted module's top-level
// statements
func TestEmitModuleShape(t *testing.T) {
	code, err := emitModule(emitData{
		Name:     "Card",
		Token:    "data-o-1a2b3c4d",
		Scoped:   true,
		Style:    "h1 { color: blue; }",
		Template: "<h1>Hi</h1>",
		Script:   "console.log('ready');",
		Imports:  []ImportRecord{{LocalName: "Child", Path: "./child.olova"}},
	})
	if err != nil {
		t.Fatalf("emitModule failed: %v", err)
	}

	positions := []string{
		"import Child from './child.olova';",
		"function Card()",
		"document.createElement('style')",
		"return function (target)",
		"root.innerHTML",
		"console.log('ready');",
		"target.appendChild(root)",
		"Child(placeholder)",
		"export default Card();",
	}
	last := -1
	for _, marker := range positions {
		at := strings.Index(code, marker)
		if at < 0 {
			t.Fatalf("Emitted code missing %q\n---\n%s", marker, code)
		}
		if at < last {
			t.Errorf("Expected %q after previous marker\n---\n%s", marker, code)
		}
		last = at
	}
}

// TestJsString tests JavaScript string literal rendering
func TestJsString(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{`plain`, `"plain"`},
		{`<h1 class="big">Hi</h1>`, `"<h1 class=\"big\">Hi</h1>"`},
		{"line\nbreak", `"line\nbreak"`},
		{"`backtick` ${tpl}", "\"`backtick` ${tpl}\""},
		{``, `""`},
	}

	for _, test := range tests {
		if got := jsString(test.input); got != test.expected {
			t.Errorf("jsString(%q) = %s, expected %s", test.input, got, test.expected)
		}
	}
}
