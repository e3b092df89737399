// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"strings"
	"testing"
)

// TestCleanScript tests elision of the prop-setup idiom and component imports
func TestCleanScript(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected string
	}{
		{
			name:     "component_import_stripped",
			script:   "import Card from './Card.olova';\nlet x = 1;",
			expected: "let x = 1;",
		},
		{
			name:     "named_props_import_stripped",
			script:   "import { props } from 'olova';\nlet x = 1;",
			expected: "let x = 1;",
		},
		{
			name:     "default_props_import_stripped",
			script:   "import props from 'olova';\nlet x = 1;",
			expected: "let x = 1;",
		},
		{
			name:     "props_declaration_stripped",
			script:   "const data = props({ title: 'x' });\nrender(data);",
			expected: "render(data);",
		},
		{
			name:     "bare_props_call_stripped",
			script:   "props({ title: 'x' });\nlet y = 2;",
			expected: "let y = 2;",
		},
		{
			name:     "props_assignment_stripped",
			script:   "state.data = props();\nlet y = 2;",
			expected: "let y = 2;",
		},
		{
			name:     "props_function_declaration_stripped",
			script:   "function props(defaults) {\n  return { ...defaults };\n}\nlet z = 3;",
			expected: "let z = 3;",
		},
		{
			name:     "unrelated_code_untouched",
			script:   "const propsList = render();\nshow(propsList);",
			expected: "const propsList = render();\nshow(propsList);",
		},
		{
			name:     "empty_script",
			script:   "",
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := CleanScript(test.script)
			if got != test.expected {
				t.Errorf("CleanScript(%q) = %q, expected %q", test.script, got, test.expected)
			}
		})
	}
}

// TestCleanScriptAllFormsTogether tests a script exercising every recognized
// form of the idiom at once
func TestCleanScriptAllFormsTogether(t *testing.T) {
	script := strings.Join([]string{
		"import Child from './child.olova';",
		"import { props } from 'olova';",
		"const data = props({ a: 1 });",
		"props({ b: 2 });",
		"data = props();",
		"function props(defaults) {",
		"  return defaults;",
		"}",
		"console.log('kept');",
	}, "\n")

	got := CleanScript(script)
	if got != "console.log('kept');" {
		t.Errorf("CleanScript() = %q, expected only the final statement to survive", got)
	}
}

// TestStripFunctionDecl tests brace-balanced removal of function declarations
func TestStripFunctionDecl(t *testing.T) {
	t.Run("nested_braces", func(t *testing.T) {
		script := "function props(v) {\n  if (v) {\n    return { v };\n  }\n}\nafter();\n"
		got := stripFunctionDecl(script, "props")
		if strings.Contains(got, "function props") {
			t.Errorf("Expected declaration removed, got %q", got)
		}
		if !strings.Contains(got, "after();") {
			t.Errorf("Expected trailing code kept, got %q", got)
		}
	})

	t.Run("unbalanced_body_left_untouched", func(t *testing.T) {
		script := "function props() {\n  broken(;\n"
		if got := stripFunctionDecl(script, "props"); got != script {
			t.Errorf("Expected unbalanced input left untouched, got %q", got)
		}
	})

	t.Run("no_declaration", func(t *testing.T) {
		script := "let x = 1;"
		if got := stripFunctionDecl(script, "props"); got != script {
			t.Errorf("Expected script unchanged, got %q", got)
		}
	})
}
