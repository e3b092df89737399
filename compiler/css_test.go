// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"testing"
)

// TestScopeCSS tests selector scoping of well-formed stylesheet text
func TestScopeCSS(t *testing.T) {
	tests := []struct {
		name     string
		css      string
		expected string
	}{
		{
			name:     "single_rule_one_line",
			css:      ".foo { color: red; }",
			expected: "[t1] .foo { color: red; }",
		},
		{
			name:     "root_pseudo_becomes_token",
			css:      ":root { --x: 1; }",
			expected: "[t1] { --x: 1; }",
		},
		{
			name:     "comma_list_scoped_per_branch",
			css:      "h1, .title { margin: 0; }",
			expected: "[t1] h1, [t1] .title { margin: 0; }",
		},
		{
			name:     "multi_line_rule",
			css:      ".foo {\n  color: red;\n}\n",
			expected: "[t1] .foo {\n  color: red;\n}\n",
		},
		{
			name:     "declarations_not_scoped",
			css:      ".a {\n  content: \"b\";\n  border: 0;\n}\n.c { top: 0; }",
			expected: "[t1] .a {\n  content: \"b\";\n  border: 0;\n}\n[t1] .c { top: 0; }",
		},
		{
			name:     "media_rules_scoped_inside",
			css:      "@media (max-width: 600px) {\n  .foo {\n    color: red;\n  }\n}\n",
			expected: "@media (max-width: 600px) {\n  [t1] .foo {\n    color: red;\n  }\n}\n",
		},
		{
			name:     "keyframes_body_untouched",
			css:      "@keyframes spin {\n  from { transform: none; }\n  to { transform: rotate(1turn); }\n}\n",
			expected: "@keyframes spin {\n  from { transform: none; }\n  to { transform: rotate(1turn); }\n}\n",
		},
		{
			name:     "at_import_passes_through",
			css:      "@import url('reset.css');\n.a { top: 0; }",
			expected: "@import url('reset.css');\n[t1] .a { top: 0; }",
		},
		{
			name:     "comment_lines_untouched",
			css:      "/* heading */\nh1 { font-weight: bold; }",
			expected: "/* heading */\n[t1] h1 { font-weight: bold; }",
		},
		{
			name:     "universal_selector_scoped",
			css:      "* { box-sizing: border-box; }",
			expected: "[t1] * { box-sizing: border-box; }",
		},
		{
			name:     "inline_comment_before_selector",
			css:      "/* x */ .foo {\n  color: red;\n}\n",
			expected: "/* x */ [t1] .foo {\n  color: red;\n}\n",
		},
		{
			name:     "multi_line_comment_plain_continuation",
			css:      "/* note\nno leading star\n*/\n.foo { color: red; }",
			expected: "/* note\nno leading star\n*/\n[t1] .foo { color: red; }",
		},
		{
			name:     "comment_closing_before_selector",
			css:      "/* a\nb */ .foo { color: red; }",
			expected: "/* a\nb */ [t1] .foo { color: red; }",
		},
		{
			name:     "brace_inside_comment_ignored",
			css:      ".foo {\n  /* { */ color: red;\n}\n.bar { top: 0; }",
			expected: "[t1] .foo {\n  /* { */ color: red;\n}\n[t1] .bar { top: 0; }",
		},
		{
			name:     "brace_on_next_line",
			css:      ".foo\n{\n  color: red;\n}\n",
			expected: "[t1] .foo\n{\n  color: red;\n}\n",
		},
		{
			name:     "media_brace_on_next_line",
			css:      "@media screen\n{\n  .foo {\n    color: red;\n  }\n}\n",
			expected: "@media screen\n{\n  [t1] .foo {\n    color: red;\n  }\n}\n",
		},
		{
			name:     "multi_line_selector_list",
			css:      ".foo,\n.bar {\n  color: red;\n}\n",
			expected: "[t1] .foo,\n[t1] .bar {\n  color: red;\n}\n",
		},
		{
			name:     "empty_input",
			css:      "",
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ScopeCSS(test.css, "t1")
			if got != test.expected {
				t.Errorf("ScopeCSS() = %q, expected %q", got, test.expected)
			}
		})
	}
}

// TestScopeCSSIdempotentInputs tests that scoping is deterministic
func TestScopeCSSIdempotentInputs(t *testing.T) {
	css := ".foo { color: red; }\n@media print {\n  p { display: none; }\n}\n"
	first := ScopeCSS(css, "t1")
	second := ScopeCSS(css, "t1")
	if first != second {
		t.Errorf("Expected deterministic output, got %q then %q", first, second)
	}
}

// TestScopeCSSEmptyToken tests that a missing token passes CSS through unchanged
func TestScopeCSSEmptyToken(t *testing.T) {
	css := ".foo { color: red; }"
	if got := ScopeCSS(css, ""); got != css {
		t.Errorf("Expected passthrough for empty token, got %q", got)
	}
}
