// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"reflect"
	"strings"
	"testing"
)

// TestResolveImports tests recognition of component imports in script text
func TestResolveImports(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []ImportRecord
	}{
		{
			name:   "single_import",
			script: "import Card from './Card.olova';\nlet x = 1;",
			want:   []ImportRecord{{LocalName: "Card", Path: "./Card.olova"}},
		},
		{
			name: "order_preserved",
			script: "import Nav from './nav.olova'\n" +
				"import Footer from '../shared/footer.olova';\n",
			want: []ImportRecord{
				{LocalName: "Nav", Path: "./nav.olova"},
				{LocalName: "Footer", Path: "../shared/footer.olova"},
			},
		},
		{
			name:   "non_component_imports_ignored",
			script: "import { mount } from 'olova';\nimport lodash from 'lodash';",
			want:   nil,
		},
		{
			name: "duplicates_not_merged",
			script: "import Card from './a/Card.olova';\n" +
				"import Card from './b/Card.olova';\n",
			want: []ImportRecord{
				{LocalName: "Card", Path: "./a/Card.olova"},
				{LocalName: "Card", Path: "./b/Card.olova"},
			},
		},
		{
			name:   "double_quotes",
			script: `import Hero from "./Hero.olova";`,
			want:   []ImportRecord{{LocalName: "Hero", Path: "./Hero.olova"}},
		},
		{
			name:   "empty_script",
			script: "",
			want:   nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ResolveImports(test.script)
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("ResolveImports() = %+v, expected %+v", got, test.want)
			}
		})
	}
}

// TestStripComponentImports tests that component imports are removed from the
// script while other statements survive
func TestStripComponentImports(t *testing.T) {
	script := "import Card from './Card.olova';\nimport lodash from 'lodash';\nlet x = 1;\n"
	got := stripComponentImports(script)

	if strings.Contains(got, "Card.olova") {
		t.Errorf("Expected component import to be stripped, got %q", got)
	}
	if !strings.Contains(got, "lodash") {
		t.Errorf("Expected non-component import to survive, got %q", got)
	}
	if !strings.Contains(got, "let x = 1;") {
		t.Errorf("Expected script body to survive, got %q", got)
	}
}
