// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"regexp"
)

// ImportRecord maps a local component name to the module path the script
// imported it from. Records are kept in first-occurrence order; duplicate
// local names are not merged, and because rewriting keys on the name, a later
// duplicate shadows an earlier one.
type ImportRecord struct {
	LocalName string
	Path      string
}

// componentImportRe recognizes the component import convention inside the
// script section: a default import whose module path ends in the component
// extension. Any other import is not a component import and is left alone.
var componentImportRe = regexp.MustCompile(
	`(?m)^[ \t]*import\s+([A-Za-z_$][A-Za-z0-9_$]*)\s+from\s+['"]([^'"]+\` + Ext + `)['"]\s*;?[ \t]*\r?\n?`)

// ResolveImports scans script text for component imports and returns one
// record per statement, in source order.
func ResolveImports(script string) []ImportRecord {
	matches := componentImportRe.FindAllStringSubmatch(script, -1)
	if len(matches) == 0 {
		return nil
	}
	records := make([]ImportRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, ImportRecord{LocalName: m[1], Path: m[2]})
	}
	return records
}

// stripComponentImports removes every component import statement from the
// script. The emitter hoists equivalent imports to the top of the compiled
// module, so leaving the originals in place would import each child twice.
func stripComponentImports(script string) string {
	return componentImportRe.ReplaceAllString(script, "")
}
