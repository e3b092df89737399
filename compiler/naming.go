// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ext is the reserved file extension for Olova single-file components.
const Ext = ".olova"

// tokenPrefix makes the scope digest a valid HTML attribute name and CSS
// attribute selector regardless of the leading digest character.
const tokenPrefix = "data-o-"

// tokenDigestLen is the truncated length of the scope digest.
const tokenDigestLen = 8

// ComponentName derives the display name of a component from its file path:
// the base name without extension, first letter capitalized. The result is a
// pure function of the path so repeated compiles of an unchanged file agree.
func ComponentName(path string) string {
	posix := toPosixPath(path)
	base := posix
	if i := strings.LastIndex(posix, "/"); i >= 0 {
		base = posix[i+1:]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(base)
	return string(unicode.ToUpper(r)) + base[size:]
}

// ScopeToken derives the per-component scope attribute from the file identity.
// It uses the classic djb-style rolling hash (hash = hash*31 + char) over the
// path, folded into a signed 32-bit integer, rendered in base 16 and truncated.
// The hash is fast and stable, not collision resistant; colliding tokens merge
// two components' style scopes, which is tolerated.
func ScopeToken(path string) string {
	var h int32
	for _, c := range toPosixPath(path) {
		h = h<<5 - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	digest := strconv.FormatInt(v, 16)
	if len(digest) > tokenDigestLen {
		digest = digest[:tokenDigestLen]
	}
	return tokenPrefix + digest
}

// toPosixPath converts Windows-style paths to POSIX-style paths so names and
// tokens do not depend on the build host's separator.
func toPosixPath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
