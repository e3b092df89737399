// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package olovaplugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// tsconfigPaths is the subset of a tsconfig/jsconfig document the component
// resolver cares about: the compilerOptions.paths alias table.
type tsconfigPaths struct {
	CompilerOptions struct {
		Paths map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// parseTsconfigPathAlias reads the path alias table configured for the build,
// so component imports like '@/components/Card.olova' resolve project-wide.
// Aliases come from TsconfigRaw when set, otherwise from the Tsconfig file;
// relative alias targets are anchored at the config's directory (or the
// working directory for raw config). Only the first target of each alias is
// honored.
func parseTsconfigPathAlias(buildOptions *api.BuildOptions) (map[string]string, error) {
	pathAlias := make(map[string]string)

	var doc tsconfigPaths
	var baseDir string

	switch {
	case buildOptions.TsconfigRaw != "":
		if err := json.Unmarshal([]byte(buildOptions.TsconfigRaw), &doc); err != nil {
			return pathAlias, err
		}
		if buildOptions.AbsWorkingDir != "" {
			baseDir = buildOptions.AbsWorkingDir
		} else {
			exePath, _ := os.Executable()
			baseDir, _ = filepath.Abs(filepath.Dir(exePath))
		}
	case buildOptions.Tsconfig != "":
		raw, err := os.ReadFile(buildOptions.Tsconfig)
		if err != nil {
			return pathAlias, err
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return pathAlias, err
		}
		baseDir, _ = filepath.Abs(filepath.Dir(buildOptions.Tsconfig))
	default:
		return pathAlias, nil
	}

	for alias, targets := range doc.CompilerOptions.Paths {
		if len(targets) > 0 {
			pathAlias[alias] = filepath.Join(baseDir, targets[0])
		}
	}

	return pathAlias, nil
}

// applyPathAlias rewrites an import path through the alias table. An alias
// ending in '*' matches any suffix and carries it into the target path; any
// other alias must match the import exactly. Unmatched paths come back
// unchanged.
func applyPathAlias(pathAlias map[string]string, path string) string {
	for alias, target := range pathAlias {
		if strings.HasSuffix(alias, "*") {
			prefix := strings.TrimSuffix(alias, "*")
			if strings.HasPrefix(path, prefix) {
				return strings.TrimSuffix(target, "*") + path[len(prefix):]
			}
			continue
		}
		if path == alias {
			return target
		}
	}
	return path
}
