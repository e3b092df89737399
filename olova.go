// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package olovaplugin

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/seraprogrammer/olova-builder/compiler"
)

// componentFilter matches component file imports, with or without URL query
// parameters appended by other tooling.
const componentFilter = `\.olova(\?.*)?$`

// setupComponentHandler registers all handlers for component files (.olova).
func setupComponentHandler(opts *Options, build *api.PluginBuild, c *compiler.Compiler) {
	// Register file resolve handler
	registerComponentResolveHandler(opts, build)

	// Register the compile-on-load handler
	registerComponentLoadHandler(opts, build, c)
}

// registerComponentResolveHandler registers the file resolution handler for
// component files. It applies tsconfig path aliases and converts relative
// paths to absolute ones, then runs the resolve processor chain.
func registerComponentResolveHandler(opts *Options, build *api.PluginBuild) {
	build.OnResolve(api.OnResolveOptions{Filter: componentFilter}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
		// Handle path aliases
		pathAlias, err := parseTsconfigPathAlias(build.InitialOptions)
		if err != nil {
			return api.OnResolveResult{}, err
		}
		args.Path = applyPathAlias(pathAlias, args.Path)

		// Strip any URL query parameters before touching the file system
		if pathUrl, err := url.Parse(args.Path); err == nil {
			args.Path = pathUrl.Path
		}

		// Handle relative paths
		if !filepath.IsAbs(args.Path) {
			args.Path = filepath.Clean(filepath.Join(args.ResolveDir, args.Path))
		}

		// Execute component resolve processor chain if any
		for _, processor := range opts.onComponentResolveProcessors {
			result, err := processor(&args, build.InitialOptions)
			if err != nil {
				return api.OnResolveResult{}, err
			}
			if result != nil {
				return *result, nil
			}
		}

		return api.OnResolveResult{
			Path:       args.Path,
			PluginData: args.PluginData,
		}, nil
	})
}

// registerComponentLoadHandler registers the handler that reads a component
// file and compiles it into its module code. The compiled module is handed to
// esbuild as plain JavaScript; child component imports inside it resolve
// recursively through the same plugin.
func registerComponentLoadHandler(opts *Options, build *api.PluginBuild, c *compiler.Compiler) {
	build.OnLoad(api.OnLoadOptions{Filter: componentFilter}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
		// 1. Read the source file content
		source, err := readComponentSource(args, opts, build)
		if err != nil {
			opts.logger.Error("Failed to read component file", "error", err, "file", args.Path)
			return api.OnLoadResult{}, err
		}

		// 2. Compile the component into its module code
		result, err := c.Compile(source, args.Path)
		if err != nil {
			opts.logger.Error("Failed to compile component", "error", err, "file", args.Path)
			return api.OnLoadResult{
				Errors: []api.Message{{
					Text: fmt.Sprintf("Component compilation failed: %v", err),
					Location: &api.Location{
						File: args.Path,
					},
				}},
			}, err
		}

		return api.OnLoadResult{
			Contents:   &result.Code,
			Loader:     api.LoaderJS,
			ResolveDir: filepath.Dir(args.Path),
		}, nil
	})
}

// readComponentSource reads and preprocesses the component source file.
// It also executes the component load processor chain if present.
func readComponentSource(args api.OnLoadArgs, opts *Options, build *api.PluginBuild) (string, error) {
	fbyte, err := os.ReadFile(args.Path)
	if err != nil {
		return "", err
	}

	source := string(fbyte)

	// Execute component load processor chain if any
	for _, processor := range opts.onComponentLoadProcessors {
		var processorErr error
		source, processorErr = processor(source, args, build.InitialOptions)
		if processorErr != nil {
			return "", processorErr
		}
	}

	return source, nil
}

// isProductionMode reads the production flag from esbuild's Define map.
// normalizeEsbuildOptions defaults it to true when the caller sets nothing.
func isProductionMode(buildOptions *api.BuildOptions) bool {
	if v, exists := parseImportMetaEnv(buildOptions.Define, "PROD"); exists {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return true
}
