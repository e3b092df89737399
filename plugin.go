// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package olovaplugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/seraprogrammer/olova-builder/compiler"
)

// NewPlugin creates a new esbuild plugin for Olova single-file components.
// It accepts a list of OptionFunc to customize plugin behavior such as:
// - HTML entry document processing
// - Custom processor chains for various build phases
// - Logging
//
// The plugin compiles every .olova file into a mountable ES module, serves
// the 'olova' mounting runtime as a virtual module, aggregates component
// styles into one combined stylesheet asset per build, and can inject the
// built assets into an HTML entry document.
//
// Example usage:
//
//	plugin := NewPlugin(
//	  WithIndexHtmlOptions(IndexHtmlOptions{
//	    SourceFile: "src/index.html",
//	    OutFile:    "dist/index.html",
//	  }),
//	)
func NewPlugin(optsFunc ...OptionFunc) api.Plugin {
	// Initialize default options
	opts := newOptions()

	// Apply all provided option functions to configure the plugin
	for _, fn := range optsFunc {
		fn(opts)
	}

	// The session carries cross-file build state: style aggregation and the
	// compile cache. It lives as long as the plugin instance, so incremental
	// rebuilds share the cache while each build re-aggregates styles.
	session := compiler.NewSession(opts.logger)

	return api.Plugin{
		Name: opts.name, // Plugin name for identification in esbuild logs
		Setup: func(build api.PluginBuild) {
			// Step 1: Normalize and validate esbuild options for compatibility
			normalizeEsbuildOptions(build.InitialOptions)

			isProd := isProductionMode(build.InitialOptions)
			c := compiler.New(session,
				compiler.WithLogger(opts.logger),
				compiler.WithProductionMode(isProd),
			)

			// Step 2: Register start processor chain - executed before build starts.
			// The session is reset here so every build re-aggregates styles from scratch.
			build.OnStart(func() (api.OnStartResult, error) {
				session.Reset()
				// Execute all registered start processors in sequence
				for _, processor := range opts.onStartProcessors {
					if err := processor(build.InitialOptions); err != nil {
						opts.logger.Error("Start processor failed", "error", err)
						return api.OnStartResult{}, err
					}
				}
				return api.OnStartResult{}, nil
			})

			// Step 3: Register all file type handlers
			setupComponentHandler(opts, &build, c) // Compile .olova single-file components
			setupRuntimeHandler(&build)            // Serve the 'olova' mounting runtime
			setupHtmlHandler(opts, &build, session, isProd)

			// Step 4: Register end processor chain - executed after all processing is done.
			// The aggregated stylesheet is flushed first so end processors see it.
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if err := flushStylesheet(result, build.InitialOptions, session, opts); err != nil {
					opts.logger.Error("Failed to emit combined stylesheet", "error", err)
					return api.OnEndResult{}, err
				}
				// Execute all registered end processors with build results
				for _, processor := range opts.onEndProcessors {
					if err := processor(result, build.InitialOptions); err != nil {
						opts.logger.Error("End processor failed", "error", err)
						return api.OnEndResult{}, err
					}
				}
				return api.OnEndResult{}, nil
			})

			// Step 5: Register dispose processor chain - cleanup after build completion
			build.OnDispose(func() {
				for _, processor := range opts.onDisposeProcessors {
					// Note: Dispose processors don't return errors as cleanup should be best-effort
					processor(build.InitialOptions)
				}
			})
		},
	}
}

// flushStylesheet emits the combined stylesheet asset at its fixed path in the
// build output. With Write enabled the file is written to the output
// directory; otherwise it is appended to the in-memory output files. Builds
// where no component contributed styles emit nothing.
func flushStylesheet(result *api.BuildResult, buildOptions *api.BuildOptions, session *compiler.Session, opts *Options) error {
	if len(result.Errors) > 0 || !session.HasStyles() {
		return nil
	}

	css := session.Stylesheet()
	outPath := filepath.Join(stylesheetDir(buildOptions), compiler.StylesheetName)

	if buildOptions.Write {
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("failed to create stylesheet output dir: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(css), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
	} else {
		result.OutputFiles = append(result.OutputFiles, api.OutputFile{
			Path:     outPath,
			Contents: []byte(css),
		})
	}

	opts.logger.Debug("emitted combined stylesheet",
		"path", outPath, "session", session.ID())
	return nil
}

// stylesheetDir is the directory the combined stylesheet asset lands in.
func stylesheetDir(buildOptions *api.BuildOptions) string {
	if buildOptions.Outdir != "" {
		return buildOptions.Outdir
	}
	if buildOptions.Outfile != "" {
		return filepath.Dir(buildOptions.Outfile)
	}
	return "."
}
