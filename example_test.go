// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package olovaplugin_test

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	olovaplugin "github.com/seraprogrammer/olova-builder"
)

// Example demonstrates how to use the Olova plugin with esbuild.
// This function shows the typical workflow: configure the plugin and run a build.
func Example() {
	// 1. Create an Olova plugin, optionally finalizing an HTML entry document.
	plugin := olovaplugin.NewPlugin(
		olovaplugin.WithIndexHtmlOptions(olovaplugin.IndexHtmlOptions{
			SourceFile:      "example/olova-example/index.html",
			OutFile:         "example/dist/index.html",
			RemoveTagXPaths: []string{"//script[@src='/src/main.js']"},
		}),
		olovaplugin.WithOnEndProcessor(olovaplugin.SimpleCopy(map[string]string{
			"example/olova-example/public/favicon.ico": "example/dist/favicon.ico",
		})),
	)

	// 2. Build the application using esbuild with the Olova plugin.
	buildResult := api.Build(api.BuildOptions{
		EntryPoints: []string{"example/olova-example/src/main.js"},
		Loader: map[string]api.Loader{
			".png": api.LoaderFile,
			".svg": api.LoaderFile,
		},
		Target:            api.ES2020,
		Platform:          api.PlatformBrowser,
		Format:            api.FormatESModule,
		Bundle:            true,
		Outdir:            "example/dist/assets",
		Plugins:           []api.Plugin{plugin},
		Metafile:          true,
		Write:             true,
		EntryNames:        "[dir]/[name]-[hash]",
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})

	// 3. Print build result or errors.
	for _, err := range buildResult.Errors {
		fmt.Printf("Build error: %s\n", err.Text)
	}
}
