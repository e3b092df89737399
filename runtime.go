// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package olovaplugin

import (
	"github.com/evanw/esbuild/pkg/api"
)

// runtimeModuleName is the bare import specifier that resolves to the
// embedded mounting runtime: `import { mount } from 'olova'`.
const runtimeModuleName = "olova"

// runtimeNamespace isolates the virtual runtime module from the file system.
const runtimeNamespace = "olova-runtime"

// runtimeSource is the mounting runtime bundled into applications that import
// it. A compiled component module default-exports a `(target) => teardown`
// mount function; mount looks up the target node by selector, clears it, and
// hands it to the factory. A missing target is reported and yields a no-op
// teardown instead of a crash.
const runtimeSource = `export function mount(factory, selector, props) {
  const target = document.querySelector(selector);
  if (!target) {
    console.error('[olova] mount target not found: ' + selector);
    return function () {};
  }
  target.innerHTML = '';
  return factory(target, props);
}

export function unmount(teardown) {
  if (typeof teardown === 'function') {
    teardown();
  }
}
`

// setupRuntimeHandler serves the 'olova' import from the embedded runtime
// source instead of the file system.
func setupRuntimeHandler(build *api.PluginBuild) {
	build.OnResolve(api.OnResolveOptions{Filter: `^` + runtimeModuleName + `$`}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
		return api.OnResolveResult{
			Path:      args.Path,
			Namespace: runtimeNamespace,
		}, nil
	})

	build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: runtimeNamespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
		contents := runtimeSource
		return api.OnLoadResult{
			Contents: &contents,
			Loader:   api.LoaderJS,
		}, nil
	})
}
