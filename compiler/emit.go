// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// emitData is the input of the module template below.
type emitData struct {
	Name     string
	Token    string
	Scoped   bool
	Style    string // style text for dev-mode injection, empty in production
	Template string
	Script   string
	Imports  []ImportRecord
}

// moduleTemplate assembles the compiled module. The emitted shape is:
//
//  1. one re-import per component import, resolved against the sibling file
//     (each sibling's compiled module default-exports its own mount function);
//  2. a factory named after the component that, outside production, injects
//     the component's style element once per component name per document,
//     then returns the mount function;
//  3. the mount function: builds the container, wires container-scoped query
//     helpers, assigns the rewritten template, splices in the cleaned script,
//     stamps the scope token on the container's direct children, attaches the
//     container, mounts each child component into its placeholders, and
//     returns the teardown;
//  4. a default export of the already-invoked factory, so importing the
//     module yields a ready-to-call mount function.
//
// CSS and markup are embedded as JSON string literals, which are valid
// JavaScript string expressions regardless of their content.
var moduleTemplate = template.Must(template.New("module").Funcs(template.FuncMap{
	"js": jsString,
}).Parse(`{{ range .Imports }}import {{ .LocalName }} from '{{ .Path }}';
{{ end }}
function {{ .Name }}() {
{{- if .Style }}
  if (typeof document !== 'undefined' && !document.querySelector('style[data-component={{ .Name | js }}]')) {
    const componentStyle = document.createElement('style');
    componentStyle.setAttribute('data-component', {{ .Name | js }});
    componentStyle.textContent = {{ .Style | js }};
    document.head.appendChild(componentStyle);
  }
{{- end }}
  return function (target) {
    const root = document.createElement('div');
    root.setAttribute('data-component', {{ .Name | js }});
{{- if .Scoped }}
    root.setAttribute({{ .Token | js }}, '');
{{- end }}
    const $ = (selector) => root.querySelector(selector);
    const $$ = (selector) => root.querySelectorAll(selector);
    const getElementById = (id) =>
      root.querySelector('[id="' + id + '"]') || document.getElementById(id);
    root.innerHTML = {{ .Template | js }};
{{- if .Script }}
    {{ .Script }}
{{- end }}
{{- if .Scoped }}
    for (const child of root.children) {
      child.setAttribute({{ .Token | js }}, '');
    }
{{- end }}
    target.appendChild(root);
{{- range .Imports }}
    root.querySelectorAll('[data-component={{ .LocalName | js }}]').forEach((placeholder) => {
      {{ .LocalName }}(placeholder);
    });
{{- end }}
    return function () {
      if (root.parentNode === target) {
        target.removeChild(root);
      }
    };
  };
}

export default {{ .Name }}();
`))

// jsString renders s as a JavaScript string literal. Encoding goes through a
// json.Encoder with HTML escaping off so markup embedded in the literal stays
// readable instead of turning into < escapes.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimRight(buf.String(), "\n")
}

// emitModule renders the final module code for one compiled component.
func emitModule(data emitData) (string, error) {
	var buf bytes.Buffer
	if err := moduleTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to emit module for %s: %w", data.Name, err)
	}
	return buf.String(), nil
}
