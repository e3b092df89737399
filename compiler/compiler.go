// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

// Package compiler turns Olova single-file components into standalone ES
// modules. A component file mixes a template, a script, and a style section;
// the compiled module default-exports a mount function that renders the
// component tree into a DOM target and returns a teardown callback.
//
// Compilation is a pure, synchronous text transformation: the package does no
// I/O and holds no global state. Cross-file state (style aggregation, the
// compile cache) lives in a Session owned by the host build.
package compiler

import (
	"log/slog"
	"strings"
)

// Compiler compiles component sources within one Session.
type Compiler struct {
	session *Session
	logger  *slog.Logger
	isProd  bool
}

// Result is the output of compiling one component source: the module code and
// an optional source map (nil when no map is produced).
type Result struct {
	Code string
	Map  []byte
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for compile-time diagnostics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithProductionMode switches between production output, where styles are
// aggregated into the combined stylesheet asset, and development output,
// where each compiled module injects its own style element at runtime.
func WithProductionMode(isProd bool) Option {
	return func(c *Compiler) {
		c.isProd = isProd
	}
}

// New creates a Compiler bound to the given session.
func New(session *Session, optsFunc ...Option) *Compiler {
	c := &Compiler{
		session: session,
		logger:  slog.Default(),
	}
	for _, fn := range optsFunc {
		fn(c)
	}
	if c.session == nil {
		c.session = NewSession(c.logger)
	}
	return c
}

// Session returns the session this compiler contributes to.
func (c *Compiler) Session() *Session {
	return c.session
}

// Compile transforms one component source into its module code. The path is
// the file's identity: the component name and scope token are derived from it
// deterministically, so recompiling an unchanged file yields identical output.
//
// Missing script or style sections are not errors and yield empty content.
// Unchanged sources hit the session's compile cache.
func (c *Compiler) Compile(source, path string) (*Result, error) {
	source = strings.ReplaceAll(source, "\r\n", "\n")

	hash := sourceHash(source)
	if entry, ok := c.session.cached(path, hash); ok {
		c.session.AddStyle(entry.name, entry.css)
		c.logger.Debug("compile cache hit", "file", path, "session", c.session.ID())
		return entry.result, nil
	}

	sections := ExtractSections(source)
	imports := ResolveImports(sections.Script)

	name := ComponentName(path)
	token := ScopeToken(path)

	markup := RewriteTemplate(sections.Template, imports)

	css := sections.Style.Source
	if sections.Style.Scoped {
		css = ScopeCSS(css, token)
	}
	if strings.TrimSpace(css) != "" {
		c.session.AddStyle(name, css)
	} else {
		css = ""
	}

	script := CleanScript(sections.Script)
	if script != strings.TrimSpace(stripComponentImports(sections.Script)) {
		c.logger.Debug("elided prop-setup idiom from script", "file", path, "component", name)
	}

	style := css
	if c.isProd {
		// Production styles reach the page through the aggregated
		// stylesheet; the module injects nothing.
		style = ""
	}

	code, err := emitModule(emitData{
		Name:     name,
		Token:    token,
		Scoped:   sections.Style.Scoped,
		Style:    style,
		Template: markup,
		Script:   script,
		Imports:  imports,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Code: code}
	c.session.store(path, cacheEntry{hash: hash, result: result, name: name, css: css})
	return result, nil
}
