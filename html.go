// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package olovaplugin

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/evanw/esbuild/pkg/api"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/seraprogrammer/olova-builder/compiler"
)

// HtmlProcessorOptions holds builder functions for script and CSS tag attributes.
type HtmlProcessorOptions struct {
	ScriptAttrBuilder func(filename string, htmlSourceFile string) []html.Attribute // JS script tag attribute builder
	CssAttrBuilder    func(filename string, htmlSourceFile string) []html.Attribute // CSS link tag attribute builder
}

// NewHtmlProcessor returns an IndexHtmlProcessor that injects JS and CSS tags and removes specified nodes.
func NewHtmlProcessor(htmlProcessorOptions HtmlProcessorOptions) IndexHtmlProcessor {
	return func(doc *html.Node, result *api.BuildResult, opts *Options, build *api.PluginBuild) error {
		if htmlProcessorOptions.ScriptAttrBuilder == nil {
			// Default JS script tag attribute builder
			htmlProcessorOptions.ScriptAttrBuilder = func(filename string, htmlFile string) []html.Attribute {
				// Compute relative path between filename and htmlSourceFile
				relPath, _ := filepath.Rel(filepath.Dir(htmlFile), filename)
				if relPath != "" {
					filename = filepath.ToSlash(relPath) // Ensure forward slashes for web compatibility
				}
				return []html.Attribute{
					{Key: "crossorigin", Val: ""},
					{Key: "type", Val: "module"},
					{Key: "src", Val: filename},
				}
			}
		}

		if htmlProcessorOptions.CssAttrBuilder == nil {
			// Default CSS link tag attribute builder
			htmlProcessorOptions.CssAttrBuilder = func(filename string, htmlFile string) []html.Attribute {
				relPath, _ := filepath.Rel(filepath.Dir(htmlFile), filename)
				if relPath != "" {
					filename = filepath.ToSlash(relPath) // Ensure forward slashes for web compatibility
				}
				return []html.Attribute{
					{Key: "crossorigin", Val: ""},
					{Key: "rel", Val: "stylesheet"},
					{Key: "href", Val: filename},
				}
			}
		}

		htmlFile, _ := filepath.Abs(opts.indexHtmlOptions.OutFile)

		// Find <head> tag in the HTML document
		headNode := htmlquery.FindOne(doc, "//head")
		if headNode == nil {
			return fmt.Errorf("no <head> element in %s", opts.indexHtmlOptions.SourceFile)
		}

		// Process all output files
		for _, outputFile := range result.OutputFiles {
			// Normalize output file path
			outputFile, _ := filepath.Abs(outputFile.Path)

			// Only include files generated from entry points
			shouldInclude := false
			for _, entryPoint := range build.InitialOptions.EntryPoints {
				entry := filepath.Base(entryPoint)
				entryPointPrefix := strings.TrimSuffix(entry, filepath.Ext(entry))
				if strings.HasPrefix(filepath.Base(outputFile), entryPointPrefix) {
					shouldInclude = true
					break // Found a match, no need to check other entry points
				}
			}
			if !shouldInclude {
				continue // Skip files not generated from entry points
			}

			// Add tags based on file extension
			switch filepath.Ext(outputFile) {
			case ".js":
				// Add JavaScript file
				scriptNode := &html.Node{
					Type: html.ElementNode,
					Data: "script",
					Attr: htmlProcessorOptions.ScriptAttrBuilder(outputFile, htmlFile),
				}
				headNode.AppendChild(scriptNode)
				newline := &html.Node{
					Type: html.TextNode,
					Data: "\n",
				}
				headNode.AppendChild(newline)
			case ".css":
				// Add CSS file
				linkNode := &html.Node{
					Type: html.ElementNode,
					Data: "link",
					Attr: htmlProcessorOptions.CssAttrBuilder(outputFile, htmlFile),
				}
				headNode.AppendChild(linkNode)
				newline := &html.Node{
					Type: html.TextNode,
					Data: "\n",
				}
				headNode.AppendChild(newline)
			}
		}

		// Remove specified HTML nodes by XPath
		for _, xpath := range opts.indexHtmlOptions.RemoveTagXPaths {
			nodes := htmlquery.Find(doc, xpath)
			for _, node := range nodes {
				if node.Parent != nil {
					node.Parent.RemoveChild(node)
				}
			}
		}

		return nil
	}
}

// setupHtmlHandler registers the HTML entry document finalization step.
// It parses the source HTML, runs the processor chain, injects the combined
// stylesheet link in production builds, and writes the output document.
func setupHtmlHandler(opts *Options, build *api.PluginBuild, session *compiler.Session, isProd bool) {
	build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
		// Skip when no HTML processing was requested or nothing is written to disk
		if opts.indexHtmlOptions.SourceFile == "" || !build.InitialOptions.Write {
			return api.OnEndResult{}, nil
		}
		if result.Metafile == "" {
			return api.OnEndResult{}, fmt.Errorf("metafile is nil")
		}
		if opts.indexHtmlOptions.OutFile == "" {
			return api.OnEndResult{}, fmt.Errorf("outFile is nil")
		}

		if len(opts.indexHtmlOptions.IndexHtmlProcessors) == 0 {
			// Fall back to the default HTML processor when none are configured
			opts.indexHtmlOptions.IndexHtmlProcessors = []IndexHtmlProcessor{
				NewHtmlProcessor(HtmlProcessorOptions{}),
			}
		}

		// Read and parse the source HTML document
		sourceFile, err := os.Open(opts.indexHtmlOptions.SourceFile)
		if err != nil {
			return api.OnEndResult{}, fmt.Errorf("failed to open source file: %v", err)
		}
		defer sourceFile.Close()

		utf8Reader, err := detectAndConvertToUTF8(sourceFile)
		if err != nil {
			return api.OnEndResult{}, fmt.Errorf("failed to convert source file to UTF-8: %v", err)
		}

		doc, _ := htmlquery.Parse(utf8Reader)

		// Execute the HTML processor chain
		for _, processor := range opts.indexHtmlOptions.IndexHtmlProcessors {
			if err := processor(doc, result, opts, build); err != nil {
				return api.OnEndResult{}, err
			}
		}

		// In production the aggregated component styles live in the combined
		// stylesheet asset; link it as the last child of <head>.
		if isProd && session.HasStyles() {
			cssPath := filepath.Join(stylesheetDir(build.InitialOptions), compiler.StylesheetName)
			href, err := filepath.Rel(filepath.Dir(opts.indexHtmlOptions.OutFile), cssPath)
			if err != nil || strings.HasPrefix(href, "..") {
				href = compiler.StylesheetName
			}
			if err := injectStylesheetLink(doc, filepath.ToSlash(href)); err != nil {
				return api.OnEndResult{}, err
			}
		}

		// Render and save the finalized HTML document
		var buf bytes.Buffer
		err = html.Render(&buf, doc)
		if err != nil {
			return api.OnEndResult{}, err
		}

		err = os.WriteFile(opts.indexHtmlOptions.OutFile, buf.Bytes(), 0644)
		if err != nil {
			return api.OnEndResult{}, err
		}

		return api.OnEndResult{}, nil
	})
}

// injectStylesheetLink appends a stylesheet link referencing the combined
// component stylesheet immediately before the document head closes.
func injectStylesheetLink(doc *html.Node, href string) error {
	headNode := htmlquery.FindOne(doc, "//head")
	if headNode == nil {
		return fmt.Errorf("no <head> element to inject stylesheet link into")
	}
	headNode.AppendChild(&html.Node{
		Type: html.ElementNode,
		Data: "link",
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	})
	headNode.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: "\n",
	})
	return nil
}

func detectAndConvertToUTF8(r io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	encoding, _, _ := charset.DetermineEncoding(b, "")

	utf8Reader := transform.NewReader(bytes.NewReader(b), encoding.NewDecoder())
	return utf8Reader, nil
}
