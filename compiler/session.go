// Copyright 2025 The Olova Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/xid"
)

// StylesheetName is the fixed relative path of the combined stylesheet asset
// within the build output directory.
const StylesheetName = "olova-styles.css"

// Session holds the state of one compilation run: the aggregated per-component
// stylesheets and a content-hash cache of compiled results. A session is owned
// by a single build; Reset is called when the host signals a new build start.
//
// esbuild may invoke load callbacks from multiple goroutines, so all session
// state is guarded by a mutex even though each compile itself is pure.
type Session struct {
	id     string
	logger *slog.Logger

	mu     sync.Mutex
	order  []string          // component names in first-insertion order
	styles map[string]string // component name -> processed CSS
	cache  map[string]cacheEntry
}

// cacheEntry remembers the compiled output of a source file keyed by its
// content hash, so unchanged files re-served by a watching host are not
// recompiled. The component name and processed CSS ride along so a cache hit
// can repopulate the aggregation map of the current build.
type cacheEntry struct {
	hash   uint64
	result *Result
	name   string
	css    string
}

// NewSession creates an empty compilation session.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:     xid.New().String(),
		logger: logger,
		styles: make(map[string]string),
		cache:  make(map[string]cacheEntry),
	}
}

// ID returns the session identifier, used to correlate log lines of one build.
func (s *Session) ID() string {
	return s.id
}

// Reset clears the aggregated styles for a fresh build. The compile cache
// survives across resets so a watching host recompiles only changed files;
// cache hits re-contribute their styles to the new build's aggregation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.styles = make(map[string]string)
}

// AddStyle records a component's processed CSS for aggregation. Two files
// whose base names resolve to the same component name collide; the later
// compile wins and the collision is logged rather than failing the build.
func (s *Session) AddStyle(name, css string) {
	if css == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.styles[name]; exists {
		s.logger.Warn("duplicate component name in style aggregation, overwriting",
			"component", name, "session", s.id)
	} else {
		s.order = append(s.order, name)
	}
	s.styles[name] = css
}

// HasStyles reports whether any component contributed CSS in this build.
func (s *Session) HasStyles() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) > 0
}

// Stylesheet flushes the aggregated CSS as one combined stylesheet, with each
// component's block labeled by a comment, in insertion order. It returns the
// empty string when no component contributed styles.
func (s *Session) Stylesheet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return ""
	}
	var out strings.Builder
	for _, name := range s.order {
		out.WriteString("/* ")
		out.WriteString(name)
		out.WriteString(" Component Styles */\n\n")
		out.WriteString(s.styles[name])
		out.WriteString("\n\n\n\n")
	}
	return out.String()
}

// sourceHash fingerprints file content for the compile cache.
func sourceHash(source string) uint64 {
	return xxhash.Sum64String(source)
}

// cached returns the cache entry for path if the source is unchanged.
func (s *Session) cached(path string, hash uint64) (cacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.cache[path]; ok && entry.hash == hash {
		return entry, true
	}
	return cacheEntry{}, false
}

// store remembers a compiled result for path.
func (s *Session) store(path string, entry cacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[path] = entry
}
