// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assets

import (
	"net/http"
	"strings"

	"rivaas.dev/assets/resolver"
	"rivaas.dev/assets/transformer"
)

// Registry collects resource handler registrations and exposes them as
// HTTP handlers. At most one registration exists per normalized pattern;
// the first registration wins.
//
// Registries are populated once during startup wiring and are read-only
// while serving. Registration is not safe for concurrent use.
type Registry struct {
	registrations []*Registration
	patterns      map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{patterns: make(map[string]struct{})}
}

// AddResourceHandler registers a handler for the given URL pattern and
// returns its registration for further configuration. Patterns are
// normalized to a leading "/" and a trailing "/*" wildcard, so
// "assets", "/assets/" and "/assets/*" all address the same mapping.
//
// Adding a pattern that already exists returns the existing
// registration unchanged: the first registration wins. Use
// HasMappingForPattern to detect the collision beforehand.
func (r *Registry) AddResourceHandler(pattern string) *Registration {
	pattern = normalizePattern(pattern)
	if _, ok := r.patterns[pattern]; ok {
		for _, reg := range r.registrations {
			if reg.pattern == pattern {
				return reg
			}
		}
	}
	reg := &Registration{pattern: pattern}
	r.patterns[pattern] = struct{}{}
	r.registrations = append(r.registrations, reg)
	return reg
}

// HasMappingForPattern reports whether the pattern (after normalization)
// is already registered.
func (r *Registry) HasMappingForPattern(pattern string) bool {
	_, ok := r.patterns[normalizePattern(pattern)]
	return ok
}

// Registrations returns the registrations in registration order.
func (r *Registry) Registrations() []*Registration {
	return r.registrations
}

// Mount registers every registration on the mux, for both GET and HEAD
// per HTTP/1.1 requirements (RFC 7231). A registration with pattern
// "/assets/*" is mounted at "/assets/".
func (r *Registry) Mount(mux *http.ServeMux) {
	for _, reg := range r.registrations {
		h := reg.Handler()
		mux.Handle("GET "+reg.muxPattern(), h)
		mux.Handle("HEAD "+reg.muxPattern(), h)
	}
}

// Handler returns an http.Handler serving all registrations.
func (r *Registry) Handler() http.Handler {
	mux := http.NewServeMux()
	r.Mount(mux)
	return mux
}

// normalizePattern ensures a leading "/" and a trailing "/*" wildcard.
func normalizePattern(pattern string) string {
	if pattern == "" || pattern[0] != '/' {
		pattern = "/" + pattern
	}
	if !strings.HasSuffix(pattern, "/*") {
		if strings.HasSuffix(pattern, "/") {
			pattern += "*"
		} else {
			pattern += "/*"
		}
	}
	return pattern
}

// Registration maps a URL pattern to an ordered list of asset locations,
// with an optional cache policy and resolver/transformer chain.
//
// Registrations are configured during startup wiring and must not be
// modified once serving begins.
type Registration struct {
	pattern      string
	locations    []resolver.Location
	cacheControl *CacheControl
	resolvers    []resolver.Resolver
	transformers []transformer.Transformer
	chainCache   bool
	metrics      *chainMetrics

	handler http.Handler
}

// Pattern returns the normalized URL pattern.
func (reg *Registration) Pattern() string {
	return reg.pattern
}

// AddLocations appends asset locations, probed in order.
func (reg *Registration) AddLocations(locations ...resolver.Location) *Registration {
	reg.locations = append(reg.locations, locations...)
	return reg
}

// Locations returns the configured locations in fallback order.
func (reg *Registration) Locations() []resolver.Location {
	return reg.locations
}

// SetCacheControl attaches a Cache-Control policy to every response
// served by this registration.
func (reg *Registration) SetCacheControl(cc *CacheControl) *Registration {
	reg.cacheControl = cc
	return reg
}

// CacheControl returns the attached policy, or nil.
func (reg *Registration) CacheControl() *CacheControl {
	return reg.cacheControl
}

// ResourceChain starts chain configuration for the registration. When
// cache is true, resolved assets are memoized in memory.
func (reg *Registration) ResourceChain(cache bool) *ChainRegistration {
	reg.chainCache = cache
	return &ChainRegistration{reg: reg}
}

// Resolvers returns the configured resolvers in chain order, without
// the implicit terminal path resolver.
func (reg *Registration) Resolvers() []resolver.Resolver {
	return reg.resolvers
}

// Transformers returns the configured transformers in chain order.
func (reg *Registration) Transformers() []transformer.Transformer {
	return reg.transformers
}

// ChainRegistration configures the resolver/transformer chain of a
// registration. Order of Add calls is significant: resolvers and
// transformers run in the order they were added.
type ChainRegistration struct {
	reg *Registration
}

// AddResolver appends a resolver to the chain.
func (c *ChainRegistration) AddResolver(res resolver.Resolver) *ChainRegistration {
	c.reg.resolvers = append(c.reg.resolvers, res)
	return c
}

// AddTransformer appends a transformer to the chain.
func (c *ChainRegistration) AddTransformer(t transformer.Transformer) *ChainRegistration {
	c.reg.transformers = append(c.reg.transformers, t)
	return c
}

// muxPattern converts the wildcard pattern to an http.ServeMux subtree
// pattern ("/assets/*" -> "/assets/").
func (reg *Registration) muxPattern() string {
	return strings.TrimSuffix(reg.pattern, "*")
}
