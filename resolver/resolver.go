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

package resolver

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"
)

// Location is a named filesystem root that assets are served from.
// Locations are ordered: when several locations contain the same path,
// the first one wins.
type Location struct {
	// Name identifies the location in logs and errors (e.g. "public").
	Name string

	// FS is the filesystem rooted at the location. Any fs.FS works,
	// including os.DirFS directories and embed.FS trees.
	FS fs.FS
}

// Resource is a resolved static asset.
//
// A Resource returned by a chain is immutable: Content either returns a
// snapshot taken at resolution time or reads the backing file on each
// call. Transformers produce new resources via WithContent rather than
// mutating existing ones, so resources are safe to share across requests.
type Resource struct {
	// Path is the slash-separated path of the asset within its location.
	Path string

	// Location is the location the asset was resolved from.
	Location Location

	// Encoding is the content coding of the stored bytes ("gzip", "br").
	// Empty for identity. Set by EncodedResolver when a precompressed
	// sibling is served.
	Encoding string

	data     []byte
	hasData  bool
	modTime  time.Time
	identity *Resource
}

// Identity returns the uncompressed asset an encoded resource was
// derived from, or nil for identity resources. Version verification
// always runs against identity content.
func (r *Resource) Identity() *Resource {
	return r.identity
}

// NewResource returns a resource backed by the given location. The
// content is read from the location on demand.
func NewResource(loc Location, path string, modTime time.Time) *Resource {
	return &Resource{Path: path, Location: loc, modTime: modTime}
}

// WithContent returns a copy of the resource carrying the given bytes
// instead of the location-backed content. Used by transformers.
func (r *Resource) WithContent(data []byte) *Resource {
	c := *r
	c.data = data
	c.hasData = true
	return &c
}

// Content returns the asset bytes. When the resource carries transformed
// or snapshotted content, that content is returned; otherwise the backing
// file is read.
func (r *Resource) Content() ([]byte, error) {
	if r.hasData {
		return r.data, nil
	}
	data, err := fs.ReadFile(r.Location.FS, r.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s from location %q: %w", r.Path, r.Location.Name, err)
	}
	return data, nil
}

// ModTime returns the modification time recorded at resolution, or the
// zero time when the location does not report one.
func (r *Resource) ModTime() time.Time {
	return r.modTime
}

// Chain is the remainder of a resolver chain. Resolvers delegate to it
// to continue resolution with the downstream resolvers.
type Chain interface {
	// Resolve maps a request path (relative to the handler pattern, no
	// leading slash required) to a resource. Returns (nil, nil) when no
	// downstream resolver can locate the asset. The request may be nil
	// for internal lookups such as URL resolution.
	Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location) (*Resource, error)

	// ResolveURL maps an internal resource path to the public path a
	// client should use to request it (e.g. with a version token
	// embedded). Returns "" when the path does not resolve.
	ResolveURL(ctx context.Context, resourcePath string, locations []Location) (string, error)
}

// Resolver is a single step in a resolution chain.
type Resolver interface {
	// Resolve attempts to resolve the request path. Implementations
	// either handle the path (possibly rewriting it) and delegate to
	// next, or fall through by calling next with the path unchanged.
	Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location, next Chain) (*Resource, error)

	// ResolveURL is the inverse direction: given an internal resource
	// path, produce the public request path.
	ResolveURL(ctx context.Context, resourcePath string, locations []Location, next Chain) (string, error)
}

// NewChain builds a chain from the given resolvers, invoked in order.
// Callers normally append [PathResolver] as the terminal element; a
// chain that runs past its last resolver reports not found.
func NewChain(resolvers ...Resolver) Chain {
	return chain{resolvers: resolvers}
}

type chain struct {
	resolvers []Resolver
	pos       int
}

func (c chain) Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location) (*Resource, error) {
	if c.pos >= len(c.resolvers) {
		return nil, nil
	}
	next := chain{resolvers: c.resolvers, pos: c.pos + 1}
	return c.resolvers[c.pos].Resolve(ctx, req, requestPath, locations, next)
}

func (c chain) ResolveURL(ctx context.Context, resourcePath string, locations []Location) (string, error) {
	if c.pos >= len(c.resolvers) {
		return "", nil
	}
	next := chain{resolvers: c.resolvers, pos: c.pos + 1}
	return c.resolvers[c.pos].ResolveURL(ctx, resourcePath, locations, next)
}
