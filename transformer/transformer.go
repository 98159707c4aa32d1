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

package transformer

import (
	"context"
	"net/http"

	"rivaas.dev/assets/resolver"
)

// URLResolver maps an internal asset path to its public request path
// (typically by consulting the owning resolver chain). Returns "" when
// the path does not resolve to a known asset.
type URLResolver func(ctx context.Context, resourcePath string) (string, error)

// Chain is the remainder of a transformer chain. Transformers delegate
// to it to continue with the downstream transformers.
type Chain interface {
	// Transform runs the rest of the chain on the resource.
	Transform(ctx context.Context, req *http.Request, res *resolver.Resource) (*resolver.Resource, error)

	// ResolveURL exposes the resolver chain's URL resolution so
	// transformers can rewrite embedded asset references.
	ResolveURL(ctx context.Context, resourcePath string) (string, error)
}

// Transformer is a single content rewriting step.
type Transformer interface {
	// Transform rewrites the resource or passes it through by calling
	// next with the resource unchanged.
	Transform(ctx context.Context, req *http.Request, res *resolver.Resource, next Chain) (*resolver.Resource, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, req *http.Request, res *resolver.Resource, next Chain) (*resolver.Resource, error)

// Transform implements Transformer.
func (f TransformerFunc) Transform(ctx context.Context, req *http.Request, res *resolver.Resource, next Chain) (*resolver.Resource, error) {
	return f(ctx, req, res, next)
}

// NewChain builds a transformer chain. The urls resolver backs
// Chain.ResolveURL; pass nil when no transformer needs URL rewriting.
// A chain that runs past its last transformer returns the resource
// as-is.
func NewChain(urls URLResolver, transformers ...Transformer) Chain {
	return chain{urls: urls, transformers: transformers}
}

type chain struct {
	urls         URLResolver
	transformers []Transformer
	pos          int
}

func (c chain) Transform(ctx context.Context, req *http.Request, res *resolver.Resource) (*resolver.Resource, error) {
	if c.pos >= len(c.transformers) {
		return res, nil
	}
	next := chain{urls: c.urls, transformers: c.transformers, pos: c.pos + 1}
	return c.transformers[c.pos].Transform(ctx, req, res, next)
}

func (c chain) ResolveURL(ctx context.Context, resourcePath string) (string, error) {
	if c.urls == nil {
		return "", nil
	}
	return c.urls(ctx, resourcePath)
}
