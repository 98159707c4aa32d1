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
	"bytes"
	"context"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"rivaas.dev/assets/resolver"
	"rivaas.dev/assets/transformer"
)

// Handler returns the http.Handler serving this registration. The
// handler is built on first call and reused; build it (or call Mount)
// before serving concurrency begins.
//
// The handler resolves the request path through the registration's
// resolver chain, applies its transformers, and serves the result with
// http.ServeContent, so range requests and conditional requests
// (If-Modified-Since) work as usual.
func (reg *Registration) Handler() http.Handler {
	if reg.handler == nil {
		reg.handler = reg.buildHandler()
	}
	return reg.handler
}

func (reg *Registration) buildHandler() http.Handler {
	resolvers := reg.resolvers
	if reg.chainCache {
		resolvers = append([]resolver.Resolver{resolver.NewCachingResolver()}, resolvers...)
	}
	resolvers = append(append([]resolver.Resolver(nil), resolvers...), resolver.NewPathResolver())
	rchain := resolver.NewChain(resolvers...)

	urls := func(ctx context.Context, resourcePath string) (string, error) {
		return rchain.ResolveURL(ctx, resourcePath, reg.locations)
	}
	tchain := transformer.NewChain(urls, reg.transformers...)

	negotiates := false
	for _, r := range resolvers {
		if _, ok := r.(*resolver.EncodedResolver); ok {
			negotiates = true
		}
	}

	prefix := strings.TrimSuffix(reg.pattern, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		rel := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")

		res, err := rchain.Resolve(ctx, r, rel, reg.locations)
		if err == nil && res != nil {
			res, err = tchain.Transform(ctx, r, res)
		}
		switch {
		case err != nil:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			reg.metrics.record(ctx, reg.pattern, outcomeError, time.Since(start))
			return
		case res == nil:
			http.NotFound(w, r)
			reg.metrics.record(ctx, reg.pattern, outcomeNotFound, time.Since(start))
			return
		}

		data, err := res.Content()
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			reg.metrics.record(ctx, reg.pattern, outcomeError, time.Since(start))
			return
		}

		header := w.Header()
		if reg.cacheControl != nil {
			if v := reg.cacheControl.Header(); v != "" {
				header.Set("Cache-Control", v)
			}
		}
		if negotiates {
			header.Add("Vary", "Accept-Encoding")
		}

		// Content type comes from the requested name, not the resolved
		// file: an encoded sibling like app.css.gz must still be served
		// as text/css.
		ctype := mime.TypeByExtension(path.Ext(rel))
		if res.Encoding != "" {
			header.Set("Content-Encoding", res.Encoding)
			if ctype == "" {
				ctype = "application/octet-stream"
			}
		}
		if ctype != "" {
			header.Set("Content-Type", ctype)
		}

		http.ServeContent(w, r, "", res.ModTime(), bytes.NewReader(data))
		reg.metrics.record(ctx, reg.pattern, outcomeOK, time.Since(start))
	})
}
