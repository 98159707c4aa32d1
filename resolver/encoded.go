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
	"io/fs"
	"net/http"
	"strconv"
	"strings"
)

// encodingExtensions maps content codings to the sibling file extension
// produced at build time (see assets.Precompress).
var encodingExtensions = map[string]string{
	"br":   ".br",
	"gzip": ".gz",
}

// EncodedResolver serves precompressed sibling files based on the
// request's Accept-Encoding header. It never compresses anything itself;
// siblings are produced ahead of time (e.g. by assets.Precompress) and
// served verbatim with the matching Content-Encoding.
//
// Codings are tried in preference order; the default prefers brotli over
// gzip since every brotli-capable client also accepts gzip.
type EncodedResolver struct {
	codings []string
}

// NewEncodedResolver returns a resolver trying the given codings in
// order. With no arguments the default order is "br", "gzip".
func NewEncodedResolver(codings ...string) *EncodedResolver {
	if len(codings) == 0 {
		codings = []string{"br", "gzip"}
	}
	return &EncodedResolver{codings: codings}
}

// Resolve implements Resolver. The identity asset is resolved first;
// the sibling lookup then happens in the same location, so a compressed
// variant can never shadow an asset from an earlier location. The
// returned resource keeps an identity reference so downstream consumers
// (content version verification, in particular) see the original bytes.
func (e *EncodedResolver) Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location, next Chain) (*Resource, error) {
	res, err := next.Resolve(ctx, req, requestPath, locations)
	if err != nil || res == nil || req == nil {
		return res, err
	}
	accepted := acceptedEncodings(req.Header.Get("Accept-Encoding"))
	for _, coding := range e.codings {
		ext, known := encodingExtensions[coding]
		if !known || !accepted.accepts(coding) {
			continue
		}
		info, err := fs.Stat(res.Location.FS, res.Path+ext)
		if err != nil || info.IsDir() {
			continue
		}
		encoded := NewResource(res.Location, res.Path+ext, info.ModTime())
		encoded.Encoding = coding
		encoded.identity = res
		return encoded, nil
	}
	return res, nil
}

// ResolveURL implements Resolver. Content negotiation does not change
// public paths.
func (e *EncodedResolver) ResolveURL(ctx context.Context, resourcePath string, locations []Location, next Chain) (string, error) {
	return next.ResolveURL(ctx, resourcePath, locations)
}

// encodingSet holds parsed Accept-Encoding values with their q-weights.
type encodingSet map[string]float64

// accepts reports whether the coding is acceptable: explicitly listed
// with q > 0, or covered by a "*" entry with q > 0.
func (s encodingSet) accepts(coding string) bool {
	if q, ok := s[coding]; ok {
		return q > 0
	}
	if q, ok := s["*"]; ok {
		return q > 0
	}
	return false
}

// acceptedEncodings parses an Accept-Encoding header value. Unparsable
// q-weights fall back to 1, matching lenient browser behavior.
func acceptedEncodings(header string) encodingSet {
	set := make(encodingSet)
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		q := 1.0
		if params != "" {
			for _, param := range strings.Split(params, ";") {
				key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
				if !ok || strings.TrimSpace(key) != "q" {
					continue
				}
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
					q = parsed
				}
			}
		}
		set[name] = q
	}
	return set
}
