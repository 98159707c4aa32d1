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
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"path"
	"strings"

	"rivaas.dev/assets/resolver"
)

// manifestHeader is the mandatory first line of an HTML5 application
// cache manifest.
const manifestHeader = "CACHE MANIFEST"

// manifestSections are the section markers of the appcache format.
// Entries in the implicit and explicit CACHE sections are asset URLs;
// other sections pass through untouched.
var manifestSections = map[string]bool{
	"CACHE:":    true,
	"NETWORK:":  false,
	"FALLBACK:": false,
	"SETTINGS:": false,
}

// AppCacheTransformer rewrites HTML5 application cache manifests
// (*.appcache, *.manifest): asset references in CACHE sections are
// replaced with their public, version-stamped URLs, and a content hash
// comment is appended so the manifest bytes change whenever any
// referenced asset changes. Browsers refetch the entire cache exactly
// when the manifest changes, so the hash line is what actually busts
// client caches.
//
// Files without the CACHE MANIFEST header pass through unchanged.
type AppCacheTransformer struct {
	extensions map[string]bool
}

// NewAppCacheTransformer returns a transformer handling the default
// ".appcache" and ".manifest" extensions.
func NewAppCacheTransformer() *AppCacheTransformer {
	return &AppCacheTransformer{
		extensions: map[string]bool{".appcache": true, ".manifest": true},
	}
}

// Transform implements Transformer.
func (t *AppCacheTransformer) Transform(ctx context.Context, req *http.Request, res *resolver.Resource, next Chain) (*resolver.Resource, error) {
	if !t.extensions[path.Ext(res.Path)] {
		return next.Transform(ctx, req, res)
	}
	data, err := res.Content()
	if err != nil {
		return nil, err
	}
	content := string(data)
	if !strings.HasPrefix(content, manifestHeader) {
		return next.Transform(ctx, req, res)
	}

	dir := path.Dir(res.Path)
	var out strings.Builder
	rewriting := true // the implicit leading section is a CACHE section
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		trimmed := strings.TrimSpace(line)
		if isCache, isSection := manifestSections[trimmed]; isSection {
			rewriting = isCache
			out.WriteString(line)
			continue
		}
		if i == 0 || trimmed == "" || strings.HasPrefix(trimmed, "#") || !rewriting {
			out.WriteString(line)
			continue
		}
		rewritten, err := t.rewriteLine(ctx, trimmed, dir, next)
		if err != nil {
			return nil, err
		}
		out.WriteString(rewritten)
	}

	sum := sha256.Sum256([]byte(out.String()))
	out.WriteString("\n# Hash: ")
	out.WriteString(hex.EncodeToString(sum[:]))

	return next.Transform(ctx, req, res.WithContent([]byte(out.String())))
}

// rewriteLine maps one manifest entry to its public URL. External URLs
// and entries the chain cannot resolve stay as written. Relative entries
// come back relative to the manifest's own directory, the way browsers
// resolve them.
func (t *AppCacheTransformer) rewriteLine(ctx context.Context, line, manifestDir string, chain Chain) (string, error) {
	if strings.Contains(line, "://") {
		return line, nil
	}
	rootRelative := strings.HasPrefix(line, "/")
	candidate := strings.TrimPrefix(line, "/")
	if !rootRelative && manifestDir != "." {
		candidate = path.Join(manifestDir, line)
	}
	url, err := chain.ResolveURL(ctx, candidate)
	if err != nil {
		return "", err
	}
	if url == "" {
		return line, nil
	}
	if rootRelative {
		return "/" + strings.TrimPrefix(url, "/"), nil
	}
	return relativeTo(url, manifestDir), nil
}

// relativeTo rewrites a handler-relative asset path as a path relative
// to the given directory.
func relativeTo(p, dir string) string {
	if dir == "." || dir == "" {
		return p
	}
	segs := strings.Split(dir, "/")
	for len(segs) > 0 && strings.HasPrefix(p, segs[0]+"/") {
		p = strings.TrimPrefix(p, segs[0]+"/")
		segs = segs[1:]
	}
	return strings.Repeat("../", len(segs)) + p
}
