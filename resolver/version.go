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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// contentVersionLen is the number of hex characters of the SHA-256
// digest embedded in content-versioned filenames.
const contentVersionLen = 16

// VersionStrategy embeds and verifies a cache-busting version token in
// asset request paths.
type VersionStrategy interface {
	// Extract splits a request path into the version token and the
	// unversioned path. Returns ok=false when the path carries no token
	// recognizable by this strategy.
	Extract(requestPath string) (version, plain string, ok bool)

	// AddVersion embeds the version token into an unversioned path.
	AddVersion(path, version string) string

	// ResourceVersion returns the token expected for the resolved asset.
	ResourceVersion(res *Resource) (string, error)
}

// VersionResolver resolves request paths that carry a version token.
// Strategies are registered against glob patterns (gobwas/glob syntax,
// "**" crosses path segments); the first pattern matching the request
// path selects the strategy.
//
// Resolution extracts the token, resolves the unversioned path through
// the rest of the chain, and verifies the token against the resolved
// asset. A token mismatch resolves to not found, so stale URLs never
// serve wrong content.
type VersionResolver struct {
	entries []versionEntry
}

type versionEntry struct {
	patterns []glob.Glob
	strategy VersionStrategy
}

// NewVersionResolver returns an empty version resolver. Register at
// least one strategy before use.
func NewVersionResolver() *VersionResolver {
	return &VersionResolver{}
}

// AddStrategy registers a strategy for the given glob patterns.
// Patterns are matched against the request path with a leading slash
// (e.g. "/**/*.js", "/css/**"). Returns an error for unparsable globs.
func (v *VersionResolver) AddStrategy(strategy VersionStrategy, paths ...string) error {
	if len(paths) == 0 {
		return fmt.Errorf("version strategy requires at least one path pattern")
	}
	entry := versionEntry{strategy: strategy}
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("compile version strategy pattern %q: %w", p, err)
		}
		entry.patterns = append(entry.patterns, g)
	}
	v.entries = append(v.entries, entry)
	return nil
}

// AddFixedStrategy registers a fixed-token strategy: request paths are
// prefixed with the configured version segment (e.g. "/v12/css/app.css").
func (v *VersionResolver) AddFixedStrategy(version string, paths ...string) error {
	if version == "" {
		return fmt.Errorf("fixed version strategy requires a non-empty version")
	}
	return v.AddStrategy(FixedVersionStrategy{version: version}, paths...)
}

// AddContentStrategy registers a content-hash strategy: filenames embed
// a SHA-256 prefix of the asset content (e.g. "app-0b2d8f11a3c44e02.css").
func (v *VersionResolver) AddContentStrategy(paths ...string) error {
	return v.AddStrategy(ContentVersionStrategy{}, paths...)
}

func (v *VersionResolver) strategyFor(requestPath string) VersionStrategy {
	candidate := "/" + strings.TrimPrefix(requestPath, "/")
	for _, e := range v.entries {
		for _, g := range e.patterns {
			if g.Match(candidate) {
				return e.strategy
			}
		}
	}
	return nil
}

// Resolve implements Resolver.
func (v *VersionResolver) Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location, next Chain) (*Resource, error) {
	strategy := v.strategyFor(requestPath)
	if strategy == nil {
		return next.Resolve(ctx, req, requestPath, locations)
	}
	version, plain, ok := strategy.Extract(requestPath)
	if !ok {
		return next.Resolve(ctx, req, requestPath, locations)
	}
	res, err := next.Resolve(ctx, req, plain, locations)
	if err != nil || res == nil {
		return nil, err
	}
	actual, err := strategy.ResourceVersion(res)
	if err != nil {
		return nil, err
	}
	if actual != version {
		return nil, nil
	}
	return res, nil
}

// ResolveURL implements Resolver: it embeds the version token into the
// public path of a resolvable asset.
func (v *VersionResolver) ResolveURL(ctx context.Context, resourcePath string, locations []Location, next Chain) (string, error) {
	base, err := next.ResolveURL(ctx, resourcePath, locations)
	if err != nil || base == "" {
		return "", err
	}
	strategy := v.strategyFor(resourcePath)
	if strategy == nil {
		return base, nil
	}
	res, err := next.Resolve(ctx, nil, resourcePath, locations)
	if err != nil || res == nil {
		return base, err
	}
	version, err := strategy.ResourceVersion(res)
	if err != nil {
		return "", err
	}
	return strategy.AddVersion(base, version), nil
}

// FixedVersionStrategy prefixes request paths with a static version
// segment. All assets under the strategy share the configured token, so
// a release bump invalidates every URL at once.
type FixedVersionStrategy struct {
	version string
}

// NewFixedVersionStrategy returns a strategy using the given token.
func NewFixedVersionStrategy(version string) FixedVersionStrategy {
	return FixedVersionStrategy{version: version}
}

// Extract implements VersionStrategy.
func (s FixedVersionStrategy) Extract(requestPath string) (string, string, bool) {
	p := strings.TrimPrefix(requestPath, "/")
	seg, rest, found := strings.Cut(p, "/")
	if !found || seg != s.version || rest == "" {
		return "", "", false
	}
	return s.version, rest, true
}

// AddVersion implements VersionStrategy.
func (s FixedVersionStrategy) AddVersion(p, version string) string {
	return version + "/" + strings.TrimPrefix(p, "/")
}

// ResourceVersion implements VersionStrategy. Fixed tokens do not depend
// on content.
func (s FixedVersionStrategy) ResourceVersion(res *Resource) (string, error) {
	return s.version, nil
}

// contentVersionPattern matches a base filename carrying a content hash,
// e.g. "app-0b2d8f11a3c44e02.css" or "LICENSE-0b2d8f11a3c44e02".
var contentVersionPattern = regexp.MustCompile(`^(.*)-([0-9a-f]{` + fmt.Sprint(contentVersionLen) + `})(\.[^.]+)?$`)

// ContentVersionStrategy embeds a SHA-256 prefix of the asset content in
// the filename, before the extension. URLs change exactly when content
// changes.
type ContentVersionStrategy struct{}

// Extract implements VersionStrategy.
func (ContentVersionStrategy) Extract(requestPath string) (string, string, bool) {
	dir, file := path.Split(requestPath)
	m := contentVersionPattern.FindStringSubmatch(file)
	if m == nil || m[1] == "" {
		return "", "", false
	}
	return m[2], dir + m[1] + m[3], true
}

// AddVersion implements VersionStrategy.
func (ContentVersionStrategy) AddVersion(p, version string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + "-" + version + ext
}

// ResourceVersion implements VersionStrategy. For encoded resources the
// hash is computed over the identity content: version tokens in URLs
// refer to the asset, not to a negotiated variant of it.
func (ContentVersionStrategy) ResourceVersion(res *Resource) (string, error) {
	if id := res.Identity(); id != nil {
		res = id
	}
	data, err := res.Content()
	if err != nil {
		return "", err
	}
	return ContentVersion(data), nil
}

// ContentVersion returns the version token for the given content: the
// first 16 hex characters of its SHA-256 digest.
func ContentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:contentVersionLen]
}
