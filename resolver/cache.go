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
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultCacheEntries is the default bound for CachingResolver.
const DefaultCacheEntries = 1024

// CachingResolver memoizes resolution results from the rest of the
// chain. Cached resources carry a content snapshot, so cache hits never
// touch the backing filesystem.
//
// Keys include the negotiation-relevant content codings from the
// request's Accept-Encoding header, so a gzip-capable client and a
// plain client never share an entry.
//
// The cache is bounded: once full, new results are served but not
// stored. Static asset sets are fixed at deploy time, so an explicit
// eviction policy buys nothing here.
//
// Safe for concurrent use.
type CachingResolver struct {
	mu         sync.RWMutex
	resources  map[string]*Resource
	urls       map[string]string
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewCachingResolver returns a caching resolver bounded to
// DefaultCacheEntries entries.
func NewCachingResolver() *CachingResolver {
	return NewCachingResolverSize(DefaultCacheEntries)
}

// NewCachingResolverSize returns a caching resolver bounded to the given
// number of entries. Non-positive sizes fall back to the default.
func NewCachingResolverSize(maxEntries int) *CachingResolver {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &CachingResolver{
		resources:  make(map[string]*Resource),
		urls:       make(map[string]string),
		maxEntries: maxEntries,
	}
}

// Resolve implements Resolver.
func (c *CachingResolver) Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location, next Chain) (*Resource, error) {
	key := cacheKey(req, requestPath)

	c.mu.RLock()
	res, ok := c.resources[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return res, nil
	}
	c.misses.Add(1)

	res, err := next.Resolve(ctx, req, requestPath, locations)
	if err != nil || res == nil {
		return nil, err
	}

	// Snapshot the content so cached entries are self-contained.
	data, err := res.Content()
	if err != nil {
		return nil, err
	}
	res = res.WithContent(data)

	c.mu.Lock()
	if len(c.resources) < c.maxEntries {
		c.resources[key] = res
	}
	c.mu.Unlock()
	return res, nil
}

// ResolveURL implements Resolver.
func (c *CachingResolver) ResolveURL(ctx context.Context, resourcePath string, locations []Location, next Chain) (string, error) {
	c.mu.RLock()
	url, ok := c.urls[resourcePath]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return url, nil
	}
	c.misses.Add(1)

	url, err := next.ResolveURL(ctx, resourcePath, locations)
	if err != nil || url == "" {
		return "", err
	}

	c.mu.Lock()
	if len(c.urls) < c.maxEntries {
		c.urls[resourcePath] = url
	}
	c.mu.Unlock()
	return url, nil
}

// Stats returns a snapshot of hit/miss counters and the number of
// cached resources.
func (c *CachingResolver) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.resources)
	c.mu.RUnlock()
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: entries,
	}
}

// cacheKey builds the lookup key for a request path, varying on the
// acceptable content codings so encoded variants stay separate.
func cacheKey(req *http.Request, requestPath string) string {
	if req == nil {
		return requestPath
	}
	accepted := acceptedEncodings(req.Header.Get("Accept-Encoding"))
	var codings []string
	for coding := range encodingExtensions {
		if accepted.accepts(coding) {
			codings = append(codings, coding)
		}
	}
	if len(codings) == 0 {
		return requestPath
	}
	// Two codings at most; a sort dependency is not worth it.
	if len(codings) == 2 && codings[0] > codings[1] {
		codings[0], codings[1] = codings[1], codings[0]
	}
	return requestPath + "\x00" + strings.Join(codings, ",")
}
