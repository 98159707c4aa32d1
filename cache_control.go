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
	"fmt"
	"strings"
	"time"
)

// CacheControlOption defines functional options for Cache-Control policy
// configuration.
type CacheControlOption func(*CacheControl)

// CacheControl is an immutable Cache-Control policy attached to a
// registration. Build one with NewCacheControl or the MaxAge shorthand.
type CacheControl struct {
	public               bool
	private              bool
	noStore              bool
	noCache              bool
	immutable            bool
	maxAge               time.Duration
	staleWhileRevalidate time.Duration
	staleIfError         time.Duration
}

// NewCacheControl builds a policy from the provided options.
//
// Example:
//
//	assets.NewCacheControl(
//	    assets.WithPublic(),
//	    assets.WithMaxAge(time.Hour),
//	    assets.WithImmutable(),
//	)
//	// Header: public, max-age=3600, immutable
func NewCacheControl(opts ...CacheControlOption) *CacheControl {
	cc := &CacheControl{}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// MaxAge is shorthand for NewCacheControl(WithMaxAge(d)).
func MaxAge(d time.Duration) *CacheControl {
	return NewCacheControl(WithMaxAge(d))
}

// WithPublic sets the public directive, allowing shared caches to cache
// the response.
func WithPublic() CacheControlOption {
	return func(cc *CacheControl) {
		cc.public = true
	}
}

// WithPrivate sets the private directive, preventing shared caches from
// caching the response.
func WithPrivate() CacheControlOption {
	return func(cc *CacheControl) {
		cc.private = true
	}
}

// WithNoStore sets the no-store directive, preventing any cache from
// storing the response.
func WithNoStore() CacheControlOption {
	return func(cc *CacheControl) {
		cc.noStore = true
	}
}

// WithNoCache sets the no-cache directive, requiring validation before
// using a cached response.
func WithNoCache() CacheControlOption {
	return func(cc *CacheControl) {
		cc.noCache = true
	}
}

// WithImmutable sets the immutable directive. Appropriate for
// content-versioned assets whose URL changes when the content does.
func WithImmutable() CacheControlOption {
	return func(cc *CacheControl) {
		cc.immutable = true
	}
}

// WithMaxAge sets the max-age directive.
func WithMaxAge(d time.Duration) CacheControlOption {
	return func(cc *CacheControl) {
		if d > 0 {
			cc.maxAge = d
		}
	}
}

// WithStaleWhileRevalidate sets the stale-while-revalidate directive
// (RFC 5861). Allows serving stale content while revalidating in the
// background.
func WithStaleWhileRevalidate(d time.Duration) CacheControlOption {
	return func(cc *CacheControl) {
		if d > 0 {
			cc.staleWhileRevalidate = d
		}
	}
}

// WithStaleIfError sets the stale-if-error directive. Allows serving
// stale content if the origin returns an error.
func WithStaleIfError(d time.Duration) CacheControlOption {
	return func(cc *CacheControl) {
		if d > 0 {
			cc.staleIfError = d
		}
	}
}

// Header returns the Cache-Control header value for the policy, or ""
// when no directive is set.
func (cc *CacheControl) Header() string {
	parts := make([]string, 0, 8)

	if cc.public {
		parts = append(parts, "public")
	}
	if cc.private {
		parts = append(parts, "private")
	}
	if cc.noStore {
		parts = append(parts, "no-store")
	}
	if cc.noCache {
		parts = append(parts, "no-cache")
	}
	if cc.maxAge > 0 {
		parts = append(parts, fmt.Sprintf("max-age=%d", int(cc.maxAge.Seconds())))
	}
	if cc.staleWhileRevalidate > 0 {
		parts = append(parts, fmt.Sprintf("stale-while-revalidate=%d", int(cc.staleWhileRevalidate.Seconds())))
	}
	if cc.staleIfError > 0 {
		parts = append(parts, fmt.Sprintf("stale-if-error=%d", int(cc.staleIfError.Seconds())))
	}
	if cc.immutable {
		parts = append(parts, "immutable")
	}

	return strings.Join(parts, ", ")
}
