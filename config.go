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
	"io/fs"
	"strings"
	"time"
)

// Well-known mapping defaults.
const (
	// DefaultStaticPathPattern serves static assets at the site root.
	DefaultStaticPathPattern = "/*"

	// VendorPathPattern is the well-known pattern for third-party
	// assets shipped with the application (the "vendor" convention).
	// It is always registered before the static pattern.
	VendorPathPattern = "/vendor/*"

	// VendorLocation is the location backing VendorPathPattern.
	VendorLocation = "vendor"
)

// DefaultStaticLocations are the locations probed for static assets, in
// order. The first location containing a requested path wins.
var DefaultStaticLocations = []string{"public", "static", "resources"}

// defaultStrategyPaths is used when a version strategy is enabled
// without explicit path patterns.
var defaultStrategyPaths = []string{"/**"}

// Config describes the static asset mappings to build. The zero value
// disables mapping entirely; start from DefaultConfig for the usual
// setup.
//
// Config values are read once when a Builder is constructed and never
// mutated afterwards.
type Config struct {
	// AddMappings enables registration of the default asset mappings.
	// When false, Builder.Apply registers nothing.
	AddMappings bool

	// CachePeriod, when non-nil, attaches a "max-age" Cache-Control
	// policy with this duration to every built registration.
	CachePeriod *time.Duration

	// StaticPathPattern is the URL pattern static assets are served
	// under. Defaults to DefaultStaticPathPattern.
	StaticPathPattern string

	// StaticLocations are the location directories backing the static
	// pattern, in fallback order. Defaults to DefaultStaticLocations.
	StaticLocations []string

	// Chain configures the resolver/transformer chain attached to each
	// registration.
	Chain ChainConfig
}

// ChainConfig configures the resource chain decoration.
type ChainConfig struct {
	// Enabled overrides chain decoration entirely. When nil, the chain
	// is enabled exactly when a version strategy is enabled.
	Enabled *bool

	// Cache memoizes resolved assets in memory.
	Cache bool

	// Compressed serves precompressed sibling files (.br, .gz) using
	// Accept-Encoding negotiation. Siblings are produced at build time,
	// e.g. with Precompress.
	Compressed bool

	// HTMLAppCache rewrites HTML5 application cache manifests so their
	// asset references carry version tokens.
	HTMLAppCache bool

	// Strategy configures cache-busting version tokens.
	Strategy StrategyConfig
}

// IsEnabled reports whether chain decoration applies: the explicit
// Enabled override when set, otherwise whether any version strategy is
// enabled.
func (c ChainConfig) IsEnabled() bool {
	if c.Enabled != nil {
		return *c.Enabled
	}
	return c.Strategy.Fixed.Enabled || c.Strategy.Content.Enabled
}

// StrategyConfig configures version token strategies. Both strategies
// may be active at once for disjoint path sets; the fixed strategy is
// always registered first.
type StrategyConfig struct {
	Fixed   FixedStrategyConfig
	Content ContentStrategyConfig
}

// FixedStrategyConfig configures the fixed-token version strategy.
type FixedStrategyConfig struct {
	// Enabled turns the strategy on.
	Enabled bool

	// Version is the token prefixed to request paths (e.g. "v12").
	// Required when enabled.
	Version string

	// Paths are the glob patterns the strategy applies to. Defaults to
	// "/**" (everything).
	Paths []string
}

// ContentStrategyConfig configures the content-hash version strategy.
type ContentStrategyConfig struct {
	// Enabled turns the strategy on.
	Enabled bool

	// Paths are the glob patterns the strategy applies to. Defaults to
	// "/**" (everything).
	Paths []string
}

// DefaultConfig returns the standard mapping configuration: mappings
// enabled, static assets at the root pattern from the default
// locations, no cache policy, no chain decoration.
func DefaultConfig() Config {
	return Config{
		AddMappings:       true,
		StaticPathPattern: DefaultStaticPathPattern,
		StaticLocations:   append([]string(nil), DefaultStaticLocations...),
	}
}

// Validate checks the configuration for values that cannot produce a
// working registration set.
func (c Config) Validate() error {
	if !c.AddMappings {
		return nil
	}
	if c.StaticPathPattern == "" {
		return fmt.Errorf("static path pattern must not be empty")
	}
	if !strings.HasPrefix(c.StaticPathPattern, "/") {
		return fmt.Errorf("static path pattern %q must start with /", c.StaticPathPattern)
	}
	if len(c.StaticLocations) == 0 {
		return fmt.Errorf("at least one static location is required")
	}
	for _, loc := range c.StaticLocations {
		if !fs.ValidPath(strings.Trim(loc, "/")) {
			return fmt.Errorf("invalid static location %q", loc)
		}
	}
	if c.CachePeriod != nil && *c.CachePeriod < 0 {
		return fmt.Errorf("cache period must not be negative, got %s", *c.CachePeriod)
	}
	if c.Chain.Strategy.Fixed.Enabled && c.Chain.Strategy.Fixed.Version == "" {
		return fmt.Errorf("fixed version strategy requires a version")
	}
	return nil
}

// withDefaults fills unset fields with their documented defaults.
func (c Config) withDefaults() Config {
	if c.StaticPathPattern == "" {
		c.StaticPathPattern = DefaultStaticPathPattern
	}
	if len(c.StaticLocations) == 0 {
		c.StaticLocations = append([]string(nil), DefaultStaticLocations...)
	}
	if c.Chain.Strategy.Fixed.Enabled && len(c.Chain.Strategy.Fixed.Paths) == 0 {
		c.Chain.Strategy.Fixed.Paths = defaultStrategyPaths
	}
	if c.Chain.Strategy.Content.Enabled && len(c.Chain.Strategy.Content.Paths) == 0 {
		c.Chain.Strategy.Content.Paths = defaultStrategyPaths
	}
	return c
}
