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
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/assets/resolver"
)

// RegistrationCustomizer modifies a registration after its locations and
// cache policy are set. At most one customizer runs per builder; the
// default is the chain customizer when chain decoration is enabled.
type RegistrationCustomizer interface {
	Customize(reg *Registration)
}

// CustomizerFunc adapts a function to the RegistrationCustomizer
// interface.
type CustomizerFunc func(reg *Registration)

// Customize implements RegistrationCustomizer.
func (f CustomizerFunc) Customize(reg *Registration) {
	f(reg)
}

// Builder turns a Config into resource handler registrations.
//
// A builder is constructed once at startup, applied to a registry once,
// and discarded. Construction validates the configuration and compiles
// version strategy patterns, so Apply itself cannot fail.
type Builder struct {
	cfg        Config
	logger     *slog.Logger
	customizer RegistrationCustomizer
	baseFS     fs.FS
	metrics    *chainMetrics

	customizerSet   bool
	customizerCount int
	meterProvider   metric.MeterProvider

	vendorLocations []resolver.Location
	staticLocations []resolver.Location
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for configuration events (such as the
// informational line when mapping is disabled). Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithCustomizer replaces the default chain customizer with the given
// one. At most one customizer may be configured; a second WithCustomizer
// makes NewBuilder fail.
func WithCustomizer(c RegistrationCustomizer) BuilderOption {
	return func(b *Builder) {
		b.customizer = c
		b.customizerSet = true
		b.customizerCount++
	}
}

// WithFS resolves location names inside the given filesystem instead of
// the process working directory. This is how embedded asset trees
// (embed.FS) are served.
//
// Example:
//
//	//go:embed public vendor
//	var site embed.FS
//
//	b, err := assets.NewBuilder(cfg, assets.WithFS(site))
func WithFS(fsys fs.FS) BuilderOption {
	return func(b *Builder) {
		b.baseFS = fsys
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for the
// serving metrics. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) BuilderOption {
	return func(b *Builder) {
		b.meterProvider = mp
	}
}

// NewBuilder validates the configuration and returns a builder for it.
func NewBuilder(cfg Config, opts ...BuilderOption) (*Builder, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid asset mapping config: %w", err)
	}

	b := &Builder{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.customizerCount > 1 {
		return nil, fmt.Errorf("at most one registration customizer may be configured")
	}
	if !b.customizerSet && cfg.Chain.IsEnabled() {
		c, err := newChainCustomizer(cfg.Chain)
		if err != nil {
			return nil, err
		}
		b.customizer = c
	}

	metrics, err := newChainMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("initialize asset metrics: %w", err)
	}
	b.metrics = metrics

	if b.vendorLocations, err = b.locations(VendorLocation); err != nil {
		return nil, err
	}
	if b.staticLocations, err = b.locations(cfg.StaticLocations...); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply builds the registrations described by the configuration into
// the registry and returns them. Patterns already present in the
// registry are skipped; the result carries zero, one, or two
// registrations.
func (b *Builder) Apply(reg *Registry) []*Registration {
	if !b.cfg.AddMappings {
		b.logger.Debug("default resource handling disabled")
		return nil
	}

	var built []*Registration
	add := func(pattern string, locations []resolver.Location) {
		if reg.HasMappingForPattern(pattern) {
			b.logger.Debug("pattern already mapped, skipping", "pattern", pattern)
			return
		}
		r := reg.AddResourceHandler(pattern).AddLocations(locations...)
		r.metrics = b.metrics
		if b.cfg.CachePeriod != nil {
			r.SetCacheControl(MaxAge(*b.cfg.CachePeriod))
		}
		if b.customizer != nil {
			b.customizer.Customize(r)
		}
		built = append(built, r)
	}

	add(VendorPathPattern, b.vendorLocations)
	add(b.cfg.StaticPathPattern, b.staticLocations)
	return built
}

// locations maps location names to filesystems: subtrees of the
// configured base filesystem, or directories relative to the working
// directory when no base is set.
func (b *Builder) locations(names ...string) ([]resolver.Location, error) {
	locs := make([]resolver.Location, 0, len(names))
	for _, name := range names {
		trimmed := strings.Trim(name, "/")
		if b.baseFS == nil {
			locs = append(locs, resolver.Location{Name: name, FS: os.DirFS(trimmed)})
			continue
		}
		sub, err := fs.Sub(b.baseFS, trimmed)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", name, err)
		}
		locs = append(locs, resolver.Location{Name: name, FS: sub})
	}
	return locs, nil
}
