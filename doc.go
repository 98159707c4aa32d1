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

// Package assets provides configuration-driven static asset serving for
// Go HTTP services: URL pattern to location mappings, Cache-Control
// policies, and a pluggable chain of resource resolvers and transformers
// for cache busting, precompressed delivery, and manifest rewriting.
//
// # Key Features
//
//   - Ordered multi-location mappings (first location containing a path wins)
//   - A well-known vendor mapping for third-party assets, registered
//     ahead of the application's static mapping
//   - Cache-Control policies per registration (max-age, immutable,
//     stale-while-revalidate, ...)
//   - Version strategies for cache busting: a fixed release token or a
//     content hash embedded in the filename
//   - Precompressed delivery: .br/.gz siblings served via
//     Accept-Encoding negotiation, produced at build time by Precompress
//   - HTML5 application cache manifest rewriting
//   - In-memory memoization of resolved assets
//   - OpenTelemetry metrics for served requests
//   - Environment variable configuration (RIVAAS_ASSETS_*)
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//	    "time"
//
//	    "rivaas.dev/assets"
//	)
//
//	func main() {
//	    cfg := assets.DefaultConfig()
//	    period := time.Hour
//	    cfg.CachePeriod = &period
//	    cfg.Chain.Strategy.Content.Enabled = true
//
//	    b, err := assets.NewBuilder(cfg)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    registry := assets.NewRegistry()
//	    b.Apply(registry)
//
//	    mux := http.NewServeMux()
//	    registry.Mount(mux)
//	    http.ListenAndServe(":8080", mux)
//	}
//
// # Construction Pattern
//
// NewBuilder returns an error because configuration may be invalid and
// version strategy patterns must compile. Apply cannot fail: everything
// fallible happens at construction, so wiring code stays free of error
// handling in the hot path.
//
// Registries accept handlers for a pattern at most once; re-registering
// an existing pattern is silently skipped (first registration wins).
// This lets an application claim a pattern before Apply runs and keep
// its own handler for it.
//
// # Serving Model
//
// Each registration resolves requests through a chain: optional caching,
// version token extraction and verification, content negotiation for
// precompressed siblings, then plain location lookup. Transformers
// rewrite resolved content before it is served. Chains are assembled
// once at startup; serving is read-only and safe for concurrent use.
package assets
