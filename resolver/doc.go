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

// Package resolver provides the pluggable resource resolution chain used
// by rivaas.dev/assets to map request paths to static assets.
//
// A chain is an ordered list of resolvers. Each resolver may handle the
// request itself, rewrite the path and delegate to the rest of the chain,
// or fall through unchanged. The terminal element is always [PathResolver],
// which performs the actual location lookup.
//
// # Built-in Resolvers
//
//   - [PathResolver]: looks the cleaned path up in an ordered list of
//     locations; the first location containing the file wins
//   - [VersionResolver]: strips a cache-busting version token from the
//     request path and verifies it against the resolved asset (fixed
//     token or content hash)
//   - [EncodedResolver]: serves precompressed sibling files (.br, .gz)
//     based on the request's Accept-Encoding header
//   - [CachingResolver]: memoizes resolution results, keyed by path and
//     acceptable content codings
//
// # Chain Order
//
// Order is significant. A typical decorated chain is:
//
//	caching -> version -> encoded -> path
//
// The caching resolver must sit in front so it memoizes the fully
// resolved result; the encoded resolver must sit behind the version
// resolver so compressed siblings are looked up by the unversioned path.
//
// # Resolution Outcome
//
// Resolvers report "not found" as (nil, nil). Errors are reserved for
// I/O failures while reading a location.
package resolver
