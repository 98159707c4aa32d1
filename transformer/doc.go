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

// Package transformer provides the content transformation chain used by
// rivaas.dev/assets to rewrite resolved assets before they are served.
//
// Transformers run after resolution, in registration order. Each
// transformer receives the resolved resource and either passes it
// through unchanged or returns a rewritten copy (resources are never
// mutated in place).
//
// The chain carries a URL resolver so transformers can rewrite embedded
// asset references to their public, version-stamped forms.
//
// # Built-in Transformers
//
//   - [AppCacheTransformer]: rewrites relative URLs inside HTML5
//     application cache manifests and appends a content hash comment so
//     manifest content changes whenever any referenced asset changes
package transformer
