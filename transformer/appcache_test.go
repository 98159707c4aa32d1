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
	"net/http"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/assets/resolver"
)

// testResource builds a resource carrying the given content.
func testResource(path, content string) *resolver.Resource {
	loc := resolver.Location{Name: "public", FS: fstest.MapFS{}}
	return resolver.NewResource(loc, path, time.Time{}).WithContent([]byte(content))
}

// versionedURLs is a URLResolver stamping a fake version token into
// known paths.
func versionedURLs(known map[string]string) URLResolver {
	return func(ctx context.Context, resourcePath string) (string, error) {
		return known[resourcePath], nil
	}
}

func TestAppCacheTransformer(t *testing.T) {
	t.Parallel()

	t.Run("rewrites cache entries and appends hash", func(t *testing.T) {
		t.Parallel()
		manifest := strings.Join([]string{
			"CACHE MANIFEST",
			"# build 42",
			"css/app.css",
			"",
			"NETWORK:",
			"*",
			"",
			"CACHE:",
			"js/main.js",
			"https://cdn.example.com/lib.js",
		}, "\n")

		chain := NewChain(versionedURLs(map[string]string{
			"css/app.css": "css/app-0123456789abcdef.css",
			"js/main.js":  "v3/js/main.js",
		}), NewAppCacheTransformer())

		res, err := chain.Transform(context.Background(), nil, testResource("site.appcache", manifest))
		require.NoError(t, err)

		data, err := res.Content()
		require.NoError(t, err)
		lines := strings.Split(string(data), "\n")

		assert.Equal(t, "CACHE MANIFEST", lines[0])
		assert.Equal(t, "# build 42", lines[1], "comments pass through")
		assert.Equal(t, "css/app-0123456789abcdef.css", lines[2])
		assert.Equal(t, "*", lines[5], "NETWORK entries pass through")
		assert.Equal(t, "v3/js/main.js", lines[8], "explicit CACHE section is rewritten")
		assert.Equal(t, "https://cdn.example.com/lib.js", lines[9], "external URLs pass through")
		assert.True(t, strings.HasPrefix(lines[len(lines)-1], "# Hash: "), "hash comment is appended")
	})

	t.Run("hash changes when a reference changes", func(t *testing.T) {
		t.Parallel()
		manifest := "CACHE MANIFEST\ncss/app.css"

		transform := func(url string) string {
			chain := NewChain(versionedURLs(map[string]string{"css/app.css": url}), NewAppCacheTransformer())
			res, err := chain.Transform(context.Background(), nil, testResource("site.appcache", manifest))
			require.NoError(t, err)
			data, err := res.Content()
			require.NoError(t, err)
			return string(data)
		}

		assert.NotEqual(t,
			transform("css/app-0123456789abcdef.css"),
			transform("css/app-fedcba9876543210.css"))
	})

	t.Run("entries relative to a nested manifest", func(t *testing.T) {
		t.Parallel()
		manifest := "CACHE MANIFEST\napp.css"
		chain := NewChain(versionedURLs(map[string]string{
			"pages/app.css": "v3/pages/app.css",
		}), NewAppCacheTransformer())

		res, err := chain.Transform(context.Background(), nil, testResource("pages/site.appcache", manifest))
		require.NoError(t, err)
		data, err := res.Content()
		require.NoError(t, err)
		assert.Contains(t, string(data), "../v3/pages/app.css",
			"rewritten entry must stay resolvable relative to the manifest")
	})

	t.Run("unresolvable entries stay as written", func(t *testing.T) {
		t.Parallel()
		manifest := "CACHE MANIFEST\nunknown.css"
		chain := NewChain(versionedURLs(nil), NewAppCacheTransformer())

		res, err := chain.Transform(context.Background(), nil, testResource("site.appcache", manifest))
		require.NoError(t, err)
		data, err := res.Content()
		require.NoError(t, err)
		assert.Contains(t, string(data), "\nunknown.css")
	})

	t.Run("non-manifest extensions pass through untouched", func(t *testing.T) {
		t.Parallel()
		chain := NewChain(nil, NewAppCacheTransformer())
		original := testResource("app.css", "body {}")

		res, err := chain.Transform(context.Background(), nil, original)
		require.NoError(t, err)
		assert.Same(t, original, res)
	})

	t.Run("manifest extension without header passes through", func(t *testing.T) {
		t.Parallel()
		chain := NewChain(nil, NewAppCacheTransformer())
		original := testResource("site.manifest", `{"name": "not an appcache"}`)

		res, err := chain.Transform(context.Background(), nil, original)
		require.NoError(t, err)
		assert.Same(t, original, res)
	})
}

func TestTransformerChainOrder(t *testing.T) {
	t.Parallel()

	appendMark := func(mark string) Transformer {
		return TransformerFunc(func(ctx context.Context, req *http.Request, res *resolver.Resource, next Chain) (*resolver.Resource, error) {
			data, err := res.Content()
			if err != nil {
				return nil, err
			}
			return next.Transform(ctx, req, res.WithContent(append(data, []byte(mark)...)))
		})
	}

	chain := NewChain(nil, appendMark("-first"), appendMark("-second"))
	res, err := chain.Transform(context.Background(), nil, testResource("a.txt", "content"))
	require.NoError(t, err)
	data, err := res.Content()
	require.NoError(t, err)
	assert.Equal(t, "content-first-second", string(data))
}
