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
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func versionTestLocations() []Location {
	return []Location{{Name: "public", FS: fstest.MapFS{
		"css/app.css": &fstest.MapFile{Data: []byte("body { margin: 0 }")},
		"js/main.js":  &fstest.MapFile{Data: []byte("console.log(1)")},
	}}}
}

func TestFixedVersionStrategy(t *testing.T) {
	t.Parallel()

	v := NewVersionResolver()
	require.NoError(t, v.AddFixedStrategy("v12", "/**"))
	chain := NewChain(v, NewPathResolver())
	locations := versionTestLocations()

	t.Run("resolves versioned path", func(t *testing.T) {
		t.Parallel()
		res, err := chain.Resolve(context.Background(), nil, "v12/css/app.css", locations)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "css/app.css", res.Path)
	})

	t.Run("wrong token resolves to nil", func(t *testing.T) {
		t.Parallel()
		res, err := chain.Resolve(context.Background(), nil, "v11/css/app.css", locations)
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("unversioned path falls through", func(t *testing.T) {
		t.Parallel()
		res, err := chain.Resolve(context.Background(), nil, "css/app.css", locations)
		require.NoError(t, err)
		require.NotNil(t, res)
	})

	t.Run("ResolveURL embeds the token", func(t *testing.T) {
		t.Parallel()
		url, err := chain.ResolveURL(context.Background(), "css/app.css", locations)
		require.NoError(t, err)
		assert.Equal(t, "v12/css/app.css", url)
	})
}

func TestContentVersionStrategy(t *testing.T) {
	t.Parallel()

	v := NewVersionResolver()
	require.NoError(t, v.AddContentStrategy("/**"))
	chain := NewChain(v, NewPathResolver())
	locations := versionTestLocations()

	hash := ContentVersion([]byte("body { margin: 0 }"))
	require.Len(t, hash, 16)

	t.Run("resolves hashed filename", func(t *testing.T) {
		t.Parallel()
		res, err := chain.Resolve(context.Background(), nil, "css/app-"+hash+".css", locations)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "css/app.css", res.Path)
	})

	t.Run("stale hash resolves to nil", func(t *testing.T) {
		t.Parallel()
		stale := ContentVersion([]byte("old content"))
		res, err := chain.Resolve(context.Background(), nil, "css/app-"+stale+".css", locations)
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("plain filename falls through", func(t *testing.T) {
		t.Parallel()
		res, err := chain.Resolve(context.Background(), nil, "css/app.css", locations)
		require.NoError(t, err)
		require.NotNil(t, res)
	})

	t.Run("ResolveURL embeds the hash before the extension", func(t *testing.T) {
		t.Parallel()
		url, err := chain.ResolveURL(context.Background(), "css/app.css", locations)
		require.NoError(t, err)
		assert.Equal(t, "css/app-"+hash+".css", url)
	})

	t.Run("ResolveURL of unknown asset is empty", func(t *testing.T) {
		t.Parallel()
		url, err := chain.ResolveURL(context.Background(), "css/missing.css", locations)
		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

func TestVersionStrategySelection(t *testing.T) {
	t.Parallel()

	// Fixed strategy for JS, content strategy for everything else.
	v := NewVersionResolver()
	require.NoError(t, v.AddFixedStrategy("v3", "/**/*.js"))
	require.NoError(t, v.AddContentStrategy("/**/*.css"))
	chain := NewChain(v, NewPathResolver())
	locations := versionTestLocations()

	jsURL, err := chain.ResolveURL(context.Background(), "js/main.js", locations)
	require.NoError(t, err)
	assert.Equal(t, "v3/js/main.js", jsURL)

	cssHash := ContentVersion([]byte("body { margin: 0 }"))
	cssURL, err := chain.ResolveURL(context.Background(), "css/app.css", locations)
	require.NoError(t, err)
	assert.Equal(t, "css/app-"+cssHash+".css", cssURL)
}

func TestVersionResolverFirstMatchingStrategyWins(t *testing.T) {
	t.Parallel()

	// Both strategies match "/**"; the one registered first is used.
	v := NewVersionResolver()
	require.NoError(t, v.AddFixedStrategy("v1", "/**"))
	require.NoError(t, v.AddContentStrategy("/**"))
	chain := NewChain(v, NewPathResolver())
	locations := versionTestLocations()

	url, err := chain.ResolveURL(context.Background(), "css/app.css", locations)
	require.NoError(t, err)
	assert.Equal(t, "v1/css/app.css", url)
}

func TestVersionResolverValidation(t *testing.T) {
	t.Parallel()

	v := NewVersionResolver()
	assert.Error(t, v.AddFixedStrategy("", "/**"), "empty version must be rejected")
	assert.Error(t, v.AddFixedStrategy("v1"), "missing paths must be rejected")
	assert.Error(t, v.AddContentStrategy("[invalid"), "bad glob must be rejected")
}

func TestContentVersionExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		version string
		plain   string
		ok      bool
	}{
		{"hashed css", "css/app-0123456789abcdef.css", "0123456789abcdef", "css/app.css", true},
		{"hashed without extension", "NOTICE-0123456789abcdef", "0123456789abcdef", "NOTICE", true},
		{"plain file", "css/app.css", "", "", false},
		{"dash but no hash", "css/app-v2.css", "", "", false},
		{"hash-only name", "-0123456789abcdef.css", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			version, plain, ok := ContentVersionStrategy{}.Extract(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.version, version)
				assert.Equal(t, tt.plain, plain)
			}
		})
	}
}
