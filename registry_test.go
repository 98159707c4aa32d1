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
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/assets/resolver"
)

func TestNormalizePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"assets", "/assets/*"},
		{"/assets", "/assets/*"},
		{"/assets/", "/assets/*"},
		{"/assets/*", "/assets/*"},
		{"/", "/*"},
		{"/*", "/*"},
		{"", "/*"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizePattern(tt.in))
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("first registration wins", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		first := registry.AddResourceHandler("/assets")
		second := registry.AddResourceHandler("/assets/*")

		assert.Same(t, first, second)
		assert.Len(t, registry.Registrations(), 1)
	})

	t.Run("pattern lookup sees normalized forms", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		registry.AddResourceHandler("/assets/")

		assert.True(t, registry.HasMappingForPattern("assets"))
		assert.True(t, registry.HasMappingForPattern("/assets/*"))
		assert.False(t, registry.HasMappingForPattern("/other"))
	})

	t.Run("registrations keep insertion order", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		registry.AddResourceHandler("/vendor")
		registry.AddResourceHandler("/")

		regs := registry.Registrations()
		require.Len(t, regs, 2)
		assert.Equal(t, "/vendor/*", regs[0].Pattern())
		assert.Equal(t, "/*", regs[1].Pattern())
	})
}

func TestRegistryMount(t *testing.T) {
	t.Parallel()

	loc := resolver.Location{Name: "public", FS: fstest.MapFS{
		"robots.txt": &fstest.MapFile{
			Data:    []byte("User-agent: *"),
			ModTime: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	registry := NewRegistry()
	registry.AddResourceHandler("/assets").AddLocations(loc)

	srv := httptest.NewServer(registry.Handler())
	defer srv.Close()

	t.Run("GET serves the asset", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/assets/robots.txt")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("HEAD is mounted alongside GET", func(t *testing.T) {
		resp, err := http.Head(srv.URL + "/assets/robots.txt")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "13", resp.Header.Get("Content-Length"))
	})

	t.Run("other methods are rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/assets/robots.txt", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
