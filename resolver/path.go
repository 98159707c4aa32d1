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
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// PathResolver is the terminal resolver: it looks the cleaned request
// path up in each location in order and returns the first regular file
// found.
//
// Path traversal is rejected structurally: after cleaning, any path that
// is not a valid io/fs path (absolute, empty, or containing "..")
// resolves to not found. fs.FS implementations additionally refuse to
// escape their root.
type PathResolver struct{}

// NewPathResolver returns the terminal location-lookup resolver.
func NewPathResolver() PathResolver {
	return PathResolver{}
}

// Resolve implements Resolver. It never delegates to next; it is the
// end of the chain.
func (PathResolver) Resolve(ctx context.Context, req *http.Request, requestPath string, locations []Location, next Chain) (*Resource, error) {
	clean, ok := cleanPath(requestPath)
	if !ok {
		return nil, nil
	}
	for _, loc := range locations {
		info, err := fs.Stat(loc.FS, clean)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
				continue
			}
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		return NewResource(loc, clean, info.ModTime()), nil
	}
	return nil, nil
}

// ResolveURL implements Resolver. The public path of an unversioned,
// unencoded asset is the resource path itself, provided it exists.
func (p PathResolver) ResolveURL(ctx context.Context, resourcePath string, locations []Location, next Chain) (string, error) {
	res, err := p.Resolve(ctx, nil, resourcePath, locations, next)
	if err != nil || res == nil {
		return "", err
	}
	return resourcePath, nil
}

// cleanPath normalizes a request path for location lookup. Returns
// false for paths that must not be served (traversal, empty, hidden
// root escapes).
func cleanPath(p string) (string, bool) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", false
	}
	clean := path.Clean(p)
	if !fs.ValidPath(clean) || clean == "." {
		return "", false
	}
	return clean, true
}
