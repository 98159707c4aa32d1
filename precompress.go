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
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"
)

// defaultCompressibleExtensions are the file types worth precompressing.
// Already-compressed formats (images, fonts, archives) are excluded.
var defaultCompressibleExtensions = map[string]bool{
	".css":  true,
	".html": true,
	".js":   true,
	".json": true,
	".map":  true,
	".svg":  true,
	".txt":  true,
	".xml":  true,
}

// PrecompressOption configures Precompress.
type PrecompressOption func(*precompressConfig)

type precompressConfig struct {
	minSize     int64
	extensions  map[string]bool
	gzipLevel   int
	brotliLevel int
	skipGzip    bool
	skipBrotli  bool
}

// WithPrecompressMinSize sets the minimum file size to compress.
// Tiny files gain nothing from compression and cost an extra stat at
// serve time. Default: 1024 bytes.
func WithPrecompressMinSize(size int64) PrecompressOption {
	return func(cfg *precompressConfig) {
		cfg.minSize = size
	}
}

// WithPrecompressExtensions replaces the default set of file extensions
// to compress (extensions include the dot, e.g. ".css").
func WithPrecompressExtensions(exts ...string) PrecompressOption {
	return func(cfg *precompressConfig) {
		cfg.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			cfg.extensions[ext] = true
		}
	}
}

// WithPrecompressGzipLevel sets the gzip compression level.
// Default: gzip.BestCompression; precompression runs once at build time,
// so there is no reason to trade ratio for speed.
func WithPrecompressGzipLevel(level int) PrecompressOption {
	return func(cfg *precompressConfig) {
		cfg.gzipLevel = level
	}
}

// WithPrecompressBrotliLevel sets the brotli compression level.
// Default: brotli.BestCompression.
func WithPrecompressBrotliLevel(level int) PrecompressOption {
	return func(cfg *precompressConfig) {
		cfg.brotliLevel = max(brotli.BestSpeed, min(level, brotli.BestCompression))
	}
}

// WithoutGzip skips .gz siblings (brotli only).
func WithoutGzip() PrecompressOption {
	return func(cfg *precompressConfig) {
		cfg.skipGzip = true
	}
}

// WithoutBrotli skips .br siblings (gzip only).
func WithoutBrotli() PrecompressOption {
	return func(cfg *precompressConfig) {
		cfg.skipBrotli = true
	}
}

// Precompress walks dir and writes .gz and .br sibling files for
// compressible assets, the build-time companion to the chain's encoded
// resolver (ChainConfig.Compressed). Siblings that are newer than their
// source are left alone, so repeated runs only do new work.
//
// Typically invoked from an asset build step:
//
//	if err := assets.Precompress("./public"); err != nil {
//	    log.Fatal(err)
//	}
func Precompress(dir string, opts ...PrecompressOption) error {
	cfg := &precompressConfig{
		minSize:     1024,
		extensions:  defaultCompressibleExtensions,
		gzipLevel:   gzip.BestCompression,
		brotliLevel: brotli.BestCompression,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !cfg.extensions[filepath.Ext(p)] {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() < cfg.minSize {
			return nil
		}
		if !cfg.skipGzip {
			if err := compressSibling(p, ".gz", info, func(w io.Writer) (io.WriteCloser, error) {
				return gzip.NewWriterLevel(w, cfg.gzipLevel)
			}); err != nil {
				return err
			}
		}
		if !cfg.skipBrotli {
			if err := compressSibling(p, ".br", info, func(w io.Writer) (io.WriteCloser, error) {
				return brotli.NewWriterLevel(w, cfg.brotliLevel), nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// compressSibling writes src compressed to src+ext unless an up-to-date
// sibling already exists.
func compressSibling(src, ext string, srcInfo fs.FileInfo, newWriter func(io.Writer) (io.WriteCloser, error)) error {
	dst := src + ext
	if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	cw, err := newWriter(out)
	if err != nil {
		out.Close()
		return err
	}
	if _, err := io.Copy(cw, in); err != nil {
		cw.Close()
		out.Close()
		return fmt.Errorf("compress %s: %w", dst, err)
	}
	if err := cw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
