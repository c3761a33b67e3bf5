/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package storage

import (
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression algorithms
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionLZ4  = "lz4"
	CompressionZstd = "zstd"
)

// Compressor provides compression and decompression functionality
type Compressor interface {
	// Compress returns a writer that compresses data written to it
	Compress(w io.Writer) (io.WriteCloser, error)

	// Decompress returns a reader that decompresses data read from it
	Decompress(r io.Reader) (io.ReadCloser, error)

	// Extension returns the file extension for the compression algorithm
	Extension() string
}

// NewCompressor returns the compressor for algorithm. Level ranges over 1-9, zero
// selects the algorithm default.
func NewCompressor(algorithm string, level int) (Compressor, error) {
	switch strings.ToLower(algorithm) {
	case CompressionNone, "":
		return &noopCompressor{}, nil
	case CompressionGzip:
		return &gzipCompressor{level: level}, nil
	case CompressionLZ4:
		return &lz4Compressor{level: level}, nil
	case CompressionZstd:
		return &zstdCompressor{level: level}, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// CompressorForPath picks the compressor matching the extension of path.
func CompressorForPath(path string) Compressor {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return &gzipCompressor{}
	case strings.HasSuffix(path, ".lz4"):
		return &lz4Compressor{}
	case strings.HasSuffix(path, ".zst"):
		return &zstdCompressor{}
	default:
		return &noopCompressor{}
	}
}

// noopCompressor provides no compression
type noopCompressor struct{}

func (c *noopCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return &nopWriteCloser{w}, nil
}

func (c *noopCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (c *noopCompressor) Extension() string {
	return ""
}

// nopWriteCloser wraps a writer with a no-op Close method
type nopWriteCloser struct {
	io.Writer
}

func (w *nopWriteCloser) Close() error {
	return nil
}

// gzipCompressor provides gzip compression
type gzipCompressor struct {
	level int
}

func (c *gzipCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	level := c.level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	return gzip.NewWriterLevel(w, level)
}

func (c *gzipCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (c *gzipCompressor) Extension() string {
	return ".gz"
}

// lz4Compressor provides LZ4 compression
type lz4Compressor struct {
	level int
}

func (c *lz4Compressor) Compress(w io.Writer) (io.WriteCloser, error) {
	lz4Writer := lz4.NewWriter(w)
	if c.level > 0 {
		level := lz4.Fast
		switch {
		case c.level <= 3:
			level = lz4.Fast
		case c.level <= 6:
			level = lz4.Level5
		default:
			level = lz4.Level9
		}
		if err := lz4Writer.Apply(lz4.CompressionLevelOption(level)); err != nil {
			return nil, fmt.Errorf("failed to set lz4 compression level: %w", err)
		}
	}
	return lz4Writer, nil
}

func (c *lz4Compressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func (c *lz4Compressor) Extension() string {
	return ".lz4"
}

// zstdCompressor provides Zstandard compression
type zstdCompressor struct {
	level int
}

func (c *zstdCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	level := zstd.SpeedDefault
	if c.level > 0 {
		switch {
		case c.level <= 3:
			level = zstd.SpeedFastest
		case c.level <= 6:
			level = zstd.SpeedDefault
		default:
			level = zstd.SpeedBestCompression
		}
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(level))
}

func (c *zstdCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (c *zstdCompressor) Extension() string {
	return ".zst"
}
