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
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"
)

// Archive stores documents on a Backend, compressed with a single algorithm.
type Archive struct {
	backend    Backend
	compressor Compressor
}

// NewArchive wraps backend. A nil compressor stores documents as is.
func NewArchive(backend Backend, compressor Compressor) *Archive {
	if compressor == nil {
		compressor = &noopCompressor{}
	}
	return &Archive{backend: backend, compressor: compressor}
}

// OpenArchive creates the backend and compressor described by cfg.
func OpenArchive(ctx context.Context, cfg *Config) (*Archive, error) {
	compressor, err := NewCompressor(cfg.Compression, cfg.Level)
	if err != nil {
		return nil, err
	}
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	return NewArchive(backend, compressor), nil
}

// Put compresses data and stores it under name plus the compressor extension.
// It refuses to overwrite an existing object and returns the stored path.
func (a *Archive) Put(ctx context.Context, name string, data []byte) (string, error) {
	path := name + a.compressor.Extension()

	exists, err := a.backend.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("object %s already exists", path)
	}

	var buf bytes.Buffer
	w, err := a.compressor.Compress(&buf)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to compress data: %w", err)
	}
	// Close flushes buffered compressed data
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize compression: %w", err)
	}

	if err := a.backend.Write(ctx, path, &buf); err != nil {
		return "", err
	}
	return path, nil
}

// Get reads the object at path and decompresses it according to its extension.
func (a *Archive) Get(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.backend.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dr, err := CompressorForPath(path).Decompress(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dr.Close()

	data, err := io.ReadAll(dr)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// List returns the objects under prefix, newest first.
func (a *Archive) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects, err := a.backend.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].LastModified != objects[j].LastModified {
			return objects[i].LastModified > objects[j].LastModified
		}
		return objects[i].Path > objects[j].Path
	})
	return objects, nil
}

// Prune deletes the objects under prefix last modified before cutoff and returns
// the paths it deleted.
func (a *Archive) Prune(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
	objects, err := a.backend.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, obj := range objects {
		if obj.LastModified >= cutoff.Unix() {
			continue
		}
		if err := a.backend.Delete(ctx, obj.Path); err != nil {
			return deleted, err
		}
		deleted = append(deleted, obj.Path)
	}
	return deleted, nil
}

// Close releases the backend.
func (a *Archive) Close() error {
	return a.backend.Close()
}
