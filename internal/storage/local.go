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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend implements Backend on a local directory
type LocalBackend struct {
	basePath string
}

// NewLocalBackend creates a backend rooted at dir
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("local directory is required")
	}
	return &LocalBackend{basePath: dir}, nil
}

// Write writes data to the file at the specified path
func (b *LocalBackend) Write(_ context.Context, path string, reader io.Reader) error {
	fullPath := filepath.Join(b.basePath, path)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		// Clean up partial file on error
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to write data to %s: %w", fullPath, err)
	}

	return nil
}

// Read reads the file at the specified path
func (b *LocalBackend) Read(_ context.Context, path string) (io.ReadCloser, error) {
	fullPath := filepath.Join(b.basePath, path)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", fullPath, err)
	}

	return file, nil
}

// Delete deletes the file at the specified path
func (b *LocalBackend) Delete(_ context.Context, path string) error {
	fullPath := filepath.Join(b.basePath, path)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	return nil
}

// Exists checks if a file exists at the specified path
func (b *LocalBackend) Exists(_ context.Context, path string) (bool, error) {
	fullPath := filepath.Join(b.basePath, path)

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", fullPath, err)
	}

	return true, nil
}

// List lists files whose relative path starts with prefix
func (b *LocalBackend) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}

	err := filepath.Walk(b.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(b.basePath, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if !strings.HasPrefix(relPath, prefix) {
			return nil
		}

		objects = append(objects, ObjectInfo{
			Path:         relPath,
			Size:         info.Size(),
			LastModified: info.ModTime().Unix(),
		})
		return nil
	})

	if err != nil {
		if os.IsNotExist(err) {
			return []ObjectInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return objects, nil
}

// Close is a no-op
func (b *LocalBackend) Close() error {
	return nil
}
