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

// Package storage archives sweep reports in object storage or on a local directory.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Read when no object exists at the path.
var ErrNotFound = errors.New("object not found")

// Backend defines the interface for storage backends
type Backend interface {
	// Write writes data to the storage backend at the specified path
	Write(ctx context.Context, path string, reader io.Reader) error

	// Read reads data from the storage backend at the specified path
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete deletes the object at the specified path
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists at the specified path
	Exists(ctx context.Context, path string) (bool, error)

	// List lists objects with the specified prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Close closes the storage backend and releases resources
	Close() error
}

// ObjectInfo contains information about a stored object
type ObjectInfo struct {
	// Path is relative to the backend prefix
	Path string `json:"path"`

	// Size is the size in bytes
	Size int64 `json:"size"`

	// LastModified is the last modification time as Unix timestamp
	LastModified int64 `json:"lastModified"`
}
