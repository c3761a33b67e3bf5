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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSBackend implements Backend for Google Cloud Storage
type GCSBackend struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSBackend creates a new GCS storage backend
func NewGCSBackend(ctx context.Context, cfg *Config) (*GCSBackend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("GCS bucket name is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read GCS credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSBackend{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// buildKey creates the full key path including prefix
func (b *GCSBackend) buildKey(objectPath string) string {
	return joinKey(b.prefix, objectPath)
}

// Write writes data to GCS at the specified path
func (b *GCSBackend) Write(ctx context.Context, objectPath string, reader io.Reader) error {
	writer := b.client.Bucket(b.bucket).Object(b.buildKey(objectPath)).NewWriter(ctx)

	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return nil
}

// Read reads data from GCS at the specified path
func (b *GCSBackend) Read(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	reader, err := b.client.Bucket(b.bucket).Object(b.buildKey(objectPath)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, objectPath)
		}
		return nil, fmt.Errorf("failed to read from GCS: %w", err)
	}

	return reader, nil
}

// Delete deletes the object at the specified path
func (b *GCSBackend) Delete(ctx context.Context, objectPath string) error {
	if err := b.client.Bucket(b.bucket).Object(b.buildKey(objectPath)).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete from GCS: %w", err)
	}

	return nil
}

// Exists checks if an object exists at the specified path
func (b *GCSBackend) Exists(ctx context.Context, objectPath string) (bool, error) {
	if _, err := b.client.Bucket(b.bucket).Object(b.buildKey(objectPath)).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

// List lists objects with the specified prefix
func (b *GCSBackend) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{
		Prefix: b.buildKey(prefix),
	})

	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		objects = append(objects, ObjectInfo{
			Path:         relativeKey(b.prefix, attrs.Name),
			Size:         attrs.Size,
			LastModified: attrs.Updated.Unix(),
		})
	}

	return objects, nil
}

// Close closes the GCS client
func (b *GCSBackend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}
