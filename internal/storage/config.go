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
	"path"
	"strings"
)

// Type selects a storage backend
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
	TypeGCS   Type = "gcs"
	TypeAzure Type = "azure"
)

// Config holds configuration for creating a storage backend
type Config struct {
	Type Type

	// Bucket is the S3 or GCS bucket, or the Azure container
	Bucket string
	// Prefix is prepended to every object path
	Prefix string

	// Endpoint overrides the S3 endpoint or the Azure service URL
	Endpoint string

	// S3
	Region          string
	ForcePathStyle  bool
	AccessKeyID     string
	SecretAccessKey string

	// GCS; empty uses application default credentials
	CredentialsFile string

	// Azure
	StorageAccount string
	AccountKey     string

	// Local
	Dir string

	// Compression applied by an Archive, e.g. "gzip"
	Compression string
	Level       int
}

// NewBackend creates a new storage backend based on the configuration
func NewBackend(ctx context.Context, config *Config) (Backend, error) {
	if config == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}

	switch config.Type {
	case TypeLocal:
		return NewLocalBackend(config.Dir)
	case TypeS3:
		return NewS3Backend(ctx, config)
	case TypeGCS:
		return NewGCSBackend(ctx, config)
	case TypeAzure:
		return NewAzureBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported storage type: %q", config.Type)
	}
}

// joinKey creates the full key path including prefix
func joinKey(prefix, objectPath string) string {
	if prefix == "" {
		return objectPath
	}
	return path.Join(prefix, objectPath)
}

// relativeKey strips prefix from a full key
func relativeKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}
