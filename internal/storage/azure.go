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
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// AzureBackend implements Backend for Azure Blob Storage
type AzureBackend struct {
	client        *azblob.Client
	containerName string
	prefix        string
}

// NewAzureBackend creates a new Azure Blob storage backend using a shared key
func NewAzureBackend(_ context.Context, cfg *Config) (*AzureBackend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("Azure container name is required")
	}
	if cfg.StorageAccount == "" {
		return nil, fmt.Errorf("Azure storage account is required")
	}
	if cfg.AccountKey == "" {
		return nil, fmt.Errorf("Azure storage account key is required")
	}

	serviceURL := cfg.Endpoint
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.StorageAccount)
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.StorageAccount, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	return &AzureBackend{
		client:        client,
		containerName: cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// buildKey creates the full key path including prefix
func (b *AzureBackend) buildKey(objectPath string) string {
	return joinKey(b.prefix, objectPath)
}

// Write writes data to Azure Blob at the specified path
func (b *AzureBackend) Write(ctx context.Context, objectPath string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if _, err := b.client.UploadBuffer(ctx, b.containerName, b.buildKey(objectPath), data, nil); err != nil {
		return fmt.Errorf("failed to upload to Azure Blob: %w", err)
	}

	return nil
}

// Read reads data from Azure Blob at the specified path
func (b *AzureBackend) Read(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	resp, err := b.client.DownloadStream(ctx, b.containerName, b.buildKey(objectPath), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, objectPath)
		}
		return nil, fmt.Errorf("failed to download from Azure Blob: %w", err)
	}

	return resp.Body, nil
}

// Delete deletes the object at the specified path
func (b *AzureBackend) Delete(ctx context.Context, objectPath string) error {
	if _, err := b.client.DeleteBlob(ctx, b.containerName, b.buildKey(objectPath), nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete from Azure Blob: %w", err)
	}

	return nil
}

// Exists checks if an object exists at the specified path
func (b *AzureBackend) Exists(ctx context.Context, objectPath string) (bool, error) {
	blobClient := b.client.ServiceClient().NewContainerClient(b.containerName).NewBlobClient(b.buildKey(objectPath))
	if _, err := blobClient.GetProperties(ctx, &blob.GetPropertiesOptions{}); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blob existence: %w", err)
	}

	return true, nil
}

// List lists objects with the specified prefix
func (b *AzureBackend) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	fullPrefix := b.buildKey(prefix)
	objects := []ObjectInfo{}

	pager := b.client.ServiceClient().NewContainerClient(b.containerName).NewListBlobsFlatPager(&container.ListBlobsFlatOptions{
		Prefix: &fullPrefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}

		for _, item := range page.Segment.BlobItems {
			info := ObjectInfo{Path: relativeKey(b.prefix, *item.Name)}
			if item.Properties != nil {
				if item.Properties.LastModified != nil {
					info.LastModified = item.Properties.LastModified.Unix()
				}
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
			}
			objects = append(objects, info)
		}
	}

	return objects, nil
}

// Close is a no-op for Azure
func (b *AzureBackend) Close() error {
	return nil
}
