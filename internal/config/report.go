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

package config

import (
	"strconv"
	"strings"

	"github.com/rds-controller-e2e/internal/storage"
)

// DefaultReportCompression is applied to archived sweep reports.
const DefaultReportCompression = storage.CompressionGzip

// ReportFromEnv reads the sweep report archive settings. It returns nil when
// RDSE2E_REPORT_TYPE is unset. Environment variable names:
//   - RDSE2E_REPORT_TYPE: local, s3, gcs or azure
//   - RDSE2E_REPORT_BUCKET: S3 or GCS bucket, or Azure container
//   - RDSE2E_REPORT_PREFIX: object prefix
//   - RDSE2E_REPORT_DIR: directory for the local backend
//   - RDSE2E_REPORT_ENDPOINT: S3 endpoint or Azure service URL override
//   - RDSE2E_REPORT_PATH_STYLE: "true" for path-style S3 addressing
//   - RDSE2E_REPORT_COMPRESSION: none, gzip, lz4 or zstd (default gzip)
//   - RDSE2E_REPORT_COMPRESSION_LEVEL: codec level, 0 for the default
//   - GOOGLE_APPLICATION_CREDENTIALS: GCS service account file
//   - AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY: Azure shared key
//
// S3 reuses the AWS region and static credentials of the RDS connection.
func ReportFromEnv(getEnv func(string) string, conn *Config) (*storage.Config, error) {
	typ := storage.Type(strings.ToLower(getEnv("RDSE2E_REPORT_TYPE")))
	if typ == "" {
		return nil, nil
	}

	cfg := &storage.Config{
		Type:            typ,
		Bucket:          getEnv("RDSE2E_REPORT_BUCKET"),
		Prefix:          getEnv("RDSE2E_REPORT_PREFIX"),
		Dir:             getEnv("RDSE2E_REPORT_DIR"),
		Endpoint:        getEnv("RDSE2E_REPORT_ENDPOINT"),
		ForcePathStyle:  getEnv("RDSE2E_REPORT_PATH_STYLE") == "true",
		Compression:     getEnv("RDSE2E_REPORT_COMPRESSION"),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS"),
		StorageAccount:  getEnv("AZURE_STORAGE_ACCOUNT"),
		AccountKey:      getEnv("AZURE_STORAGE_KEY"),
	}
	if conn != nil {
		cfg.Region = conn.Region
		cfg.AccessKeyID = conn.AccessKeyID
		cfg.SecretAccessKey = conn.SecretAccessKey
	}
	if cfg.Compression == "" {
		cfg.Compression = DefaultReportCompression
	}
	if level := getEnv("RDSE2E_REPORT_COMPRESSION_LEVEL"); level != "" {
		n, err := strconv.Atoi(level)
		if err != nil {
			return nil, &ValidationError{Field: "RDSE2E_REPORT_COMPRESSION_LEVEL", Message: "must be an integer"}
		}
		cfg.Level = n
	}

	switch typ {
	case storage.TypeLocal:
		if cfg.Dir == "" {
			return nil, &ValidationError{Field: "RDSE2E_REPORT_DIR", Message: "required for local reports"}
		}
	case storage.TypeS3, storage.TypeGCS, storage.TypeAzure:
		if cfg.Bucket == "" {
			return nil, &ValidationError{Field: "RDSE2E_REPORT_BUCKET", Message: "required for " + string(typ) + " reports"}
		}
	default:
		return nil, &ValidationError{Field: "RDSE2E_REPORT_TYPE", Message: "must be one of local, s3, gcs, azure"}
	}
	if _, err := storage.NewCompressor(cfg.Compression, cfg.Level); err != nil {
		return nil, &ValidationError{Field: "RDSE2E_REPORT_COMPRESSION", Message: err.Error()}
	}

	return cfg, nil
}
