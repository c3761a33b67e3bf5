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

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/storage"
)

// reportFlags override the RDSE2E_REPORT_* settings.
type reportFlags struct {
	typ         string
	bucket      string
	prefix      string
	dir         string
	compression string
}

func (f *reportFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.typ, "report-type", "", "Report archive type (local|s3|gcs|azure)")
	flags.StringVar(&f.bucket, "report-bucket", "", "Bucket or container of the report archive")
	flags.StringVar(&f.prefix, "report-prefix", "", "Object prefix in the report archive")
	flags.StringVar(&f.dir, "report-dir", "", "Directory of a local report archive")
	flags.StringVar(&f.compression, "report-compression", "", "Report compression (none|gzip|lz4|zstd)")
}

func (f *reportFlags) set() bool {
	return f.typ != "" || f.bucket != "" || f.prefix != "" || f.dir != "" || f.compression != ""
}

// resolve merges the flags into the archive settings from the environment. It returns
// nil when neither configures an archive.
func (f *reportFlags) resolve(cfg *config.Config) (*storage.Config, error) {
	report := cfg.Report
	if report == nil {
		if f.typ == "" {
			if f.set() {
				return nil, fmt.Errorf("--report-type is required when RDSE2E_REPORT_TYPE is not set")
			}
			return nil, nil
		}
		report = &storage.Config{
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Compression:     config.DefaultReportCompression,
		}
	} else {
		copied := *report
		report = &copied
	}

	if f.typ != "" {
		report.Type = storage.Type(f.typ)
	}
	if f.bucket != "" {
		report.Bucket = f.bucket
	}
	if f.prefix != "" {
		report.Prefix = f.prefix
	}
	if f.dir != "" {
		report.Dir = f.dir
	}
	if f.compression != "" {
		report.Compression = f.compression
	}
	return report, nil
}

// open returns the configured archive, or nil when none is configured.
func (f *reportFlags) open(ctx context.Context, cfg *config.Config) (*storage.Archive, error) {
	report, err := f.resolve(cfg)
	if err != nil || report == nil {
		return nil, err
	}
	archive, err := storage.OpenArchive(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to open report archive: %w", err)
	}
	return archive, nil
}
