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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rds-controller-e2e/cmd/rdse2e/internal"
	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/storage"
	"github.com/rds-controller-e2e/internal/sweeper"
)

var (
	archiveFlags     reportFlags
	reportOlderThan  time.Duration
	reportListPrefix string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect archived sweep reports",
	Long: `List, show and prune sweep reports stored by "rdse2e sweep".

The archive is configured with RDSE2E_REPORT_* or the --report-* flags.

Examples:
  rdse2e report list
  rdse2e report get sweeps/20261018T120000Z-a1b2c3d4.json.gz -o yaml
  rdse2e report prune --older-than 720h`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd.Context(), func(ctx context.Context, archive *storage.Archive) error {
			objects, err := archive.List(ctx, reportListPrefix)
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}
			rows := make([][]string, 0, len(objects))
			for _, obj := range objects {
				rows = append(rows, []string{
					obj.Path,
					internal.FormatSize(obj.Size),
					time.Unix(obj.LastModified, 0).UTC().Format(time.RFC3339),
				})
			}
			return newPrinter().PrintTable([]string{"PATH", "SIZE", "MODIFIED"}, rows)
		})
	},
}

var reportGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Show an archived report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd.Context(), func(ctx context.Context, archive *storage.Archive) error {
			result, err := sweeper.LoadReport(ctx, archive, args[0])
			if err != nil {
				return err
			}
			return newPrinter().PrintSweep(result)
		})
	},
}

var reportPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports older than --older-than",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd.Context(), func(ctx context.Context, archive *storage.Archive) error {
			cutoff := time.Now().Add(-reportOlderThan)
			if dryRun {
				objects, err := archive.List(ctx, sweeper.ReportPrefix)
				if err != nil {
					return err
				}
				for _, obj := range objects {
					if obj.LastModified < cutoff.Unix() {
						fmt.Printf("[DRY-RUN] Would delete %s\n", obj.Path)
					}
				}
				return nil
			}

			deleted, err := archive.Prune(ctx, sweeper.ReportPrefix, cutoff)
			for _, path := range deleted {
				printVerbose("Deleted %s", path)
			}
			if err != nil {
				return fmt.Errorf("failed to prune reports: %w", err)
			}
			newPrinter().PrintResult(fmt.Sprintf("Deleted %d reports older than %s", len(deleted), reportOlderThan))
			return nil
		})
	},
}

func init() {
	archiveFlags.register(reportCmd.PersistentFlags())
	reportListCmd.Flags().StringVar(&reportListPrefix, "prefix", sweeper.ReportPrefix, "Only list reports under this prefix")
	reportPruneCmd.Flags().DurationVar(&reportOlderThan, "older-than", 30*24*time.Hour, "Minimum age of pruned reports")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportGetCmd)
	reportCmd.AddCommand(reportPruneCmd)
}

// withArchive opens the configured archive for fn. The archive does not need AWS
// settings unless it lives in S3.
func withArchive(ctx context.Context, fn func(ctx context.Context, archive *storage.Archive) error) error {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	archive, err := archiveFlags.open(ctx, cfg)
	if err != nil {
		return err
	}
	if archive == nil {
		return fmt.Errorf("no report archive configured: set RDSE2E_REPORT_TYPE or --report-type")
	}
	defer archive.Close()

	return fn(ctx, archive)
}
