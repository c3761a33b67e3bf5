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
	"time"

	"github.com/spf13/cobra"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/cmd/rdse2e/internal"
	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/logging"
	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/storage"
	"github.com/rds-controller-e2e/internal/sweeper"
)

var (
	sweepForce    bool
	sweepMaxAge   time.Duration
	sweepKinds    []string
	sweepPatterns string
	sweepWait     bool
	sweepPause    time.Duration
	sweepSchedule string
	sweepReport   reportFlags
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete RDS resources left behind by e2e runs",
	Long: `Delete RDS resources whose identifiers match the e2e naming patterns.

By default only resources older than --max-age are deleted. Parameter groups and
global clusters carry no creation time and are matched by name alone.

Examples:
  # Show what a stale sweep would delete
  rdse2e sweep --dry-run

  # Delete everything the suite may have created and wait until it is gone
  rdse2e sweep --force --wait

  # Sweep resources named by another team's conventions
  rdse2e sweep --patterns-file patterns.yaml

  # Sweep only parameter groups
  rdse2e sweep --kind db-parameter-group --kind db-cluster-parameter-group

  # Sweep every hour and archive each report in S3
  rdse2e sweep --schedule "@every 1h" --report-type s3 --report-bucket e2e-reports`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepForce, "force", false, "Delete matching resources regardless of age")
	sweepCmd.Flags().DurationVar(&sweepMaxAge, "max-age", 0, "Minimum age of swept resources (default RDSE2E_SWEEP_MAX_AGE or 24h)")
	sweepCmd.Flags().StringSliceVar(&sweepKinds, "kind", nil, "Resource kinds to sweep (default all)")
	sweepCmd.Flags().StringVar(&sweepPatterns, "patterns-file", "", "YAML file mapping resource kinds to identifier patterns")
	sweepCmd.Flags().BoolVar(&sweepWait, "wait", false, "Wait until deleted resources are gone")
	sweepCmd.Flags().DurationVar(&sweepPause, "pause", sweeper.DefaultPause, "Pause after each kind with deletions")
	sweepCmd.Flags().StringVar(&sweepSchedule, "schedule", "", "Cron schedule for repeated sweeps, e.g. \"@every 1h\"")
	sweepReport.register(sweepCmd.Flags())
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	opts, err := sweepOptions(cfg)
	if err != nil {
		return err
	}

	return logging.Run(cmd.Context(), func(ctx context.Context) error {
		observer, err := newObserver(ctx, cfg)
		if err != nil {
			return err
		}

		archive, err := sweepReport.open(ctx, cfg)
		if err != nil {
			return err
		}
		if archive != nil {
			defer archive.Close()
		}

		printer := newPrinter()
		s := sweeper.New(observer)

		if sweepSchedule != "" {
			return s.RunScheduled(ctx, sweepSchedule, opts, func(ctx context.Context, result *sweeper.Result) {
				if err := reportSweep(ctx, printer, archive, result); err != nil {
					logf.FromContext(ctx).Error(err, "Failed to report sweep")
				}
			})
		}

		result, err := s.Sweep(ctx, opts)
		if err != nil {
			return err
		}
		if err := reportSweep(ctx, printer, archive, result); err != nil {
			return err
		}

		if result.HasFailures() {
			summary := result.Summary()
			return fmt.Errorf("sweep finished with %d failed deletions and %d errors", summary.Failed, summary.Errors)
		}
		return nil
	})
}

func sweepOptions(cfg *config.Config) (sweeper.Options, error) {
	opts := sweeper.DefaultOptions()
	opts.Force = sweepForce
	opts.DryRun = dryRun
	opts.Wait = sweepWait
	opts.Pause = sweepPause
	opts.MaxAge = cfg.SweepMaxAge
	if sweepMaxAge > 0 {
		opts.MaxAge = sweepMaxAge
	}
	opts.WaitConfig = cfg.WaitTimeouts.Poll(config.SweepDrained, opts.WaitConfig)

	for _, k := range sweepKinds {
		kind, err := rds.ParseKind(k)
		if err != nil {
			return opts, err
		}
		opts.Kinds = append(opts.Kinds, kind)
	}

	if sweepPatterns != "" {
		patterns, err := sweeper.LoadPatternsFile(sweepPatterns)
		if err != nil {
			return opts, err
		}
		opts.Patterns = patterns
	}
	return opts, nil
}

func reportSweep(ctx context.Context, printer *internal.Printer, archive *storage.Archive, result *sweeper.Result) error {
	if err := printer.PrintSweep(result); err != nil {
		return err
	}
	if archive == nil {
		return nil
	}
	path, err := sweeper.Publish(ctx, archive, result)
	if err != nil {
		return fmt.Errorf("failed to publish sweep report: %w", err)
	}
	printVerbose("Sweep report stored at %s", path)
	return nil
}
