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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlconfig "sigs.k8s.io/controller-runtime/pkg/client/config"

	"github.com/rds-controller-e2e/cmd/rdse2e/internal"
	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/logging"
	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/secret"
)

var (
	// Global flags
	verbose      bool
	outputFormat string
	dryRun       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rdse2e",
	Short: "Tooling for the RDS controller end-to-end tests",
	Long: `rdse2e sweeps RDS resources left behind by end-to-end test runs and waits
for RDS resources to reach a state.

Environment Variables:
  RDSE2E_REGION              AWS region (falls back to AWS_REGION) [required]
  RDSE2E_ENDPOINT            RDS endpoint override
  RDSE2E_ACCESS_KEY_ID       Static access key (with RDSE2E_SECRET_ACCESS_KEY)
  RDSE2E_SWEEP_MAX_AGE       Age of stale resources (default 24h)
  RDSE2E_API_TIMEOUT         Timeout of a single API call (default 60s)
  TEST_TIMEOUTS              JSON object of wait timeouts in seconds
  RDSE2E_REPORT_TYPE         Sweep report archive (local|s3|gcs|azure)
  RDSE2E_REPORT_BUCKET       Bucket or container of the report archive

Example:
  export AWS_REGION=us-west-2

  rdse2e sweep --dry-run
  rdse2e sweep --force --wait
  rdse2e wait instance ref-db-instance-abc123 --status available`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose)
	},
}

// Execute adds all child commands to the root command and runs it until it returns
// or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table|yaml|json)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print what would be done without executing")

	// Add subcommands
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(waitCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

// getConfig loads configuration from environment variables
func getConfig() (*config.Config, error) {
	cfg, err := config.FromEnv(os.Getenv)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf(
			"configuration error: %w\n\n"+
				"Please ensure the AWS region is set:\n"+
				"  RDSE2E_REGION or AWS_REGION",
			err,
		)
	}
	return cfg, nil
}

// newObserver connects to RDS with the configured region, endpoint and timeouts.
func newObserver(ctx context.Context, cfg *config.Config) (*rds.Observer, error) {
	client, err := rds.NewClient(ctx, cfg.ClientConfig())
	if err != nil {
		return nil, err
	}
	return rds.NewObserver(client, rds.WithTimeouts(cfg.Timeouts)), nil
}

// newSecretManager reads secrets from the cluster of the current kubeconfig context.
func newSecretManager() (*secret.Manager, error) {
	restConfig, err := ctrlconfig.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	c, err := client.New(restConfig, client.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return secret.NewManager(c), nil
}

func newPrinter() *internal.Printer {
	return internal.NewPrinter(internal.ParseOutputFormat(outputFormat), os.Stdout)
}

// printVerbose prints verbose output if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf("[VERBOSE] "+format+"\n", args...)
	}
}
