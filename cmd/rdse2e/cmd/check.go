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
	"github.com/rds-controller-e2e/internal/dbcheck"
	"github.com/rds-controller-e2e/internal/logging"
	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/secret"
)

// defaultPasswordKey is the key of the master password in secrets created by the e2e suite
const defaultPasswordKey = "master_user_password"

var (
	checkPasswordEnv    string
	checkPasswordSecret string
	checkTLS            bool
	checkTimeout        time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check <instance|cluster> <id>",
	Short: "Check that an RDS database accepts SQL connections",
	Long: `Connect to an instance or to the writer endpoint of a cluster with its master
user and report the server version. Connection failures are retried until
--timeout; a rejected password fails immediately.

Examples:
  export RDSE2E_MASTER_PASSWORD=...
  rdse2e check instance ref-db-instance-abc123
  rdse2e check cluster ref-db-cluster-abc123 --tls -o yaml

  # Read the password from the secret referenced by the custom resource
  rdse2e check instance ref-db-instance-abc123 --password-secret default/dbinstancesecrets-abc`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPasswordEnv, "password-env", "RDSE2E_MASTER_PASSWORD", "Environment variable holding the master password")
	checkCmd.Flags().StringVar(&checkPasswordSecret, "password-secret", "", "Kubernetes secret holding the master password, as namespace/name:key")
	checkCmd.MarkFlagsMutuallyExclusive("password-env", "password-secret")
	checkCmd.Flags().BoolVar(&checkTLS, "tls", false, "Require TLS")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "Maximum time to wait for a connection")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	kind, err := normalizeKind(args[0])
	if err != nil {
		return err
	}
	id := args[1]

	return logging.Run(cmd.Context(), func(ctx context.Context) error {
		password, err := resolvePassword(ctx, cfg.Namespace)
		if err != nil {
			return err
		}

		observer, err := newObserver(ctx, cfg)
		if err != nil {
			return err
		}

		ep, err := resolveEndpoint(ctx, observer, kind, id, password)
		if err != nil {
			return err
		}
		ep.TLS = checkTLS

		if dryRun {
			fmt.Printf("[DRY-RUN] Would connect to %s:%d as %s\n", ep.Host, ep.Port, ep.Username)
			return nil
		}

		printVerbose("Connecting to %s:%d as %s", ep.Host, ep.Port, ep.Username)
		probe, err := dbcheck.NewProber().WaitReachable(ctx, ep, poll.FastConfig().WithTimeout(checkTimeout))
		if err != nil {
			return err
		}

		return newPrinter().PrintProbe(internal.ProbeOutput{
			Healthy: true,
			Engine:  ep.Engine,
			Host:    ep.Host,
			Port:    ep.Port,
			Version: probe.Version,
			Latency: probe.Latency.Round(time.Millisecond).String(),
		})
	})
}

// resolvePassword reads the master password from --password-secret when set, otherwise
// from the --password-env variable.
func resolvePassword(ctx context.Context, namespace string) (string, error) {
	if checkPasswordSecret == "" {
		return os.Getenv(checkPasswordEnv), nil
	}
	ref, err := secret.ParseRef(checkPasswordSecret, namespace, defaultPasswordKey)
	if err != nil {
		return "", err
	}
	manager, err := newSecretManager()
	if err != nil {
		return "", err
	}
	return manager.GetValue(ctx, ref)
}

func resolveEndpoint(ctx context.Context, observer *rds.Observer, kind rds.Kind, id, password string) (dbcheck.Endpoint, error) {
	switch kind {
	case rds.KindDBInstance:
		instance, err := observer.GetDBInstance(ctx, id)
		if err != nil {
			return dbcheck.Endpoint{}, err
		}
		if instance == nil {
			return dbcheck.Endpoint{}, fmt.Errorf("instance %s not found", id)
		}
		return dbcheck.InstanceEndpoint(instance, password)
	case rds.KindDBCluster:
		cluster, err := observer.GetDBCluster(ctx, id)
		if err != nil {
			return dbcheck.Endpoint{}, err
		}
		if cluster == nil {
			return dbcheck.Endpoint{}, fmt.Errorf("cluster %s not found", id)
		}
		return dbcheck.ClusterEndpoint(cluster, password)
	default:
		return dbcheck.Endpoint{}, fmt.Errorf("check is not supported for %s", kind)
	}
}
