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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/logging"
	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/rds"
)

var (
	waitStatus  string
	waitDeleted bool
	waitTimeout time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait <type> <id> {--status <status> | --deleted}",
	Short: "Wait for an RDS resource to reach a state",
	Long: `Poll RDS until a resource reaches a status or disappears.

Supported types:
  instance, cluster                                   --status or --deleted
  parameter-group, cluster-parameter-group            --deleted

Timeouts default to the TEST_TIMEOUTS entry for the wait.

Examples:
  rdse2e wait instance ref-db-instance-abc123 --status available
  rdse2e wait cluster ref-db-cluster-abc123 --deleted --timeout 30m
  rdse2e wait parameter-group ref-paramgrp-abc123 --deleted`,
	Args: cobra.ExactArgs(2),
	RunE: runWait,
}

func init() {
	waitCmd.Flags().StringVar(&waitStatus, "status", "", "Status to wait for")
	waitCmd.Flags().BoolVar(&waitDeleted, "deleted", false, "Wait until the resource no longer exists")
	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 0, "Maximum time to wait")
	waitCmd.MarkFlagsMutuallyExclusive("status", "deleted")
	waitCmd.MarkFlagsOneRequired("status", "deleted")
}

// waitTarget is a resolved wait: which poll to run and its named timeout.
type waitTarget struct {
	kind    rds.Kind
	timeout config.Timeout
	base    poll.Config
	// run has the shape of an Observer wait method expression
	run     func(o *rds.Observer, ctx context.Context, id string, cfg poll.Config) error
}

func resolveWait(resourceType, status string, deleted bool) (*waitTarget, error) {
	kind, err := normalizeKind(resourceType)
	if err != nil {
		return nil, err
	}

	if deleted {
		switch kind {
		case rds.KindDBInstance:
			return &waitTarget{kind: kind, timeout: config.DBInstanceDeleted, base: poll.DeletionConfig(), run: (*rds.Observer).WaitForDBInstanceDeleted}, nil
		case rds.KindDBCluster:
			return &waitTarget{kind: kind, timeout: config.DBClusterDeleted, base: poll.DeletionConfig(), run: (*rds.Observer).WaitForDBClusterDeleted}, nil
		case rds.KindDBParameterGroup:
			return &waitTarget{kind: kind, timeout: config.ParameterGroupDeleted, base: poll.DeletionConfig(), run: (*rds.Observer).WaitForDBParameterGroupDeleted}, nil
		case rds.KindDBClusterParameterGroup:
			return &waitTarget{kind: kind, timeout: config.ParameterGroupDeleted, base: poll.DeletionConfig(), run: (*rds.Observer).WaitForDBClusterParameterGroupDeleted}, nil
		}
		return nil, fmt.Errorf("waiting for deletion is not supported for %s", kind)
	}

	switch kind {
	case rds.KindDBInstance:
		return &waitTarget{
			kind:    kind,
			timeout: config.DBInstanceAvailable,
			base:    poll.DefaultConfig(),
			run: func(o *rds.Observer, ctx context.Context, id string, cfg poll.Config) error {
				return o.WaitForDBInstance(ctx, id, rds.InstanceStatusMatches(status), cfg)
			},
		}, nil
	case rds.KindDBCluster:
		return &waitTarget{
			kind:    kind,
			timeout: config.DBClusterAvailable,
			base:    poll.DefaultConfig(),
			run: func(o *rds.Observer, ctx context.Context, id string, cfg poll.Config) error {
				return o.WaitForDBCluster(ctx, id, rds.ClusterStatusMatches(status), cfg)
			},
		}, nil
	}
	return nil, fmt.Errorf("waiting for a status is not supported for %s", kind)
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	id := args[1]
	target, err := resolveWait(args[0], waitStatus, waitDeleted)
	if err != nil {
		return err
	}

	pollCfg := cfg.WaitTimeouts.Poll(target.timeout, target.base)
	if waitTimeout > 0 {
		pollCfg = pollCfg.WithTimeout(waitTimeout)
	}

	want := waitStatus
	if waitDeleted {
		want = "deleted"
	}

	if dryRun {
		fmt.Printf("[DRY-RUN] Would wait up to %s for %s '%s' to be %s\n", pollCfg.Timeout, target.kind, id, want)
		return nil
	}

	return logging.Run(cmd.Context(), func(ctx context.Context) error {
		observer, err := newObserver(ctx, cfg)
		if err != nil {
			return err
		}

		printVerbose("Waiting up to %s for %s '%s' to be %s", pollCfg.Timeout, target.kind, id, want)
		start := time.Now()
		if err := target.run(observer, ctx, id, pollCfg); err != nil {
			return err
		}

		newPrinter().PrintResult(fmt.Sprintf("%s '%s' is %s after %s", target.kind, id, want, time.Since(start).Round(time.Second)))
		return nil
	})
}

// normalizeKind accepts short names such as "instance" as well as kind names.
func normalizeKind(s string) (rds.Kind, error) {
	switch strings.ToLower(s) {
	case "instance", "instances", "dbinstance":
		return rds.KindDBInstance, nil
	case "cluster", "clusters", "dbcluster":
		return rds.KindDBCluster, nil
	case "parameter-group", "paramgroup", "pg":
		return rds.KindDBParameterGroup, nil
	case "cluster-parameter-group", "clusterparamgroup", "cpg":
		return rds.KindDBClusterParameterGroup, nil
	default:
		return rds.ParseKind(s)
	}
}
