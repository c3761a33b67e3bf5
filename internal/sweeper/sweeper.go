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

// Package sweeper deletes RDS resources left behind by earlier e2e runs.
//
// Resources are matched by name pattern per kind and deleted in dependency order:
// instances before clusters, clusters before snapshots and global clusters, and
// parameter groups last. In stale mode only resources older than MaxAge are removed;
// kinds that do not report a creation time are matched by name alone. Force mode
// ignores age. Listing and deletion errors are recorded in the Result and never
// abort the sweep.
package sweeper

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/internal/logging"
	"github.com/rds-controller-e2e/internal/metrics"
	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/rds"
)

// DefaultPatterns match the identifiers given to resources by the e2e suite.
var DefaultPatterns = map[rds.Kind]string{
	rds.KindDBInstance:              `^ref-db-instance-|^pg14-t3-micro-`,
	rds.KindDBCluster:               `^ref-db-cluster-`,
	rds.KindDBClusterParameterGroup: `^ref-clus-paramgrp-`,
	rds.KindDBParameterGroup:        `^ref-paramgrp-`,
	rds.KindDBSnapshot:              `^ref-snapshot-`,
	rds.KindDBClusterSnapshot:       `^ref-cluster-snapshot-`,
	rds.KindGlobalCluster:           `^ref-global-cluster-`,
}

// Sweep modes
const (
	ModeStale = "stale"
	ModeForce = "force"
)

// Defaults
const (
	DefaultMaxAge = 24 * time.Hour
	DefaultPause  = 5 * time.Second
)

// Inventory lists and deletes RDS resources. *rds.Observer implements it.
type Inventory interface {
	List(ctx context.Context, kind rds.Kind) ([]rds.Resource, error)
	Delete(ctx context.Context, kind rds.Kind, id string) error
}

var _ Inventory = (*rds.Observer)(nil)

// Options controls a single sweep.
type Options struct {
	// Force deletes every matching resource regardless of age
	Force bool
	// MaxAge is the minimum age of a resource swept in stale mode
	MaxAge time.Duration
	// Kinds restricts the sweep; empty sweeps every kind
	Kinds []rds.Kind
	// Patterns overrides DefaultPatterns per kind
	Patterns map[rds.Kind]string
	// DryRun lists what would be deleted without deleting
	DryRun bool
	// Pause is slept after each kind that had deletions
	Pause time.Duration
	// Wait blocks after each kind until its deleted resources are gone
	Wait       bool
	WaitConfig poll.Config
}

// DefaultOptions returns the options of a stale sweep over every kind.
func DefaultOptions() Options {
	return Options{
		MaxAge:     DefaultMaxAge,
		Pause:      DefaultPause,
		WaitConfig: poll.DeletionConfig(),
	}
}

func (o Options) mode() string {
	if o.Force {
		return ModeForce
	}
	return ModeStale
}

// Sweeper deletes leftover test resources through an Inventory.
type Sweeper struct {
	inventory Inventory
	clock     clock.Clock
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock sets the clock used for resource ages and pauses.
func WithClock(c clock.Clock) Option {
	return func(s *Sweeper) {
		s.clock = c
	}
}

// New creates a Sweeper.
func New(inventory Inventory, opts ...Option) *Sweeper {
	s := &Sweeper{
		inventory: inventory,
		clock:     clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep runs one sweep. The returned error reports invalid options only; failures
// on individual kinds or resources are recorded in the Result.
func (s *Sweeper) Sweep(ctx context.Context, opts Options) (*Result, error) {
	kinds, err := orderedKinds(opts.Kinds)
	if err != nil {
		return nil, err
	}
	patterns, err := compilePatterns(kinds, opts.Patterns)
	if err != nil {
		return nil, err
	}

	log := logf.FromContext(ctx).WithName("sweeper").WithValues("mode", opts.mode(), "dryRun", opts.DryRun)
	metrics.RecordSweepRun(opts.mode())

	now := s.clock.Now()
	result := &Result{
		RunID:     logging.IDFromContext(ctx),
		Mode:      opts.mode(),
		DryRun:    opts.DryRun,
		StartedAt: now,
		Entries:   []SweepEntry{},
	}
	if !opts.Force {
		result.MaxAge = opts.MaxAge.String()
	}
	cutoff := now.Add(-opts.MaxAge)

	log.Info("Starting sweep", "kinds", len(kinds))
	for i, kind := range kinds {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, KindError{Kind: kind, Error: err.Error()})
			break
		}

		deleted := s.sweepKind(ctx, log.WithValues("kind", kind), kind, patterns[kind], opts, cutoff, result)
		if deleted == 0 || opts.DryRun {
			continue
		}

		if opts.Wait {
			if err := s.waitGone(ctx, kind, idSet(result.deletedIDs(kind)), opts.WaitConfig); err != nil {
				log.Error(err, "Deleted resources did not disappear", "kind", kind)
				result.Errors = append(result.Errors, KindError{Kind: kind, Error: fmt.Sprintf("wait for deletion: %v", err)})
			}
		}

		if opts.Pause > 0 && i < len(kinds)-1 {
			s.sleep(ctx, opts.Pause)
		}
	}

	result.FinishedAt = s.clock.Now()
	summary := result.Summary()
	log.Info("Sweep finished",
		"deleted", summary.Deleted,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"planned", summary.Planned,
		"errors", summary.Errors)
	return result, nil
}

// sweepKind deletes the candidates of one kind and returns how many deletions succeeded.
func (s *Sweeper) sweepKind(ctx context.Context, log logr.Logger, kind rds.Kind, pattern *regexp.Regexp, opts Options, cutoff time.Time, result *Result) int {
	resources, err := s.inventory.List(ctx, kind)
	if err != nil {
		log.Error(err, "Failed to list resources")
		result.Errors = append(result.Errors, KindError{Kind: kind, Error: err.Error()})
		return 0
	}

	candidates := selectCandidates(resources, kind, pattern, opts.Force, cutoff)
	if len(candidates) == 0 {
		log.V(1).Info("No resources to sweep")
		return 0
	}
	log.Info("Found resources to sweep", "count", len(candidates))

	deleted := 0
	for _, r := range candidates {
		entry := SweepEntry{Kind: kind, ID: r.ID, Status: r.Status, CreatedAt: r.CreatedAt}

		switch {
		case opts.DryRun:
			entry.Action = ActionPlanned
			log.Info("Would delete resource", "id", r.ID)

		case r.Status == rds.StatusDeleting:
			entry.Action = ActionSkipped
			entry.Reason = "already deleting"
			metrics.RecordSweepDeletion(string(kind), metrics.StatusSkipped)

		default:
			err := s.inventory.Delete(ctx, kind, r.ID)
			switch {
			case err == nil:
				entry.Action = ActionDeleted
				deleted++
				metrics.RecordSweepDeletion(string(kind), metrics.StatusSuccess)
				log.Info("Deleted resource", "id", r.ID)
			case rds.IsInvalidState(err):
				entry.Action = ActionSkipped
				entry.Reason = err.Error()
				metrics.RecordSweepDeletion(string(kind), metrics.StatusSkipped)
				log.Info("Resource cannot be deleted in its current state", "id", r.ID, "error", err.Error())
			default:
				entry.Action = ActionFailed
				entry.Reason = err.Error()
				metrics.RecordSweepDeletion(string(kind), metrics.StatusFailure)
				log.Error(err, "Failed to delete resource", "id", r.ID)
			}
		}

		result.Entries = append(result.Entries, entry)
	}
	return deleted
}

// WaitForDeleted blocks until no resource of kind matches pattern.
func (s *Sweeper) WaitForDeleted(ctx context.Context, kind rds.Kind, pattern string, cfg poll.Config) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern for %s: %w", kind, err)
	}
	return s.waitGone(ctx, kind, func(r rds.Resource) bool { return re.MatchString(r.ID) }, cfg)
}

func (s *Sweeper) waitGone(ctx context.Context, kind rds.Kind, match func(rds.Resource) bool, cfg poll.Config) error {
	p := &poll.Poller[[]rds.Resource]{
		Kind: string(kind),
		Name: "sweep/" + string(kind),
		Fetch: func(ctx context.Context) (*[]rds.Resource, error) {
			resources, err := s.inventory.List(ctx, kind)
			if err != nil {
				return nil, err
			}
			var remaining []rds.Resource
			for _, r := range resources {
				if match(r) {
					remaining = append(remaining, r)
				}
			}
			return &remaining, nil
		},
		Match: func(remaining *[]rds.Resource) bool {
			return remaining != nil && len(*remaining) == 0
		},
		Describe: func(remaining *[]rds.Resource) string {
			if remaining == nil {
				return poll.Absent
			}
			return fmt.Sprintf("%d remaining", len(*remaining))
		},
		Config: cfg,
	}
	return p.Wait(ctx)
}

func (s *Sweeper) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-s.clock.After(d):
	}
}

func selectCandidates(resources []rds.Resource, kind rds.Kind, pattern *regexp.Regexp, force bool, cutoff time.Time) []rds.Resource {
	var candidates []rds.Resource
	for _, r := range resources {
		if !pattern.MatchString(r.ID) {
			continue
		}
		if !force && kind.HasCreateTime() && !r.OlderThan(cutoff) {
			continue
		}
		candidates = append(candidates, r)
	}
	return candidates
}

// orderedKinds returns the requested kinds in deletion order.
func orderedKinds(requested []rds.Kind) ([]rds.Kind, error) {
	if len(requested) == 0 {
		return rds.AllKinds, nil
	}
	want := make(map[rds.Kind]bool, len(requested))
	for _, k := range requested {
		if _, ok := DefaultPatterns[k]; !ok {
			return nil, fmt.Errorf("unknown resource kind %q", k)
		}
		want[k] = true
	}
	var kinds []rds.Kind
	for _, k := range rds.AllKinds {
		if want[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func compilePatterns(kinds []rds.Kind, overrides map[rds.Kind]string) (map[rds.Kind]*regexp.Regexp, error) {
	patterns := make(map[rds.Kind]*regexp.Regexp, len(kinds))
	for _, k := range kinds {
		pattern := DefaultPatterns[k]
		if p, ok := overrides[k]; ok {
			pattern = p
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", k, err)
		}
		patterns[k] = re
	}
	return patterns, nil
}

func idSet(ids []string) func(rds.Resource) bool {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(r rds.Resource) bool {
		_, ok := set[r.ID]
		return ok
	}
}
