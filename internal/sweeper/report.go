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

package sweeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/duration"

	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/storage"
)

// ReportPrefix is the archive prefix under which sweep reports are stored.
const ReportPrefix = "sweeps/"

// Action is what the sweeper did with a matched resource.
type Action string

const (
	ActionDeleted Action = "deleted"
	ActionFailed  Action = "failed"
	ActionSkipped Action = "skipped"
	// ActionPlanned marks resources a dry run would delete
	ActionPlanned Action = "planned"
)

// SweepEntry records one matched resource.
type SweepEntry struct {
	Kind      rds.Kind   `json:"kind"`
	ID        string     `json:"id"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Action    Action     `json:"action"`
	Reason    string     `json:"reason,omitempty"`
}

// KindError records a failure that affected a whole kind.
type KindError struct {
	Kind  rds.Kind `json:"kind"`
	Error string   `json:"error"`
}

// Result is the report of one sweep.
type Result struct {
	RunID      string       `json:"runID,omitempty"`
	Mode       string       `json:"mode"`
	DryRun     bool         `json:"dryRun,omitempty"`
	MaxAge     string       `json:"maxAge,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Entries    []SweepEntry `json:"entries"`
	Errors     []KindError  `json:"errors,omitempty"`
}

// Summary counts entries per action.
type Summary struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Planned int `json:"planned"`
	Errors  int `json:"errors"`
}

// Summary counts the entries of r per action.
func (r *Result) Summary() Summary {
	s := Summary{Errors: len(r.Errors)}
	for _, e := range r.Entries {
		switch e.Action {
		case ActionDeleted:
			s.Deleted++
		case ActionFailed:
			s.Failed++
		case ActionSkipped:
			s.Skipped++
		case ActionPlanned:
			s.Planned++
		}
	}
	return s
}

// HasFailures reports whether any deletion or listing failed.
func (r *Result) HasFailures() bool {
	s := r.Summary()
	return s.Failed > 0 || s.Errors > 0
}

func (r *Result) deletedIDs(kind rds.Kind) []string {
	var ids []string
	for _, e := range r.Entries {
		if e.Kind == kind && e.Action == ActionDeleted {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Table returns the entries as rows for tabular output. Ages are relative to FinishedAt.
func (r *Result) Table() ([]string, [][]string) {
	headers := []string{"KIND", "ID", "STATUS", "AGE", "ACTION", "REASON"}
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		age := "-"
		if e.CreatedAt != nil {
			age = duration.HumanDuration(r.FinishedAt.Sub(*e.CreatedAt))
		}
		rows = append(rows, []string{string(e.Kind), e.ID, e.Status, age, string(e.Action), e.Reason})
	}
	return headers, rows
}

// ReportName returns the archive name of r, without compression extension.
func (r *Result) ReportName() string {
	name := ReportPrefix + r.StartedAt.UTC().Format("20060102T150405Z")
	if r.RunID != "" {
		name += "-" + r.RunID
	}
	return name + ".json"
}

// Publish stores r in archive and returns the stored path.
func Publish(ctx context.Context, archive *storage.Archive, r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode sweep report: %w", err)
	}
	return archive.Put(ctx, r.ReportName(), data)
}

// LoadReport reads a report previously stored by Publish.
func LoadReport(ctx context.Context, archive *storage.Archive, path string) (*Result, error) {
	data, err := archive.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode sweep report %s: %w", path, err)
	}
	return &r, nil
}
