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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	// Metric namespace
	namespace = "rdse2e"

	// Label names
	labelKind    = "kind"
	labelOutcome = "outcome"
	labelResult  = "result"
	labelStatus  = "status"
	labelMode    = "mode"
)

// Status values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

var (
	// Poll metrics

	// PollAttemptsTotal tracks every fetch made by a poller, by outcome
	PollAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_attempts_total",
			Help:      "Total number of poll attempts by resource kind and outcome",
		},
		[]string{labelKind, labelOutcome},
	)

	// PollDurationSeconds tracks how long waits take to finish
	PollDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of condition waits in seconds",
			Buckets:   []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600, 1200, 2400},
		},
		[]string{labelKind, labelResult},
	)

	// API retry metrics

	// APIRetriesTotal tracks retried control-plane API calls
	APIRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_retries_total",
			Help:      "Total number of retried API calls by final status",
		},
		[]string{labelStatus},
	)

	// Sweep metrics

	// SweepDeletedTotal tracks deletions submitted by the sweeper
	SweepDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_deleted_total",
			Help:      "Total number of deletions submitted by the sweeper",
		},
		[]string{labelKind, labelStatus},
	)

	// SweepRunsTotal tracks sweep runs by mode (stale or force)
	SweepRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Total number of sweep runs by mode",
		},
		[]string{labelMode},
	)
)

func init() {
	metrics.Registry.MustRegister(
		PollAttemptsTotal,
		PollDurationSeconds,
		APIRetriesTotal,
		SweepDeletedTotal,
		SweepRunsTotal,
	)
}

// RecordPollAttempt records one poll attempt
func RecordPollAttempt(kind, outcome string) {
	PollAttemptsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObservePollDuration records the duration of a finished wait
func ObservePollDuration(kind, result string, seconds float64) {
	PollDurationSeconds.WithLabelValues(kind, result).Observe(seconds)
}

// RecordAPIRetry records the final status of a retried API call
func RecordAPIRetry(status string) {
	APIRetriesTotal.WithLabelValues(status).Inc()
}

// RecordSweepDeletion records a deletion submitted by the sweeper
func RecordSweepDeletion(kind, status string) {
	SweepDeletedTotal.WithLabelValues(kind, status).Inc()
}

// RecordSweepRun records a sweep run
func RecordSweepRun(mode string) {
	SweepRunsTotal.WithLabelValues(mode).Inc()
}
