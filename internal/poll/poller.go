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

package poll

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/internal/metrics"
)

// FetchFunc returns the current snapshot of a resource, or nil when it does not exist.
// Errors are retried unless they carry a TerminalError.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// Predicate decides whether the wait is over. It must accept a nil snapshot.
type Predicate[T any] func(snapshot *T) bool

// DescribeFunc returns the discriminating field of a snapshot, typically its status.
// Changes in the returned value are logged as transitions.
type DescribeFunc[T any] func(snapshot *T) string

// Absent is the state reported for a nil snapshot by the default DescribeFunc.
const Absent = "absent"

// Poller blocks until a fetched snapshot satisfies Match, the fetch reports a terminal
// state, or the configured timeout elapses.
type Poller[T any] struct {
	// Kind labels metrics, e.g. "db_instance"
	Kind string
	// Name identifies the resource in logs and errors
	Name     string
	Fetch    FetchFunc[T]
	Match    Predicate[T]
	Describe DescribeFunc[T]
	Config   Config

	// Log defaults to the logger stored in the context
	Log logr.Logger
	// Clock defaults to the real clock
	Clock clock.Clock
	// Rand returns values in [0, 1) for jitter; defaults to math/rand/v2
	Rand func() float64
}

// Until is a shorthand for building a Poller and calling Wait.
func Until[T any](ctx context.Context, name string, cfg Config, fetch FetchFunc[T], match Predicate[T], describe DescribeFunc[T]) error {
	p := &Poller[T]{
		Name:     name,
		Fetch:    fetch,
		Match:    match,
		Describe: describe,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// Attempt performs a single fetch and classifies the result.
func (p *Poller[T]) Attempt(ctx context.Context) Outcome[T] {
	snapshot, err := p.Fetch(ctx)
	if err != nil {
		if IsTerminal(err) {
			return Outcome[T]{Kind: OutcomeTerminalFailure, Snapshot: snapshot, Err: err}
		}
		return Outcome[T]{Kind: OutcomeTransientError, Err: err}
	}

	state := p.describe(snapshot)
	if p.Match(snapshot) {
		return Outcome[T]{Kind: OutcomeMatched, Snapshot: snapshot, State: state}
	}
	return Outcome[T]{Kind: OutcomeNotYetMatched, Snapshot: snapshot, State: state}
}

// Wait runs the poll loop. It returns nil once Match holds, a *TerminalError when the
// fetch declares an unrecoverable state or the transient error budget runs out, and a
// *TimeoutError when the deadline passes or ctx is done.
func (p *Poller[T]) Wait(ctx context.Context) error {
	if err := p.Config.Validate(); err != nil {
		return err
	}

	clk := p.clock()
	log := p.logger(ctx).WithValues("kind", p.kind(), "name", p.Name)
	start := clk.Now()
	deadline := start.Add(p.Config.Timeout)

	var (
		last      *T
		lastState string
		lastErr   error
		attempts  int
		transient int
	)

	finish := func(result string) {
		metrics.ObservePollDuration(p.kind(), result, clk.Since(start).Seconds())
	}
	timedOut := func(cause error) error {
		finish("timeout")
		if cause == nil {
			cause = lastErr
		}
		log.Info("Timed out waiting for condition", "attempts", attempts, "lastState", lastState)
		return &TimeoutError{
			Name:      p.Name,
			Timeout:   p.Config.Timeout,
			Elapsed:   clk.Since(start),
			Attempts:  attempts,
			LastState: lastState,
			Snapshot:  snapshotValue(last),
			Err:       cause,
		}
	}

	log.V(1).Info("Waiting for condition", "timeout", p.Config.Timeout)

	for attempt := 0; ; attempt++ {
		if !clk.Now().Before(deadline) {
			return timedOut(nil)
		}

		attempts++
		outcome := p.Attempt(ctx)
		metrics.RecordPollAttempt(p.kind(), outcome.Kind.String())

		switch outcome.Kind {
		case OutcomeMatched:
			if outcome.State != lastState {
				log.Info("State changed", "from", lastState, "to", outcome.State, "attempt", attempts)
			}
			log.Info("Condition matched", "attempts", attempts, "elapsed", clk.Since(start).Round(time.Millisecond))
			finish("matched")
			return nil

		case OutcomeNotYetMatched:
			transient = 0
			last = outcome.Snapshot
			if attempts == 1 || outcome.State != lastState {
				log.Info("State changed", "from", lastState, "to", outcome.State, "attempt", attempts)
				lastState = outcome.State
			}

		case OutcomeTerminalFailure:
			finish("terminal")
			var terminal *TerminalError
			if errors.As(outcome.Err, &terminal) && terminal.Name == "" {
				terminal.Name = p.Name
			}
			log.Error(outcome.Err, "Terminal state reached", "attempts", attempts, "lastState", lastState)
			return outcome.Err

		case OutcomeTransientError:
			transient++
			lastErr = outcome.Err
			// logr has no warning level; V(0) info with the error attached is the warning tier
			log.Info("Transient error while fetching, will retry", "attempt", attempts, "transient", true, "error", outcome.Err.Error())
			if budget := p.Config.MaxAttemptsBeforeTerminal; budget > 0 && transient >= budget {
				finish("terminal")
				return &TerminalError{
					Name:     p.Name,
					Reason:   "transient error budget exhausted",
					Snapshot: snapshotValue(last),
					Err:      outcome.Err,
				}
			}
		}

		sleep := p.Config.sleepFor(attempt, p.random())
		if remaining := deadline.Sub(clk.Now()); sleep > remaining {
			sleep = remaining
		}
		if sleep <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return timedOut(ctx.Err())
		case <-clk.After(sleep):
		}
	}
}

func (p *Poller[T]) describe(snapshot *T) string {
	if p.Describe != nil {
		return p.Describe(snapshot)
	}
	if snapshot == nil {
		return Absent
	}
	return "present"
}

func (p *Poller[T]) kind() string {
	if p.Kind == "" {
		return "resource"
	}
	return p.Kind
}

func (p *Poller[T]) logger(ctx context.Context) logr.Logger {
	if p.Log.GetSink() != nil {
		return p.Log
	}
	return logf.FromContext(ctx)
}

func (p *Poller[T]) clock() clock.Clock {
	if p.Clock != nil {
		return p.Clock
	}
	return clock.RealClock{}
}

func (p *Poller[T]) random() func() float64 {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.Float64
}

// snapshotValue keeps a typed nil pointer from turning into a non-nil interface.
func snapshotValue[T any](snapshot *T) any {
	if snapshot == nil {
		return nil
	}
	return snapshot
}
