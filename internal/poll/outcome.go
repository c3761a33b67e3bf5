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

// OutcomeKind classifies a single poll attempt.
type OutcomeKind int

const (
	// OutcomeNotYetMatched means the snapshot was fetched but the predicate does not hold
	OutcomeNotYetMatched OutcomeKind = iota
	// OutcomeMatched means the predicate holds and the wait is over
	OutcomeMatched
	// OutcomeTerminalFailure means the fetch declared the snapshot unrecoverable
	OutcomeTerminalFailure
	// OutcomeTransientError means the fetch failed and should be retried
	OutcomeTransientError
)

// String returns the label used in logs and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMatched:
		return "matched"
	case OutcomeNotYetMatched:
		return "not_matched"
	case OutcomeTerminalFailure:
		return "terminal"
	case OutcomeTransientError:
		return "transient_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one attempt. State is set for Matched and NotYetMatched,
// Err for TerminalFailure and TransientError.
type Outcome[T any] struct {
	Kind     OutcomeKind
	Snapshot *T
	State    string
	Err      error
}
