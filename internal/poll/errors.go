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
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout matches every TimeoutError with errors.Is
	ErrTimeout = errors.New("timed out waiting for condition")
	// ErrTerminal matches every TerminalError with errors.Is
	ErrTerminal = errors.New("terminal state reached")
)

// TimeoutError is returned when the deadline passes before the predicate holds.
type TimeoutError struct {
	// Name identifies the polled resource
	Name string
	// Timeout is the configured wait duration
	Timeout time.Duration
	// Elapsed is how long the wait ran; shorter than Timeout when the context ended it
	Elapsed time.Duration
	// Attempts is the number of fetches performed
	Attempts int
	// LastState describes the last observed snapshot ("" if none was observed)
	LastState string
	// Snapshot is the last observed snapshot, nil if absent or never fetched
	Snapshot any
	// Err is the last transient error or the context error, if any
	Err error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s (%d attempts)", e.Elapsed.Round(time.Millisecond), e.Name, e.Attempts)
	if e.Elapsed < e.Timeout {
		msg += fmt.Sprintf("; timeout was %s", e.Timeout)
	}
	if e.LastState != "" {
		msg += fmt.Sprintf("; last state: %s", e.LastState)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("; last error: %v", e.Err)
	}
	return msg
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// TerminalError is returned when the desired condition can no longer be reached.
type TerminalError struct {
	// Name identifies the polled resource; filled in by the poller when empty
	Name string
	// Reason describes the disqualifying state
	Reason string
	// Snapshot is the snapshot that carried the disqualifying state, if any
	Snapshot any
	// Err is the underlying cause, if any
	Err error
}

func (e *TerminalError) Error() string {
	msg := "terminal state reached"
	if e.Name != "" {
		msg = fmt.Sprintf("%s reached a terminal state", e.Name)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is reports whether target is ErrTerminal.
func (e *TerminalError) Is(target error) bool {
	return target == ErrTerminal
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// Terminal builds the error a fetch returns to declare its snapshot unrecoverable.
func Terminal(reason string, snapshot any) error {
	return &TerminalError{Reason: reason, Snapshot: snapshot}
}

// Terminalf is Terminal with a formatted reason and no snapshot.
func Terminalf(format string, args ...any) error {
	return &TerminalError{Reason: fmt.Sprintf(format, args...)}
}

// MarkTerminal wraps err so that a poller stops on it instead of retrying.
func MarkTerminal(err error) error {
	if err == nil || IsTerminal(err) {
		return err
	}
	return &TerminalError{Err: err}
}

// IsTerminal reports whether err carries a TerminalError.
func IsTerminal(err error) bool {
	var terminal *TerminalError
	return errors.As(err, &terminal)
}

// IsTimeout reports whether err carries a TimeoutError.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
