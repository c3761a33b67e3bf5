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

package util

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig defines per-call timeouts for control-plane API requests.
// Zero values mean no timeout (use parent context's deadline).
type TimeoutConfig struct {
	// APITimeout bounds a single Describe/Create/Modify/Delete call
	APITimeout time.Duration

	// ListTimeout bounds a paginated listing, all pages included
	ListTimeout time.Duration
}

// DefaultTimeoutConfig returns the default request timeouts:
//   - API: 60s
//   - List: 5m, sweeps page through every resource of a kind
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		APITimeout:  60 * time.Second,
		ListTimeout: 5 * time.Minute,
	}
}

// NoTimeoutConfig returns a config with no timeouts.
// Use this when the caller manages their own context deadlines.
func NoTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{}
}

// WithTimeout wraps a context with a timeout if the duration is positive.
// If duration is zero or negative, returns the original context and a no-op cancel function.
// Always call the returned cancel function to release resources.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// WithAPITimeout wraps a context with the API timeout from config.
func (c TimeoutConfig) WithAPITimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, c.APITimeout)
}

// WithListTimeout wraps a context with the list timeout from config.
func (c TimeoutConfig) WithListTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, c.ListTimeout)
}

// IsTimeoutError checks if an error is or wraps a context deadline exceeded error.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsCanceled checks if an error is or wraps a context canceled error.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsContextError checks if an error is a context-related error (timeout or canceled).
func IsContextError(err error) bool {
	return IsTimeoutError(err) || IsCanceled(err)
}
