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
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/rds-controller-e2e/internal/metrics"
)

// RetryConfig defines retry behavior with exponential backoff
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (0 = no retries, -1 = unlimited until MaxInterval reached)
	MaxRetries int
	// InitialInterval is the backoff duration after first failure (first attempt is immediate)
	InitialInterval time.Duration
	// MaxInterval is the maximum backoff duration - interval never exceeds this
	MaxInterval time.Duration
	// Multiplier is the factor by which the interval increases each retry
	Multiplier float64
	// RandomizationFactor adds jitter to avoid thundering herd (0-1)
	RandomizationFactor float64
}

// DefaultRetryConfig returns sensible defaults for most operations
// Sequence: immediate -> 1s -> 2s -> 4s
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          3,
		InitialInterval:     1 * time.Second,
		MaxInterval:         30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.1,
	}
}

// APIRetryConfig returns the config for RDS and S3 API calls: 5 attempts in total
// Sequence: immediate -> 2s -> 4s -> 8s -> 16s (capped at 60s)
func APIRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          4,
		InitialInterval:     2 * time.Second,
		MaxInterval:         60 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.2,
	}
}

// DeleteRetryConfig returns config for delete calls issued by the sweeper
// Sequence: immediate -> 5s -> 10s
func DeleteRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          2,
		InitialInterval:     5 * time.Second,
		MaxInterval:         60 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.1,
	}
}

// NoRetryConfig returns a config that performs a single attempt.
func NoRetryConfig() RetryConfig {
	return RetryConfig{Multiplier: 1}
}

// RetryResult contains the outcome of a retry operation
type RetryResult struct {
	// Attempts is the number of attempts made
	Attempts int
	// LastError is the last error encountered (nil if successful)
	LastError error
	// TotalTime is the total duration of all attempts
	TotalTime time.Duration
	// LastInterval is the last backoff interval used
	LastInterval time.Duration
}

// RetryWithBackoff executes fn with exponential backoff on failure
// First attempt is immediate, subsequent retries use exponential backoff
// Intervals are capped at MaxInterval
func RetryWithBackoff(ctx context.Context, config RetryConfig, fn func() error) RetryResult {
	startTime := time.Now()
	var lastErr error
	interval := time.Duration(0) // First attempt is immediate

	maxAttempts := config.MaxRetries + 1
	if config.MaxRetries < 0 {
		maxAttempts = 1000 // Effectively unlimited but with a safety cap
	}

	result := func(attempts int, err error) RetryResult {
		if attempts > 1 {
			if err == nil {
				metrics.RecordAPIRetry(metrics.StatusSuccess)
			} else {
				metrics.RecordAPIRetry(metrics.StatusFailure)
			}
		}
		return RetryResult{
			Attempts:     attempts,
			LastError:    err,
			TotalTime:    time.Since(startTime),
			LastInterval: interval,
		}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Wait before attempt (0 for first attempt)
		if interval > 0 {
			select {
			case <-ctx.Done():
				return result(attempt, ctx.Err())
			case <-time.After(interval):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return result(attempt+1, nil)
		}

		if !IsRetryableError(lastErr) {
			return result(attempt+1, lastErr)
		}

		// Calculate next interval with exponential backoff
		if attempt == 0 {
			interval = config.InitialInterval
		} else {
			interval = time.Duration(float64(interval) * config.Multiplier)
		}

		if interval > config.MaxInterval {
			interval = config.MaxInterval
		}

		// Apply jitter
		if config.RandomizationFactor > 0 {
			delta := config.RandomizationFactor * float64(interval)
			minInterval := float64(interval) - delta
			maxInterval := float64(interval) + delta
			interval = time.Duration(minInterval + (rand.Float64() * (maxInterval - minInterval)))
		}
	}

	return result(maxAttempts, lastErr)
}

// RetryValue is RetryWithBackoff for calls that return a value.
func RetryValue[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, RetryResult) {
	var value T
	result := RetryWithBackoff(ctx, config, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, result
}

// retryableAPICodes are AWS error codes that indicate throttling or a transient service fault
var retryableAPICodes = map[string]struct{}{
	"Throttling":                             {},
	"ThrottlingException":                    {},
	"ThrottledException":                     {},
	"RequestThrottledException":              {},
	"TooManyRequestsException":               {},
	"RequestLimitExceeded":                   {},
	"ProvisionedThroughputExceededException": {},
	"InternalFailure":                        {},
	"InternalError":                          {},
	"ServiceUnavailable":                     {},
	"RequestTimeout":                         {},
	"RequestTimeoutException":                {},
	"PriorRequestNotComplete":                {},
}

// IsRetryableError determines if an error should trigger a retry
// Returns true for throttling, 5xx responses and transient network errors
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation by the caller is never retried
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := retryableAPICodes[apiErr.ErrorCode()]; ok {
			return true
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return true
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() >= 500 {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Check for known transient error strings
	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"deadline exceeded",
		"temporary failure",
		"connection timed out",
		"network is unreachable",
		"no route to host",
		"broken pipe",
		"connection closed",
		"eof",
		"unavailable",
		"try again",
		"rate exceeded",
		"throttl",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
