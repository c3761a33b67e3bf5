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
	"fmt"
	"time"
)

// Config defines how long a wait lasts and how the interval between fetches grows.
// A Config is built once per wait call and is not shared between polls.
type Config struct {
	// Timeout is the total duration of the wait, measured from the first fetch
	Timeout time.Duration
	// BaseBackoff is the sleep after the first unsuccessful attempt
	BaseBackoff time.Duration
	// MaxBackoff caps every sleep, jitter included
	MaxBackoff time.Duration
	// JitterFraction adds up to JitterFraction*backoff of random delay (0-1)
	JitterFraction float64
	// MaxAttemptsBeforeTerminal is the number of consecutive transient fetch errors
	// tolerated before the wait fails terminally (0 = unlimited)
	MaxAttemptsBeforeTerminal int
}

// DefaultConfig returns the config used for waits on DB instances and clusters reaching a status.
// Sequence: 2s -> 4s -> 8s -> 15s -> 15s ... for up to 40 minutes
func DefaultConfig() Config {
	return Config{
		Timeout:        40 * time.Minute,
		BaseBackoff:    2 * time.Second,
		MaxBackoff:     15 * time.Second,
		JitterFraction: 0.2,
	}
}

// DeletionConfig returns the config used when waiting for a resource to disappear.
func DeletionConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 30 * time.Minute
	return cfg
}

// FastConfig returns a config for resources that converge quickly, such as parameter groups.
func FastConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Minute
	return cfg
}

// WithTimeout returns a copy of the config with a different overall timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}

// ConfigError reports an invalid Config.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid poll config: %s %s", e.Field, e.Message)
}

// Validate checks the invariants of the config.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return &ConfigError{Field: "Timeout", Message: "must be positive"}
	}
	if c.BaseBackoff <= 0 {
		return &ConfigError{Field: "BaseBackoff", Message: "must be positive"}
	}
	if c.BaseBackoff > c.MaxBackoff {
		return &ConfigError{Field: "BaseBackoff", Message: "must not exceed MaxBackoff"}
	}
	if c.JitterFraction < 0 || c.JitterFraction > 1 {
		return &ConfigError{Field: "JitterFraction", Message: "must be between 0 and 1"}
	}
	if c.MaxAttemptsBeforeTerminal < 0 {
		return &ConfigError{Field: "MaxAttemptsBeforeTerminal", Message: "must not be negative"}
	}
	return nil
}

// Backoff returns min(MaxBackoff, BaseBackoff * 2^attempt) for a zero-based attempt.
// The result is non-decreasing in attempt.
func (c Config) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	backoff := c.BaseBackoff
	for i := 0; i < attempt && backoff < c.MaxBackoff; i++ {
		backoff *= 2
	}
	if backoff > c.MaxBackoff {
		return c.MaxBackoff
	}
	return backoff
}

// sleepFor applies jitter to Backoff(attempt). r must return a value in [0, 1).
func (c Config) sleepFor(attempt int, r func() float64) time.Duration {
	backoff := c.Backoff(attempt)
	if c.JitterFraction > 0 && r != nil {
		backoff += time.Duration(c.JitterFraction * r() * float64(backoff))
	}
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}
