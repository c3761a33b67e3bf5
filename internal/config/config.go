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

// Package config loads the settings shared by the CLI and the e2e suite from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/storage"
	"github.com/rds-controller-e2e/internal/util"
)

// Defaults
const (
	DefaultNamespace   = "default"
	DefaultCRDGroup    = "rds.services.k8s.aws"
	DefaultCRDVersion  = "v1alpha1"
	DefaultSweepMaxAge = 24 * time.Hour
)

// ValidationError reports an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// Config holds the settings for talking to AWS and to the cluster under test.
type Config struct {
	// AWS connection
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string

	// Custom resources
	Namespace  string
	CRDGroup   string
	CRDVersion string

	// SweepMaxAge is the age above which leftover test resources are swept
	SweepMaxAge time.Duration

	// Timeouts bounds individual API calls
	Timeouts util.TimeoutConfig

	// WaitTimeouts bounds the named waits of the e2e suite
	WaitTimeouts Timeouts

	// RunSlow enables specs labelled slow
	RunSlow bool

	// Report is where sweep reports are archived; nil disables archiving
	Report *storage.Config
}

// FromEnv creates a Config from environment variables.
// Environment variable names:
//   - RDSE2E_REGION: AWS region, falls back to AWS_REGION
//   - RDSE2E_ENDPOINT: RDS endpoint override (e.g., a local emulator)
//   - RDSE2E_ACCESS_KEY_ID, RDSE2E_SECRET_ACCESS_KEY: static credentials
//   - RDSE2E_NAMESPACE: namespace for custom resources (default "default")
//   - RDSE2E_CRD_GROUP: API group of the RDS custom resources
//   - RDSE2E_CRD_VERSION: API version of the RDS custom resources
//   - RDSE2E_SWEEP_MAX_AGE: age of stale resources to sweep (e.g., "24h")
//   - RDSE2E_API_TIMEOUT: timeout of a single API call (e.g., "60s")
//   - RDSE2E_RUN_SLOW: "true" to run slow specs
//   - TEST_TIMEOUTS: JSON object of wait timeouts in seconds
//   - RDSE2E_REPORT_*: sweep report archive, see ReportFromEnv
func FromEnv(getEnv func(string) string) (*Config, error) {
	cfg := &Config{
		Region:          getEnv("RDSE2E_REGION"),
		Endpoint:        getEnv("RDSE2E_ENDPOINT"),
		AccessKeyID:     getEnv("RDSE2E_ACCESS_KEY_ID"),
		SecretAccessKey: getEnv("RDSE2E_SECRET_ACCESS_KEY"),
		Namespace:       getEnv("RDSE2E_NAMESPACE"),
		CRDGroup:        getEnv("RDSE2E_CRD_GROUP"),
		CRDVersion:      getEnv("RDSE2E_CRD_VERSION"),
		SweepMaxAge:     DefaultSweepMaxAge,
		Timeouts:        util.DefaultTimeoutConfig(),
		RunSlow:         getEnv("RDSE2E_RUN_SLOW") == "true",
	}

	// Set defaults
	if cfg.Region == "" {
		cfg.Region = getEnv("AWS_REGION")
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.CRDGroup == "" {
		cfg.CRDGroup = DefaultCRDGroup
	}
	if cfg.CRDVersion == "" {
		cfg.CRDVersion = DefaultCRDVersion
	}

	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, &ValidationError{Field: "RDSE2E_ACCESS_KEY_ID", Message: "access key ID and secret access key must be set together"}
	}

	if age := getEnv("RDSE2E_SWEEP_MAX_AGE"); age != "" {
		d, err := time.ParseDuration(age)
		if err != nil {
			return nil, &ValidationError{Field: "RDSE2E_SWEEP_MAX_AGE", Message: "invalid duration format"}
		}
		if d <= 0 {
			return nil, &ValidationError{Field: "RDSE2E_SWEEP_MAX_AGE", Message: "must be positive"}
		}
		cfg.SweepMaxAge = d
	}

	if timeout := getEnv("RDSE2E_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, &ValidationError{Field: "RDSE2E_API_TIMEOUT", Message: "invalid duration format"}
		}
		cfg.Timeouts.APITimeout = d
	}

	timeouts, err := TimeoutsFromEnv(getEnv)
	if err != nil {
		return nil, err
	}
	cfg.WaitTimeouts = timeouts

	report, err := ReportFromEnv(getEnv, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Report = report

	return cfg, nil
}

// Validate checks the settings needed to reach AWS.
func (c *Config) Validate() error {
	if c.Region == "" {
		return &ValidationError{Field: "RDSE2E_REGION", Message: "region is required (or set AWS_REGION)"}
	}
	return nil
}

// ClientConfig returns the AWS connection settings.
func (c *Config) ClientConfig() rds.ClientConfig {
	return rds.ClientConfig{
		Region:          c.Region,
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}
