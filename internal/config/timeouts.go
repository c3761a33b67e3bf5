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

package config

import (
	"encoding/json"
	"time"

	"github.com/rds-controller-e2e/internal/poll"
)

// TestTimeoutsEnvVar is the environment variable where specific timeouts can be
// set for the e2e suite
const TestTimeoutsEnvVar = "TEST_TIMEOUTS"

// Timeout names a wait whose duration is limited in the e2e suite.
// The text representation is the field name in the TEST_TIMEOUTS JSON object.
type Timeout string

const (
	DBInstanceAvailable     Timeout = "dbInstanceAvailable"
	DBInstanceDeleted       Timeout = "dbInstanceDeleted"
	DBClusterAvailable      Timeout = "dbClusterAvailable"
	DBClusterDeleted        Timeout = "dbClusterDeleted"
	ParameterGroupDeleted   Timeout = "parameterGroupDeleted"
	ResourceSynced          Timeout = "resourceSynced"
	ResourceConsumed        Timeout = "resourceConsumed"
	ResourceDeleted         Timeout = "resourceDeleted"
	TerminalConditionRaised Timeout = "terminalConditionRaised"
	SweepDrained            Timeout = "sweepDrained"
)

// DefaultTestTimeouts contains the default timeout in seconds for each wait
var DefaultTestTimeouts = map[Timeout]int{
	DBInstanceAvailable:     2400,
	DBInstanceDeleted:       1800,
	DBClusterAvailable:      1200,
	DBClusterDeleted:        1200,
	ParameterGroupDeleted:   600,
	ResourceSynced:          600,
	ResourceConsumed:        60,
	ResourceDeleted:         300,
	TerminalConditionRaised: 300,
	SweepDrained:            300,
}

// Timeouts maps each wait to its limit in seconds.
type Timeouts map[Timeout]int

// TimeoutsFromEnv returns the default timeouts overridden by the TEST_TIMEOUTS JSON object.
func TimeoutsFromEnv(getEnv func(string) string) (Timeouts, error) {
	timeouts := Timeouts{}
	for k, v := range DefaultTestTimeouts {
		timeouts[k] = v
	}

	raw := getEnv(TestTimeoutsEnvVar)
	if raw == "" {
		return timeouts, nil
	}

	var overrides map[Timeout]int
	if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
		return nil, &ValidationError{Field: TestTimeoutsEnvVar, Message: "not a valid JSON object of seconds: " + err.Error()}
	}
	for k, v := range overrides {
		if v <= 0 {
			return nil, &ValidationError{Field: TestTimeoutsEnvVar, Message: "timeout " + string(k) + " must be positive"}
		}
		timeouts[k] = v
	}
	return timeouts, nil
}

// Get returns the limit for t. Unknown names fall back to the default table, then to zero.
func (t Timeouts) Get(name Timeout) time.Duration {
	if secs, ok := t[name]; ok {
		return time.Duration(secs) * time.Second
	}
	return time.Duration(DefaultTestTimeouts[name]) * time.Second
}

// Poll returns base with its timeout replaced by the limit for name.
func (t Timeouts) Poll(name Timeout, base poll.Config) poll.Config {
	if d := t.Get(name); d > 0 {
		return base.WithTimeout(d)
	}
	return base
}
