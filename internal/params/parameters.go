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

// Package params compares and batches the parameter overrides of DB parameter groups
// and DB cluster parameter groups.
package params

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/rds-controller-e2e/internal/poll"
)

var (
	ErrUnknownParameter      = errors.New("unknown parameter")
	ErrUnmodifiableParameter = errors.New("parameter is not modifiable")
)

// MaxModifyBatch is the largest number of parameters RDS accepts in one modify call.
const MaxModifyBatch = 20

// Parameters maps parameter names to values. A nil value means the parameter is unset.
type Parameters map[string]*string

// NewErrUnknownParameter returns a terminal error about an unknown parameter.
// It stays terminal until the parameter is removed from the overrides.
func NewErrUnknownParameter(name string) error {
	return poll.MarkTerminal(fmt.Errorf("%w: %s", ErrUnknownParameter, name))
}

// NewErrUnmodifiableParameter returns a terminal error about a parameter that may not be modified.
func NewErrUnmodifiableParameter(name string) error {
	return poll.MarkTerminal(fmt.Errorf("%w: %s", ErrUnmodifiableParameter, name))
}

// GetParametersDifference compares two Parameters maps and returns the parameters to add
// or update, the unchanged parameters, and the parameters to remove.
// A nil map is treated as empty. Two nil values are equal; nil and non-nil differ.
func GetParametersDifference(to, from Parameters) (added, unchanged, removed Parameters) {
	added = Parameters{}
	unchanged = Parameters{}
	removed = Parameters{}

	for toKey, toVal := range to {
		fromVal, exists := from[toKey]
		switch {
		case !exists:
			added[toKey] = toVal
		case toVal == nil && fromVal == nil:
			unchanged[toKey] = nil
		case toVal == nil || fromVal == nil:
			added[toKey] = toVal
		case *toVal == *fromVal:
			unchanged[toKey] = toVal
		default:
			added[toKey] = toVal
		}
	}

	for fromKey, fromVal := range from {
		if _, exists := to[fromKey]; !exists {
			removed[fromKey] = fromVal
		}
	}

	return added, unchanged, removed
}

// ChunkParameters splits input into maps of at most chunkSize parameters. Every key lands
// in exactly one chunk; keys are assigned in sorted order so the split is deterministic.
// A chunkSize below one puts everything in a single chunk. Empty input yields no chunks.
func ChunkParameters(input Parameters, chunkSize int) []Parameters {
	if len(input) == 0 {
		return nil
	}
	if chunkSize < 1 {
		chunkSize = len(input)
	}

	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	chunks := make([]Parameters, 0, (len(keys)+chunkSize-1)/chunkSize)
	for start := 0; start < len(keys); start += chunkSize {
		end := min(start+chunkSize, len(keys))
		chunk := make(Parameters, end-start)
		for _, k := range keys[start:end] {
			chunk[k] = input[k]
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// FromMap converts plain string values, as found in a custom resource spec.
func FromMap(values map[string]string) Parameters {
	p := make(Parameters, len(values))
	for k, v := range values {
		p[k] = aws.String(v)
	}
	return p
}

// FromRDS collects RDS parameter records. When names are given only those are kept.
func FromRDS(records []rdstypes.Parameter, names ...string) Parameters {
	var wanted map[string]struct{}
	if len(names) > 0 {
		wanted = make(map[string]struct{}, len(names))
		for _, n := range names {
			wanted[n] = struct{}{}
		}
	}

	p := Parameters{}
	for _, r := range records {
		name := aws.ToString(r.ParameterName)
		if wanted != nil {
			if _, ok := wanted[name]; !ok {
				continue
			}
		}
		p[name] = r.ParameterValue
	}
	return p
}

// Values flattens p to plain strings; unset parameters map to "".
func (p Parameters) Values() map[string]string {
	values := make(map[string]string, len(p))
	for k, v := range p {
		values[k] = aws.ToString(v)
	}
	return values
}
