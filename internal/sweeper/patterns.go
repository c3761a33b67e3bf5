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

package sweeper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/rds-controller-e2e/internal/rds"
)

// LoadPatterns reads per-kind name patterns from a YAML mapping of kind to regular
// expression, for example:
//
//	db_instance: ^ref-db-instance-|^my-team-
//	db-cluster: ^ref-db-cluster-
//
// Kinds may be written with dashes or underscores. Kinds that are not listed keep
// their default pattern.
func LoadPatterns(r io.Reader) (map[rds.Kind]string, error) {
	var raw map[string]string
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[rds.Kind]string{}, nil
		}
		return nil, fmt.Errorf("failed to decode patterns: %w", err)
	}

	patterns := make(map[rds.Kind]string, len(raw))
	for key, pattern := range raw {
		kind, err := rds.ParseKind(key)
		if err != nil {
			return nil, err
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", kind, err)
		}
		if _, dup := patterns[kind]; dup {
			return nil, fmt.Errorf("pattern for %s given more than once", kind)
		}
		patterns[kind] = pattern
	}
	return patterns, nil
}

// LoadPatternsFile is LoadPatterns on the named file.
func LoadPatternsFile(path string) (map[rds.Kind]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open patterns file: %w", err)
	}
	defer f.Close()

	return LoadPatterns(f)
}
