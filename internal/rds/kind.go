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

package rds

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies a class of RDS resource.
type Kind string

const (
	KindDBInstance              Kind = "db_instance"
	KindDBCluster               Kind = "db_cluster"
	KindDBParameterGroup        Kind = "db_parameter_group"
	KindDBClusterParameterGroup Kind = "db_cluster_parameter_group"
	KindDBSnapshot              Kind = "db_snapshot"
	KindDBClusterSnapshot       Kind = "db_cluster_snapshot"
	KindGlobalCluster           Kind = "global_cluster"
)

// AllKinds lists every kind in dependency order: dependents come before what they depend on.
var AllKinds = []Kind{
	KindDBInstance,
	KindDBCluster,
	KindDBSnapshot,
	KindDBClusterSnapshot,
	KindGlobalCluster,
	KindDBParameterGroup,
	KindDBClusterParameterGroup,
}

// ParseKind accepts a kind name such as "db_instance" or "db-instance".
func ParseKind(s string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	for _, k := range AllKinds {
		if string(k) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// HasCreateTime reports whether resources of this kind carry a creation timestamp.
func (k Kind) HasCreateTime() bool {
	switch k {
	case KindDBInstance, KindDBCluster, KindDBSnapshot, KindDBClusterSnapshot:
		return true
	default:
		return false
	}
}

// Resource is the kind-independent view of a listed RDS resource.
type Resource struct {
	Kind Kind
	ID   string
	// Status is empty for kinds that do not report one
	Status string
	// CreatedAt is nil for kinds that do not report a creation time
	CreatedAt *time.Time
}

// OlderThan reports whether the resource was created before cutoff.
// Resources without a creation time are never considered old.
func (r Resource) OlderThan(cutoff time.Time) bool {
	return r.CreatedAt != nil && r.CreatedAt.Before(cutoff)
}
