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
	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/rds-controller-e2e/internal/poll"
)

// Status values reported by RDS for instances and clusters
const (
	StatusAvailable = "available"
	StatusCreating  = "creating"
	StatusModifying = "modifying"
	StatusDeleting  = "deleting"
)

// InstanceStatusMatches matches a present instance whose DBInstanceStatus equals status.
func InstanceStatusMatches(status string) poll.Predicate[rdstypes.DBInstance] {
	return func(i *rdstypes.DBInstance) bool {
		return i != nil && i.DBInstanceStatus != nil && *i.DBInstanceStatus == status
	}
}

// InstanceAttributeMatches matches a present instance whose attribute equals want.
func InstanceAttributeMatches[V comparable](attr func(*rdstypes.DBInstance) V, want V) poll.Predicate[rdstypes.DBInstance] {
	return func(i *rdstypes.DBInstance) bool {
		return i != nil && attr(i) == want
	}
}

// ClusterStatusMatches matches a present cluster whose Status equals status.
func ClusterStatusMatches(status string) poll.Predicate[rdstypes.DBCluster] {
	return func(c *rdstypes.DBCluster) bool {
		return c != nil && c.Status != nil && *c.Status == status
	}
}

// ClusterAttributeMatches matches a present cluster whose attribute equals want.
func ClusterAttributeMatches[V comparable](attr func(*rdstypes.DBCluster) V, want V) poll.Predicate[rdstypes.DBCluster] {
	return func(c *rdstypes.DBCluster) bool {
		return c != nil && attr(c) == want
	}
}

// DescribeInstance reports the status of an instance for transition logs.
func DescribeInstance(i *rdstypes.DBInstance) string {
	if i == nil {
		return poll.Absent
	}
	return statusOrUnknown(i.DBInstanceStatus)
}

// DescribeCluster reports the status of a cluster for transition logs.
func DescribeCluster(c *rdstypes.DBCluster) string {
	if c == nil {
		return poll.Absent
	}
	return statusOrUnknown(c.Status)
}

func statusOrUnknown(status *string) string {
	if status == nil {
		return "unknown"
	}
	return aws.ToString(status)
}

func absent[T any](v *T) bool {
	return v == nil
}
