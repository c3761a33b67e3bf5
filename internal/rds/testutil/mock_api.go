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

package testutil

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdsapi "github.com/aws/aws-sdk-go-v2/service/rds"
)

// MockAPI is a mock implementation of the RDS API used by the observer.
// Each method has a configurable function field that can be set to customize behavior.
type MockAPI struct {
	// Describe operations
	DescribeDBInstancesFunc              func(ctx context.Context, in *rdsapi.DescribeDBInstancesInput) (*rdsapi.DescribeDBInstancesOutput, error)
	DescribeDBClustersFunc               func(ctx context.Context, in *rdsapi.DescribeDBClustersInput) (*rdsapi.DescribeDBClustersOutput, error)
	DescribeDBParameterGroupsFunc        func(ctx context.Context, in *rdsapi.DescribeDBParameterGroupsInput) (*rdsapi.DescribeDBParameterGroupsOutput, error)
	DescribeDBClusterParameterGroupsFunc func(ctx context.Context, in *rdsapi.DescribeDBClusterParameterGroupsInput) (*rdsapi.DescribeDBClusterParameterGroupsOutput, error)
	DescribeDBParametersFunc             func(ctx context.Context, in *rdsapi.DescribeDBParametersInput) (*rdsapi.DescribeDBParametersOutput, error)
	DescribeDBClusterParametersFunc      func(ctx context.Context, in *rdsapi.DescribeDBClusterParametersInput) (*rdsapi.DescribeDBClusterParametersOutput, error)
	DescribeDBSnapshotsFunc              func(ctx context.Context, in *rdsapi.DescribeDBSnapshotsInput) (*rdsapi.DescribeDBSnapshotsOutput, error)
	DescribeDBClusterSnapshotsFunc       func(ctx context.Context, in *rdsapi.DescribeDBClusterSnapshotsInput) (*rdsapi.DescribeDBClusterSnapshotsOutput, error)
	DescribeGlobalClustersFunc           func(ctx context.Context, in *rdsapi.DescribeGlobalClustersInput) (*rdsapi.DescribeGlobalClustersOutput, error)
	ListTagsForResourceFunc              func(ctx context.Context, in *rdsapi.ListTagsForResourceInput) (*rdsapi.ListTagsForResourceOutput, error)

	// Delete operations
	DeleteDBInstanceFunc              func(ctx context.Context, in *rdsapi.DeleteDBInstanceInput) (*rdsapi.DeleteDBInstanceOutput, error)
	DeleteDBClusterFunc               func(ctx context.Context, in *rdsapi.DeleteDBClusterInput) (*rdsapi.DeleteDBClusterOutput, error)
	DeleteDBParameterGroupFunc        func(ctx context.Context, in *rdsapi.DeleteDBParameterGroupInput) (*rdsapi.DeleteDBParameterGroupOutput, error)
	DeleteDBClusterParameterGroupFunc func(ctx context.Context, in *rdsapi.DeleteDBClusterParameterGroupInput) (*rdsapi.DeleteDBClusterParameterGroupOutput, error)
	DeleteDBSnapshotFunc              func(ctx context.Context, in *rdsapi.DeleteDBSnapshotInput) (*rdsapi.DeleteDBSnapshotOutput, error)
	DeleteDBClusterSnapshotFunc       func(ctx context.Context, in *rdsapi.DeleteDBClusterSnapshotInput) (*rdsapi.DeleteDBClusterSnapshotOutput, error)
	DeleteGlobalClusterFunc           func(ctx context.Context, in *rdsapi.DeleteGlobalClusterInput) (*rdsapi.DeleteGlobalClusterOutput, error)

	// Call tracking
	mu    sync.Mutex
	Calls []MethodCall
}

// MethodCall records a method call for verification in tests.
// Arg is the resource identifier of the request, empty for list calls.
type MethodCall struct {
	Method string
	Arg    string
}

// NewMockAPI creates a new MockAPI whose methods return empty outputs.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		Calls: make([]MethodCall, 0),
	}

	m.DescribeDBInstancesFunc = func(ctx context.Context, in *rdsapi.DescribeDBInstancesInput) (*rdsapi.DescribeDBInstancesOutput, error) {
		return &rdsapi.DescribeDBInstancesOutput{}, nil
	}
	m.DescribeDBClustersFunc = func(ctx context.Context, in *rdsapi.DescribeDBClustersInput) (*rdsapi.DescribeDBClustersOutput, error) {
		return &rdsapi.DescribeDBClustersOutput{}, nil
	}
	m.DescribeDBParameterGroupsFunc = func(ctx context.Context, in *rdsapi.DescribeDBParameterGroupsInput) (*rdsapi.DescribeDBParameterGroupsOutput, error) {
		return &rdsapi.DescribeDBParameterGroupsOutput{}, nil
	}
	m.DescribeDBClusterParameterGroupsFunc = func(ctx context.Context, in *rdsapi.DescribeDBClusterParameterGroupsInput) (*rdsapi.DescribeDBClusterParameterGroupsOutput, error) {
		return &rdsapi.DescribeDBClusterParameterGroupsOutput{}, nil
	}
	m.DescribeDBParametersFunc = func(ctx context.Context, in *rdsapi.DescribeDBParametersInput) (*rdsapi.DescribeDBParametersOutput, error) {
		return &rdsapi.DescribeDBParametersOutput{}, nil
	}
	m.DescribeDBClusterParametersFunc = func(ctx context.Context, in *rdsapi.DescribeDBClusterParametersInput) (*rdsapi.DescribeDBClusterParametersOutput, error) {
		return &rdsapi.DescribeDBClusterParametersOutput{}, nil
	}
	m.DescribeDBSnapshotsFunc = func(ctx context.Context, in *rdsapi.DescribeDBSnapshotsInput) (*rdsapi.DescribeDBSnapshotsOutput, error) {
		return &rdsapi.DescribeDBSnapshotsOutput{}, nil
	}
	m.DescribeDBClusterSnapshotsFunc = func(ctx context.Context, in *rdsapi.DescribeDBClusterSnapshotsInput) (*rdsapi.DescribeDBClusterSnapshotsOutput, error) {
		return &rdsapi.DescribeDBClusterSnapshotsOutput{}, nil
	}
	m.DescribeGlobalClustersFunc = func(ctx context.Context, in *rdsapi.DescribeGlobalClustersInput) (*rdsapi.DescribeGlobalClustersOutput, error) {
		return &rdsapi.DescribeGlobalClustersOutput{}, nil
	}
	m.ListTagsForResourceFunc = func(ctx context.Context, in *rdsapi.ListTagsForResourceInput) (*rdsapi.ListTagsForResourceOutput, error) {
		return &rdsapi.ListTagsForResourceOutput{}, nil
	}
	m.DeleteDBInstanceFunc = func(ctx context.Context, in *rdsapi.DeleteDBInstanceInput) (*rdsapi.DeleteDBInstanceOutput, error) {
		return &rdsapi.DeleteDBInstanceOutput{}, nil
	}
	m.DeleteDBClusterFunc = func(ctx context.Context, in *rdsapi.DeleteDBClusterInput) (*rdsapi.DeleteDBClusterOutput, error) {
		return &rdsapi.DeleteDBClusterOutput{}, nil
	}
	m.DeleteDBParameterGroupFunc = func(ctx context.Context, in *rdsapi.DeleteDBParameterGroupInput) (*rdsapi.DeleteDBParameterGroupOutput, error) {
		return &rdsapi.DeleteDBParameterGroupOutput{}, nil
	}
	m.DeleteDBClusterParameterGroupFunc = func(ctx context.Context, in *rdsapi.DeleteDBClusterParameterGroupInput) (*rdsapi.DeleteDBClusterParameterGroupOutput, error) {
		return &rdsapi.DeleteDBClusterParameterGroupOutput{}, nil
	}
	m.DeleteDBSnapshotFunc = func(ctx context.Context, in *rdsapi.DeleteDBSnapshotInput) (*rdsapi.DeleteDBSnapshotOutput, error) {
		return &rdsapi.DeleteDBSnapshotOutput{}, nil
	}
	m.DeleteDBClusterSnapshotFunc = func(ctx context.Context, in *rdsapi.DeleteDBClusterSnapshotInput) (*rdsapi.DeleteDBClusterSnapshotOutput, error) {
		return &rdsapi.DeleteDBClusterSnapshotOutput{}, nil
	}
	m.DeleteGlobalClusterFunc = func(ctx context.Context, in *rdsapi.DeleteGlobalClusterInput) (*rdsapi.DeleteGlobalClusterOutput, error) {
		return &rdsapi.DeleteGlobalClusterOutput{}, nil
	}

	return m
}

// record adds a method call to the call tracking list.
func (m *MockAPI) record(method, arg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MethodCall{Method: method, Arg: arg})
}

// ResetCalls clears the call tracking list.
func (m *MockAPI) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = make([]MethodCall, 0)
}

// GetCallCount returns the number of times a method was called.
func (m *MockAPI) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.Calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// WasCalledWith checks if a method was called for a specific resource identifier.
func (m *MockAPI) WasCalledWith(method, arg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.Calls {
		if call.Method == method && call.Arg == arg {
			return true
		}
	}
	return false
}

// CallOrder returns the methods in the order they were called.
func (m *MockAPI) CallOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	order := make([]string, 0, len(m.Calls))
	for _, call := range m.Calls {
		order = append(order, call.Method)
	}
	return order
}

func (m *MockAPI) DescribeDBInstances(ctx context.Context, in *rdsapi.DescribeDBInstancesInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBInstancesOutput, error) {
	m.record("DescribeDBInstances", aws.ToString(in.DBInstanceIdentifier))
	return m.DescribeDBInstancesFunc(ctx, in)
}

func (m *MockAPI) DescribeDBClusters(ctx context.Context, in *rdsapi.DescribeDBClustersInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClustersOutput, error) {
	m.record("DescribeDBClusters", aws.ToString(in.DBClusterIdentifier))
	return m.DescribeDBClustersFunc(ctx, in)
}

func (m *MockAPI) DescribeDBParameterGroups(ctx context.Context, in *rdsapi.DescribeDBParameterGroupsInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBParameterGroupsOutput, error) {
	m.record("DescribeDBParameterGroups", aws.ToString(in.DBParameterGroupName))
	return m.DescribeDBParameterGroupsFunc(ctx, in)
}

func (m *MockAPI) DescribeDBClusterParameterGroups(ctx context.Context, in *rdsapi.DescribeDBClusterParameterGroupsInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClusterParameterGroupsOutput, error) {
	m.record("DescribeDBClusterParameterGroups", aws.ToString(in.DBClusterParameterGroupName))
	return m.DescribeDBClusterParameterGroupsFunc(ctx, in)
}

func (m *MockAPI) DescribeDBParameters(ctx context.Context, in *rdsapi.DescribeDBParametersInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBParametersOutput, error) {
	m.record("DescribeDBParameters", aws.ToString(in.DBParameterGroupName))
	return m.DescribeDBParametersFunc(ctx, in)
}

func (m *MockAPI) DescribeDBClusterParameters(ctx context.Context, in *rdsapi.DescribeDBClusterParametersInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClusterParametersOutput, error) {
	m.record("DescribeDBClusterParameters", aws.ToString(in.DBClusterParameterGroupName))
	return m.DescribeDBClusterParametersFunc(ctx, in)
}

func (m *MockAPI) DescribeDBSnapshots(ctx context.Context, in *rdsapi.DescribeDBSnapshotsInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBSnapshotsOutput, error) {
	m.record("DescribeDBSnapshots", aws.ToString(in.DBSnapshotIdentifier))
	return m.DescribeDBSnapshotsFunc(ctx, in)
}

func (m *MockAPI) DescribeDBClusterSnapshots(ctx context.Context, in *rdsapi.DescribeDBClusterSnapshotsInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClusterSnapshotsOutput, error) {
	m.record("DescribeDBClusterSnapshots", aws.ToString(in.DBClusterSnapshotIdentifier))
	return m.DescribeDBClusterSnapshotsFunc(ctx, in)
}

func (m *MockAPI) DescribeGlobalClusters(ctx context.Context, in *rdsapi.DescribeGlobalClustersInput, _ ...func(*rdsapi.Options)) (*rdsapi.DescribeGlobalClustersOutput, error) {
	m.record("DescribeGlobalClusters", aws.ToString(in.GlobalClusterIdentifier))
	return m.DescribeGlobalClustersFunc(ctx, in)
}

func (m *MockAPI) ListTagsForResource(ctx context.Context, in *rdsapi.ListTagsForResourceInput, _ ...func(*rdsapi.Options)) (*rdsapi.ListTagsForResourceOutput, error) {
	m.record("ListTagsForResource", aws.ToString(in.ResourceName))
	return m.ListTagsForResourceFunc(ctx, in)
}

func (m *MockAPI) DeleteDBInstance(ctx context.Context, in *rdsapi.DeleteDBInstanceInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteDBInstanceOutput, error) {
	m.record("DeleteDBInstance", aws.ToString(in.DBInstanceIdentifier))
	return m.DeleteDBInstanceFunc(ctx, in)
}

func (m *MockAPI) DeleteDBCluster(ctx context.Context, in *rdsapi.DeleteDBClusterInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteDBClusterOutput, error) {
	m.record("DeleteDBCluster", aws.ToString(in.DBClusterIdentifier))
	return m.DeleteDBClusterFunc(ctx, in)
}

func (m *MockAPI) DeleteDBParameterGroup(ctx context.Context, in *rdsapi.DeleteDBParameterGroupInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteDBParameterGroupOutput, error) {
	m.record("DeleteDBParameterGroup", aws.ToString(in.DBParameterGroupName))
	return m.DeleteDBParameterGroupFunc(ctx, in)
}

func (m *MockAPI) DeleteDBClusterParameterGroup(ctx context.Context, in *rdsapi.DeleteDBClusterParameterGroupInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteDBClusterParameterGroupOutput, error) {
	m.record("DeleteDBClusterParameterGroup", aws.ToString(in.DBClusterParameterGroupName))
	return m.DeleteDBClusterParameterGroupFunc(ctx, in)
}

func (m *MockAPI) DeleteDBSnapshot(ctx context.Context, in *rdsapi.DeleteDBSnapshotInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteDBSnapshotOutput, error) {
	m.record("DeleteDBSnapshot", aws.ToString(in.DBSnapshotIdentifier))
	return m.DeleteDBSnapshotFunc(ctx, in)
}

func (m *MockAPI) DeleteDBClusterSnapshot(ctx context.Context, in *rdsapi.DeleteDBClusterSnapshotInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteDBClusterSnapshotOutput, error) {
	m.record("DeleteDBClusterSnapshot", aws.ToString(in.DBClusterSnapshotIdentifier))
	return m.DeleteDBClusterSnapshotFunc(ctx, in)
}

func (m *MockAPI) DeleteGlobalCluster(ctx context.Context, in *rdsapi.DeleteGlobalClusterInput, _ ...func(*rdsapi.Options)) (*rdsapi.DeleteGlobalClusterOutput, error) {
	m.record("DeleteGlobalCluster", aws.ToString(in.GlobalClusterIdentifier))
	return m.DeleteGlobalClusterFunc(ctx, in)
}
