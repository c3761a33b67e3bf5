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
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdsapi "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/rds/testutil"
	"github.com/rds-controller-e2e/internal/util"
)

// instanceSequence answers DescribeDBInstances with the given statuses in order; an empty
// status means the instance does not exist. The last entry repeats.
func instanceSequence(statuses ...string) func(context.Context, *rdsapi.DescribeDBInstancesInput) (*rdsapi.DescribeDBInstancesOutput, error) {
	calls := 0
	return func(_ context.Context, in *rdsapi.DescribeDBInstancesInput) (*rdsapi.DescribeDBInstancesOutput, error) {
		status := statuses[min(calls, len(statuses)-1)]
		calls++
		if status == "" {
			return nil, &rdstypes.DBInstanceNotFoundFault{}
		}
		return &rdsapi.DescribeDBInstancesOutput{DBInstances: []rdstypes.DBInstance{{
			DBInstanceIdentifier: in.DBInstanceIdentifier,
			DBInstanceStatus:     aws.String(status),
		}}}, nil
	}
}

func clusterSequence(statuses ...string) func(context.Context, *rdsapi.DescribeDBClustersInput) (*rdsapi.DescribeDBClustersOutput, error) {
	calls := 0
	return func(_ context.Context, in *rdsapi.DescribeDBClustersInput) (*rdsapi.DescribeDBClustersOutput, error) {
		status := statuses[min(calls, len(statuses)-1)]
		calls++
		if status == "" {
			return nil, &rdstypes.DBClusterNotFoundFault{}
		}
		return &rdsapi.DescribeDBClustersOutput{DBClusters: []rdstypes.DBCluster{{
			DBClusterIdentifier: in.DBClusterIdentifier,
			Status:              aws.String(status),
			DeletionProtection:  aws.Bool(true),
		}}}, nil
	}
}

var _ = Describe("Waits", func() {
	var (
		ctx      context.Context
		mock     *testutil.MockAPI
		observer *Observer
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = testutil.NewMockAPI()
		observer = NewObserver(mock, WithRetryConfig(util.NoRetryConfig()), WithTimeouts(util.NoTimeoutConfig()))
	})

	Describe("WaitForDBInstance", func() {
		It("should return once the status matches", func() {
			mock.DescribeDBInstancesFunc = instanceSequence("", "creating", "backing-up", "available")

			Expect(observer.WaitForDBInstance(ctx, "ref-db-instance-abc12", InstanceStatusMatches(StatusAvailable), fastPoll())).To(Succeed())
			Expect(mock.GetCallCount("DescribeDBInstances")).To(Equal(4))
		})

		It("should time out with the last observed status", func() {
			mock.DescribeDBInstancesFunc = instanceSequence("creating")
			cfg := fastPoll()
			cfg.Timeout = 50 * cfg.MaxBackoff

			err := observer.WaitForDBInstance(ctx, "ref-db-instance-abc12", InstanceStatusMatches(StatusAvailable), cfg)
			var timeoutErr *poll.TimeoutError
			Expect(errors.As(err, &timeoutErr)).To(BeTrue())
			Expect(timeoutErr.LastState).To(Equal(StatusCreating))
			Expect(timeoutErr.Name).To(Equal("ref-db-instance-abc12"))
		})
	})

	Describe("WaitForDBCluster", func() {
		It("should match on any cluster attribute", func() {
			mock.DescribeDBClustersFunc = clusterSequence("creating", "available")
			deletionProtected := ClusterAttributeMatches(func(c *rdstypes.DBCluster) bool { return aws.ToBool(c.DeletionProtection) }, true)

			Expect(observer.WaitForDBCluster(ctx, "ref-db-cluster-abc12", deletionProtected, fastPoll())).To(Succeed())
			Expect(mock.GetCallCount("DescribeDBClusters")).To(Equal(1))
		})

		It("should wait for the cluster status", func() {
			mock.DescribeDBClustersFunc = clusterSequence("creating", "creating", "available")

			Expect(observer.WaitForDBCluster(ctx, "ref-db-cluster-abc12", ClusterStatusMatches(StatusAvailable), fastPoll())).To(Succeed())
			Expect(mock.GetCallCount("DescribeDBClusters")).To(Equal(3))
		})
	})

	Describe("WaitForDBInstanceDeleted", func() {
		It("should succeed once a deleting instance disappears", func() {
			mock.DescribeDBInstancesFunc = instanceSequence("deleting", "deleting", "")

			Expect(observer.WaitForDBInstanceDeleted(ctx, "ref-db-instance-abc12", fastPoll())).To(Succeed())
			Expect(mock.GetCallCount("DescribeDBInstances")).To(Equal(3))
		})

		It("should fail terminally when the instance is not deleting", func() {
			mock.DescribeDBInstancesFunc = instanceSequence("deleting", "available")

			err := observer.WaitForDBInstanceDeleted(ctx, "ref-db-instance-abc12", fastPoll())
			Expect(poll.IsTerminal(err)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring(`status is "available"`)))
			Expect(mock.GetCallCount("DescribeDBInstances")).To(Equal(2))

			var terminal *poll.TerminalError
			Expect(errors.As(err, &terminal)).To(BeTrue())
			Expect(terminal.Snapshot).To(BeAssignableToTypeOf(&rdstypes.DBInstance{}))
		})

		It("should succeed immediately for an instance that never existed", func() {
			mock.DescribeDBInstancesFunc = instanceSequence("")

			Expect(observer.WaitForDBInstanceDeleted(ctx, "ref-db-instance-abc12", fastPoll())).To(Succeed())
			Expect(mock.GetCallCount("DescribeDBInstances")).To(Equal(1))
		})
	})

	Describe("WaitForDBClusterDeleted", func() {
		It("should succeed once a deleting cluster disappears", func() {
			mock.DescribeDBClustersFunc = clusterSequence("deleting", "")

			Expect(observer.WaitForDBClusterDeleted(ctx, "ref-db-cluster-abc12", fastPoll())).To(Succeed())
		})

		It("should fail terminally when the cluster is modifying", func() {
			mock.DescribeDBClustersFunc = clusterSequence("modifying")

			err := observer.WaitForDBClusterDeleted(ctx, "ref-db-cluster-abc12", fastPoll())
			Expect(poll.IsTerminal(err)).To(BeTrue())
		})
	})

	Describe("parameter group deletion", func() {
		It("should wait until the parameter group is gone", func() {
			calls := 0
			mock.DescribeDBParameterGroupsFunc = func(_ context.Context, in *rdsapi.DescribeDBParameterGroupsInput) (*rdsapi.DescribeDBParameterGroupsOutput, error) {
				calls++
				if calls < 3 {
					return &rdsapi.DescribeDBParameterGroupsOutput{DBParameterGroups: []rdstypes.DBParameterGroup{{DBParameterGroupName: in.DBParameterGroupName}}}, nil
				}
				return nil, &rdstypes.DBParameterGroupNotFoundFault{}
			}

			Expect(observer.WaitForDBParameterGroupDeleted(ctx, "ref-paramgrp-abc12", fastPoll())).To(Succeed())
			Expect(calls).To(Equal(3))
		})

		It("should retry transient errors while waiting for a cluster parameter group", func() {
			calls := 0
			mock.DescribeDBClusterParameterGroupsFunc = func(context.Context, *rdsapi.DescribeDBClusterParameterGroupsInput) (*rdsapi.DescribeDBClusterParameterGroupsOutput, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("read tcp: connection reset by peer")
				}
				return &rdsapi.DescribeDBClusterParameterGroupsOutput{}, nil
			}

			Expect(observer.WaitForDBClusterParameterGroupDeleted(ctx, "ref-clus-paramgrp-abc12", fastPoll())).To(Succeed())
			Expect(calls).To(Equal(2))
		})
	})

	Describe("matchers", func() {
		It("should never match an absent record", func() {
			Expect(InstanceStatusMatches(StatusAvailable)(nil)).To(BeFalse())
			Expect(ClusterStatusMatches(StatusAvailable)(nil)).To(BeFalse())
			Expect(InstanceAttributeMatches(func(i *rdstypes.DBInstance) string { return aws.ToString(i.Engine) }, "postgres")(nil)).To(BeFalse())
		})

		It("should not match a record without a status", func() {
			Expect(InstanceStatusMatches("")(&rdstypes.DBInstance{})).To(BeFalse())
		})

		It("should describe records for transition logs", func() {
			Expect(DescribeInstance(nil)).To(Equal(poll.Absent))
			Expect(DescribeInstance(&rdstypes.DBInstance{})).To(Equal("unknown"))
			Expect(DescribeCluster(&rdstypes.DBCluster{Status: aws.String("backtracking")})).To(Equal("backtracking"))
		})
	})
})
