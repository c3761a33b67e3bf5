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
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdsapi "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/smithy-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rds-controller-e2e/internal/rds/testutil"
	"github.com/rds-controller-e2e/internal/util"
)

var _ = Describe("Inventory", func() {
	var (
		ctx      context.Context
		mock     *testutil.MockAPI
		observer *Observer
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = testutil.NewMockAPI()
		observer = NewObserver(mock, WithRetryConfig(fastRetry()), WithTimeouts(util.NoTimeoutConfig()))
	})

	Describe("List", func() {
		It("should map instances to resources", func() {
			created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			mock.DescribeDBInstancesFunc = func(context.Context, *rdsapi.DescribeDBInstancesInput) (*rdsapi.DescribeDBInstancesOutput, error) {
				return &rdsapi.DescribeDBInstancesOutput{DBInstances: []rdstypes.DBInstance{
					{DBInstanceIdentifier: aws.String("ref-db-instance-abc12"), DBInstanceStatus: aws.String("available"), InstanceCreateTime: &created},
					{DBInstanceIdentifier: aws.String("creating-one"), DBInstanceStatus: aws.String("creating")},
				}}, nil
			}

			resources, err := observer.List(ctx, KindDBInstance)
			Expect(err).NotTo(HaveOccurred())
			Expect(resources).To(HaveLen(2))
			Expect(resources[0]).To(Equal(Resource{Kind: KindDBInstance, ID: "ref-db-instance-abc12", Status: "available", CreatedAt: &created}))
			Expect(resources[1].CreatedAt).To(BeNil())
		})

		It("should page through clusters", func() {
			mock.DescribeDBClustersFunc = func(_ context.Context, in *rdsapi.DescribeDBClustersInput) (*rdsapi.DescribeDBClustersOutput, error) {
				if in.Marker == nil {
					return &rdsapi.DescribeDBClustersOutput{
						DBClusters: []rdstypes.DBCluster{{DBClusterIdentifier: aws.String("ref-db-cluster-1")}},
						Marker:     aws.String("next"),
					}, nil
				}
				return &rdsapi.DescribeDBClustersOutput{
					DBClusters: []rdstypes.DBCluster{{DBClusterIdentifier: aws.String("ref-db-cluster-2")}},
				}, nil
			}

			resources, err := observer.List(ctx, KindDBCluster)
			Expect(err).NotTo(HaveOccurred())
			Expect(resources).To(HaveLen(2))
			Expect(mock.GetCallCount("DescribeDBClusters")).To(Equal(2))
		})

		It("should list every kind", func() {
			for _, kind := range AllKinds {
				_, err := observer.List(ctx, kind)
				Expect(err).NotTo(HaveOccurred(), "kind %s", kind)
			}
		})

		It("should reject an unknown kind", func() {
			_, err := observer.List(ctx, Kind("option_group"))
			Expect(err).To(MatchError(ContainSubstring("unknown resource kind")))
		})
	})

	Describe("Delete", func() {
		It("should delete instances without a final snapshot", func() {
			var input *rdsapi.DeleteDBInstanceInput
			mock.DeleteDBInstanceFunc = func(_ context.Context, in *rdsapi.DeleteDBInstanceInput) (*rdsapi.DeleteDBInstanceOutput, error) {
				input = in
				return &rdsapi.DeleteDBInstanceOutput{}, nil
			}

			Expect(observer.Delete(ctx, KindDBInstance, "ref-db-instance-abc12")).To(Succeed())
			Expect(aws.ToBool(input.SkipFinalSnapshot)).To(BeTrue())
			Expect(aws.ToBool(input.DeleteAutomatedBackups)).To(BeTrue())
		})

		It("should delete clusters without a final snapshot", func() {
			var input *rdsapi.DeleteDBClusterInput
			mock.DeleteDBClusterFunc = func(_ context.Context, in *rdsapi.DeleteDBClusterInput) (*rdsapi.DeleteDBClusterOutput, error) {
				input = in
				return &rdsapi.DeleteDBClusterOutput{}, nil
			}

			Expect(observer.Delete(ctx, KindDBCluster, "ref-db-cluster-abc12")).To(Succeed())
			Expect(aws.ToBool(input.SkipFinalSnapshot)).To(BeTrue())
		})

		It("should treat a vanished resource as deleted", func() {
			mock.DeleteDBParameterGroupFunc = func(context.Context, *rdsapi.DeleteDBParameterGroupInput) (*rdsapi.DeleteDBParameterGroupOutput, error) {
				return nil, &rdstypes.DBParameterGroupNotFoundFault{}
			}

			Expect(observer.Delete(ctx, KindDBParameterGroup, "ref-paramgrp-abc12")).To(Succeed())
		})

		It("should surface invalid state faults", func() {
			mock.DeleteDBClusterParameterGroupFunc = func(context.Context, *rdsapi.DeleteDBClusterParameterGroupInput) (*rdsapi.DeleteDBClusterParameterGroupOutput, error) {
				return nil, &rdstypes.InvalidDBParameterGroupStateFault{Message: aws.String("in use")}
			}

			err := observer.Delete(ctx, KindDBClusterParameterGroup, "ref-clus-paramgrp-abc12")
			Expect(err).To(HaveOccurred())
			Expect(IsInvalidState(err)).To(BeTrue())
		})

		It("should retry deletes with their own policy", func() {
			observer = NewObserver(mock,
				WithRetryConfig(fastRetry()),
				WithDeleteRetryConfig(util.NoRetryConfig()),
				WithTimeouts(util.NoTimeoutConfig()),
			)
			calls := 0
			mock.DeleteDBSnapshotFunc = func(context.Context, *rdsapi.DeleteDBSnapshotInput) (*rdsapi.DeleteDBSnapshotOutput, error) {
				calls++
				return nil, &smithy.GenericAPIError{Code: "Throttling", Message: "Rate exceeded"}
			}

			Expect(observer.Delete(ctx, KindDBSnapshot, "ref-db-instance-abc12-final")).NotTo(Succeed())
			Expect(calls).To(Equal(1))
		})

		It("should route every kind to its delete call", func() {
			for _, kind := range AllKinds {
				Expect(observer.Delete(ctx, kind, "ref-x")).To(Succeed())
			}
			Expect(mock.CallOrder()).To(Equal([]string{
				"DeleteDBInstance",
				"DeleteDBCluster",
				"DeleteDBSnapshot",
				"DeleteDBClusterSnapshot",
				"DeleteGlobalCluster",
				"DeleteDBParameterGroup",
				"DeleteDBClusterParameterGroup",
			}))
		})
	})

	Describe("Kind", func() {
		It("should parse dashed and underscored names", func() {
			Expect(ParseKind("db-instance")).To(Equal(KindDBInstance))
			Expect(ParseKind("DB_CLUSTER_SNAPSHOT")).To(Equal(KindDBClusterSnapshot))
			_, err := ParseKind("option-group")
			Expect(err).To(HaveOccurred())
		})

		It("should know which kinds carry a creation time", func() {
			Expect(KindDBInstance.HasCreateTime()).To(BeTrue())
			Expect(KindDBSnapshot.HasCreateTime()).To(BeTrue())
			Expect(KindDBParameterGroup.HasCreateTime()).To(BeFalse())
			Expect(KindGlobalCluster.HasCreateTime()).To(BeFalse())
		})

		It("should never consider a resource without a creation time old", func() {
			cutoff := time.Now()
			old := cutoff.Add(-time.Hour)
			Expect(Resource{CreatedAt: &old}.OlderThan(cutoff)).To(BeTrue())
			Expect(Resource{}.OlderThan(cutoff)).To(BeFalse())
		})
	})
})
