//go:build e2e

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

package e2e

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/resource"
	"github.com/rds-controller-e2e/internal/util"
	"github.com/rds-controller-e2e/test/e2e/testutil"
)

var _ = Describe("DBClusterParameterGroup", Ordered, func() {
	const description = "Parameters for Aurora MySQL 5.7-compatible"

	var (
		name string
		ref  resource.Reference
		arn  string
	)

	BeforeAll(func(ctx SpecContext) {
		name = testutil.RandomSuffixName(testutil.PrefixDBClusterParameterGroup, 32)

		By("creating the DBClusterParameterGroup custom resource")
		ref = createResource(ctx, pluralDBClusterParameterGroups, name, testutil.TemplateDBClusterParameterGroupMySQL57, testutil.Replacements{
			"DB_CLUSTER_PARAMETER_GROUP_NAME": name,
			"DB_CLUSTER_PARAMETER_GROUP_DESC": description,
		})

		DeferCleanup(func(ctx SpecContext) {
			deleteResource(ctx, ref)
			Expect(observer.WaitForDBClusterParameterGroupDeleted(ctx, name, waitFor(config.ParameterGroupDeleted, poll.FastConfig()))).To(Succeed())
		}, NodeTimeout(15*time.Minute))
	})

	It("should create the cluster parameter group in RDS", func(ctx SpecContext) {
		expectSynced(ctx, ref)

		group, err := observer.GetDBClusterParameterGroup(ctx, name)
		Expect(err).NotTo(HaveOccurred())
		Expect(group).NotTo(BeNil())
		Expect(aws.ToString(group.Description)).To(Equal(description))
		arn = aws.ToString(group.DBClusterParameterGroupArn)
		Expect(arn).NotTo(BeEmpty())

		expectTags(ctx, arn, map[string]string{"environment": "dev"})
		expectParameters(ctx, dbClusterParameters(name), map[string]string{
			"aurora_binlog_read_buffer_size":     "8192",
			"aurora_read_replica_read_committed": "OFF",
		})
	})

	It("should update tags and parameter overrides", func(ctx SpecContext) {
		overrides := testutil.StringMap(map[string]string{
			"aurora_binlog_read_buffer_size":     "5242880",
			"aurora_read_replica_read_committed": "ON",
		})
		patchResource(ctx, ref, map[string]interface{}{
			"tags":               testutil.Tags(map[string]string{"environment": "prod"}),
			"parameterOverrides": overrides,
		})

		expectTags(ctx, arn, map[string]string{"environment": "prod"})
		expectParameters(ctx, dbClusterParameters(name), map[string]string{
			"aurora_binlog_read_buffer_size":     "5242880",
			"aurora_read_replica_read_committed": "ON",
		})
	})

	It("should reject an instance-level parameter and recover once it is removed", func(ctx SpecContext) {
		patchResource(ctx, ref, map[string]interface{}{
			"parameterOverrides": map[string]interface{}{
				"auto_increment_increment":           "2",
				"aurora_binlog_read_buffer_size":     "5242880",
				"aurora_read_replica_read_committed": nil,
			},
		})
		expectCondition(ctx, ref, util.ConditionTypeResourceSynced, metav1.ConditionFalse)
		Expect(syncedMessage(ctx, ref)).To(ContainSubstring("auto_increment_increment"))

		By("removing the instance-level parameter")
		patchResource(ctx, ref, map[string]interface{}{
			"parameterOverrides": map[string]interface{}{
				"auto_increment_increment": nil,
			},
		})
		expectCondition(ctx, ref, util.ConditionTypeResourceSynced, metav1.ConditionTrue)
		expectParameters(ctx, dbClusterParameters(name), map[string]string{
			"aurora_binlog_read_buffer_size": "5242880",
		})
	})

	It("should delete the cluster parameter group from RDS", func(ctx SpecContext) {
		deleteResource(ctx, ref)
		Expect(observer.WaitForDBClusterParameterGroupDeleted(ctx, name, waitFor(config.ParameterGroupDeleted, poll.FastConfig()))).To(Succeed())
	})
})
