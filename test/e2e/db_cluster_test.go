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

	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/resource"
	"github.com/rds-controller-e2e/test/e2e/testutil"
)

var _ = Describe("DBCluster", Ordered, Label(labelSlow), func() {
	const dbName = "mydb"

	var (
		id  string
		ref resource.Reference
		arn string
	)

	BeforeAll(func(ctx SpecContext) {
		requireSlow()
		id = testutil.RandomSuffixName(testutil.PrefixDBCluster, 32)

		By("creating the master user password secret")
		secret, err := testutil.CreateMasterPasswordSecret(ctx, k8sClient, suiteConfig.Namespace, testutil.PrefixClusterSecret)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func(ctx SpecContext) {
			Expect(testutil.DeleteSecret(ctx, k8sClient, secret)).To(Succeed())
		})

		By("creating the DBCluster custom resource")
		values := secret.Replacements().With(testutil.Replacements{
			"DB_CLUSTER_ID": id,
			"DB_NAME":       dbName,
		})
		ref = createResource(ctx, pluralDBClusters, id, testutil.TemplateDBCluster, values)

		DeferCleanup(func(ctx SpecContext) {
			deleteResource(ctx, ref)
			Expect(observer.WaitForDBClusterDeleted(ctx, id, waitFor(config.DBClusterDeleted, poll.DeletionConfig()))).To(Succeed())
		}, NodeTimeout(30*time.Minute))
	})

	It("should become available and synced", func(ctx SpecContext) {
		Expect(observer.WaitForDBCluster(ctx, id, rds.ClusterStatusMatches(rds.StatusAvailable),
			waitFor(config.DBClusterAvailable, poll.DefaultConfig()))).To(Succeed())
		expectSynced(ctx, ref)

		cluster, err := observer.GetDBCluster(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(cluster).NotTo(BeNil())
		Expect(aws.ToString(cluster.DatabaseName)).To(Equal(dbName))
		Expect(aws.ToString(cluster.Engine)).To(Equal("aurora-postgresql"))
		arn = aws.ToString(cluster.DBClusterArn)

		expectTags(ctx, arn, map[string]string{"environment": "dev"})
	}, NodeTimeout(30*time.Minute))

	It("should update tags", func(ctx SpecContext) {
		patchResource(ctx, ref, map[string]interface{}{
			"tags": testutil.Tags(map[string]string{"environment": "prod", "team": "rds"}),
		})
		expectTags(ctx, arn, map[string]string{"environment": "prod", "team": "rds"})
		expectSynced(ctx, ref)
	}, NodeTimeout(15*time.Minute))

	It("should delete the cluster and stay deleting until it is gone", func(ctx SpecContext) {
		deleteResource(ctx, ref)
		Expect(observer.WaitForDBClusterDeleted(ctx, id, waitFor(config.DBClusterDeleted, poll.DeletionConfig()))).To(Succeed())
	}, NodeTimeout(30*time.Minute))
})
