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
	"context"
	"sort"

	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/rds-controller-e2e/internal/config"
	"github.com/rds-controller-e2e/internal/params"
	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/rds"
	"github.com/rds-controller-e2e/internal/resource"
	"github.com/rds-controller-e2e/internal/util"
	"github.com/rds-controller-e2e/test/e2e/testutil"
)

// createResource renders a template, creates the custom resource and waits until the
// controller has written a status.
func createResource(ctx context.Context, plural, name, template string, values testutil.Replacements) resource.Reference {
	GinkgoHelper()
	obj, err := testutil.Load(template, values)
	Expect(err).NotTo(HaveOccurred())
	util.SetAnnotation(obj, util.AnnotationRegion, suiteConfig.Region)

	ref := crRef(plural, name)
	_, err = crClient.Create(ctx, ref, obj)
	Expect(err).NotTo(HaveOccurred())
	Expect(crClient.WaitConsumed(ctx, ref, waitFor(config.ResourceConsumed, poll.FastConfig()))).To(Succeed())
	return ref
}

// deleteResource deletes the custom resource and waits for its finalizers to finish.
func deleteResource(ctx context.Context, ref resource.Reference) {
	GinkgoHelper()
	Expect(crClient.Delete(ctx, ref)).To(Succeed())
	Expect(crClient.WaitDeleted(ctx, ref, waitFor(config.ResourceDeleted, poll.DeletionConfig()))).To(Succeed())
}

// patchResource applies a merge patch to spec.
func patchResource(ctx context.Context, ref resource.Reference, fields map[string]interface{}) {
	GinkgoHelper()
	_, err := crClient.Patch(ctx, ref, testutil.SpecPatch(fields))
	Expect(err).NotTo(HaveOccurred())
}

func expectSynced(ctx context.Context, ref resource.Reference) {
	GinkgoHelper()
	Expect(crClient.WaitSynced(ctx, ref, waitFor(config.ResourceSynced, poll.DefaultConfig()))).To(Succeed())
}

// expectCondition waits for a condition to reach status, for instance after a spec change
// that the controller must reject or recover from.
func expectCondition(ctx context.Context, ref resource.Reference, condType string, status metav1.ConditionStatus) {
	GinkgoHelper()
	Expect(crClient.WaitCondition(ctx, ref, condType, status, waitFor(config.TerminalConditionRaised, poll.FastConfig()))).To(Succeed())
}

// syncedMessage returns the message of the ACK.ResourceSynced condition.
func syncedMessage(ctx context.Context, ref resource.Reference) string {
	GinkgoHelper()
	obj, err := crClient.Get(ctx, ref)
	Expect(err).NotTo(HaveOccurred())
	Expect(obj).NotTo(BeNil())
	cond := resource.SyncedCondition(obj)
	Expect(cond).NotTo(BeNil(), "%s has no %s condition", ref, util.ConditionTypeResourceSynced)
	return cond.Message
}

// expectTags waits until the user tags of arn equal want.
func expectTags(ctx context.Context, arn string, want map[string]string) {
	GinkgoHelper()
	Eventually(ctx, func(g Gomega) {
		tags, err := observer.GetTags(ctx, arn)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(rds.TagMap(rds.CleanTags(tags))).To(Equal(want))
	}).WithTimeout(tagPropagation).WithPolling(tagPolling).Should(Succeed())
}

// expectParameters waits until the parameters named in want have the wanted values.
func expectParameters(ctx context.Context, list func(ctx context.Context) ([]rdstypes.Parameter, error), want map[string]string) {
	GinkgoHelper()
	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	Eventually(ctx, func(g Gomega) {
		records, err := list(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(params.FromRDS(records, names...).Values()).To(Equal(want))
	}).WithTimeout(tagPropagation).WithPolling(tagPolling).Should(Succeed())
}

func dbParameters(name string) func(ctx context.Context) ([]rdstypes.Parameter, error) {
	return func(ctx context.Context) ([]rdstypes.Parameter, error) {
		return observer.GetDBParameters(ctx, name, "user")
	}
}

func dbClusterParameters(name string) func(ctx context.Context) ([]rdstypes.Parameter, error) {
	return func(ctx context.Context) ([]rdstypes.Parameter, error) {
		return observer.GetDBClusterParameters(ctx, name, "user")
	}
}
