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

package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/util"
)

var instanceGVR = schema.GroupVersionResource{Group: "rds.services.k8s.aws", Version: "v1alpha1", Resource: "dbinstances"}

func newFakeDynamic(objects ...runtime.Object) *dynamicfake.FakeDynamicClient {
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{instanceGVR: "DBInstanceList"},
		objects...,
	)
}

func dbInstance(name string, conditions ...interface{}) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "rds.services.k8s.aws/v1alpha1",
		"kind":       "DBInstance",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": "default",
		},
		"spec": map[string]interface{}{
			"dbInstanceIdentifier": name,
			"engine":               "postgres",
		},
	}}
	if conditions != nil {
		obj.Object["status"] = map[string]interface{}{"conditions": conditions}
	}
	return obj
}

func cond(condType, status, message string) map[string]interface{} {
	return map[string]interface{}{"type": condType, "status": status, "message": message}
}

func quickPoll() poll.Config {
	return poll.Config{Timeout: 2 * time.Second, BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

var _ = Describe("Client", func() {
	var (
		ctx context.Context
		ref Reference
	)

	BeforeEach(func() {
		ctx = context.Background()
		ref = NewReference(instanceGVR.Group, instanceGVR.Version, instanceGVR.Resource, "ref-db-instance-abc12", "default")
	})

	Describe("CRUD", func() {
		It("should create an object named after the reference", func() {
			client := NewClient(newFakeDynamic())

			obj := dbInstance("placeholder")
			created, err := client.Create(ctx, ref, obj)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.GetName()).To(Equal(ref.Name))
			Expect(obj.GetName()).To(Equal("placeholder"))

			exists, err := client.Exists(ctx, ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("should return nil for a missing object", func() {
			client := NewClient(newFakeDynamic())

			obj, err := client.Get(ctx, ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(obj).To(BeNil())
		})

		It("should apply a merge patch", func() {
			client := NewClient(newFakeDynamic(dbInstance(ref.Name)))

			patched, err := client.Patch(ctx, ref, map[string]interface{}{
				"spec": map[string]interface{}{
					"tags": []interface{}{map[string]interface{}{"key": "environment", "value": "prod"}},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			tags, found, err := unstructured.NestedSlice(patched.Object, "spec", "tags")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(tags).To(HaveLen(1))
			engine, _, _ := unstructured.NestedString(patched.Object, "spec", "engine")
			Expect(engine).To(Equal("postgres"))
		})

		It("should delete idempotently", func() {
			client := NewClient(newFakeDynamic(dbInstance(ref.Name)))

			Expect(client.Delete(ctx, ref)).To(Succeed())
			Expect(client.Delete(ctx, ref)).To(Succeed())
			Expect(client.Exists(ctx, ref)).To(BeFalse())
		})

		It("should reject creation with an incomplete reference", func() {
			client := NewClient(newFakeDynamic())
			ref.Namespace = ""

			_, err := client.Create(ctx, ref, dbInstance("x"))
			Expect(err).To(MatchError(ContainSubstring("namespace is required")))
		})
	})

	Describe("WaitSynced", func() {
		It("should succeed when ResourceSynced is True", func() {
			client := NewClient(newFakeDynamic(dbInstance(ref.Name, cond(util.ConditionTypeResourceSynced, "True", ""))))

			Expect(client.WaitSynced(ctx, ref, quickPoll())).To(Succeed())
		})

		It("should wait through unsynced states", func() {
			fake := newFakeDynamic()
			var gets atomic.Int32
			fake.PrependReactor("get", "dbinstances", func(k8stesting.Action) (bool, runtime.Object, error) {
				switch gets.Add(1) {
				case 1:
					return true, dbInstance(ref.Name), nil
				case 2:
					return true, dbInstance(ref.Name, cond(util.ConditionTypeResourceSynced, "False", "creating")), nil
				default:
					return true, dbInstance(ref.Name, cond(util.ConditionTypeResourceSynced, "True", "")), nil
				}
			})

			Expect(NewClient(fake).WaitSynced(ctx, ref, quickPoll())).To(Succeed())
			Expect(gets.Load()).To(BeEquivalentTo(3))
		})

		It("should stop on a terminal condition", func() {
			client := NewClient(newFakeDynamic(dbInstance(ref.Name,
				cond(util.ConditionTypeResourceSynced, "False", ""),
				cond(util.ConditionTypeTerminal, "True", "unknown parameter: not_a_parameter"),
			)))

			err := client.WaitSynced(ctx, ref, quickPoll())
			Expect(poll.IsTerminal(err)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("unknown parameter: not_a_parameter")))
		})

		It("should succeed when synced despite a stale terminal condition", func() {
			client := NewClient(newFakeDynamic(dbInstance(ref.Name,
				cond(util.ConditionTypeResourceSynced, "True", ""),
				cond(util.ConditionTypeTerminal, "True", "unknown parameter: not_a_parameter"),
			)))

			Expect(client.WaitSynced(ctx, ref, quickPoll())).To(Succeed())
		})

		It("should time out while the object is missing", func() {
			client := NewClient(newFakeDynamic())
			cfg := quickPoll()
			cfg.Timeout = 50 * time.Millisecond

			err := client.WaitSynced(ctx, ref, cfg)
			var timeoutErr *poll.TimeoutError
			Expect(errors.As(err, &timeoutErr)).To(BeTrue())
			Expect(timeoutErr.LastState).To(Equal(poll.Absent))
		})
	})

	Describe("WaitCondition", func() {
		It("should wait for the terminal condition itself", func() {
			client := NewClient(newFakeDynamic(dbInstance(ref.Name,
				cond(util.ConditionTypeTerminal, "True", "parameter is not modifiable"),
			)))

			Expect(client.WaitCondition(ctx, ref, util.ConditionTypeTerminal, metav1.ConditionTrue, quickPoll())).To(Succeed())
		})
	})

	Describe("WaitConsumed", func() {
		It("should succeed once a status exists", func() {
			obj := dbInstance(ref.Name)
			obj.Object["status"] = map[string]interface{}{"dbInstanceStatus": "creating"}
			client := NewClient(newFakeDynamic(obj))

			Expect(client.WaitConsumed(ctx, ref, quickPoll())).To(Succeed())
		})

		It("should not accept an empty status", func() {
			obj := dbInstance(ref.Name)
			obj.Object["status"] = map[string]interface{}{}
			client := NewClient(newFakeDynamic(obj))
			cfg := quickPoll()
			cfg.Timeout = 30 * time.Millisecond

			err := client.WaitConsumed(ctx, ref, cfg)
			Expect(poll.IsTimeout(err)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring(StatePending)))
		})
	})

	Describe("WaitDeleted", func() {
		It("should succeed once the object is gone", func() {
			fake := newFakeDynamic(dbInstance(ref.Name))
			var gets atomic.Int32
			fake.PrependReactor("get", "dbinstances", func(k8stesting.Action) (bool, runtime.Object, error) {
				if gets.Add(1) < 3 {
					obj := dbInstance(ref.Name)
					now := metav1.Now()
					obj.SetDeletionTimestamp(&now)
					obj.SetFinalizers([]string{util.ACKFinalizer(instanceGVR.Group, "DBInstance")})
					return true, obj, nil
				}
				return false, nil, nil
			})
			client := NewClient(fake)
			Expect(client.Delete(ctx, ref)).To(Succeed())

			Expect(client.WaitDeleted(ctx, ref, quickPoll())).To(Succeed())
			Expect(gets.Load()).To(BeEquivalentTo(3))
		})
	})

	Describe("condition helpers", func() {
		It("should read the synced condition", func() {
			obj := dbInstance(ref.Name, cond(util.ConditionTypeResourceSynced, "False", "waiting"))

			Expect(SyncedCondition(obj)).NotTo(BeNil())
			Expect(SyncedCondition(obj).Message).To(Equal("waiting"))
			Expect(ConditionStatus(obj, util.ConditionTypeTerminal)).To(BeEmpty())
			Expect(SyncedCondition(dbInstance(ref.Name))).To(BeNil())
		})
	})
})
