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

package util

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func objectWithConditions(conditions ...interface{}) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "rds.services.k8s.aws/v1alpha1",
		"kind":       "DBInstance",
		"metadata":   map[string]interface{}{"name": "ref-db-instance-abc12"},
	}}
	if conditions != nil {
		obj.Object["status"] = map[string]interface{}{"conditions": conditions}
	}
	return obj
}

func condition(condType, status, message string) map[string]interface{} {
	return map[string]interface{}{
		"type":               condType,
		"status":             status,
		"message":            message,
		"lastTransitionTime": "2026-01-02T03:04:05Z",
	}
}

var _ = Describe("Conditions", func() {
	Describe("ConditionsFromUnstructured", func() {
		Context("when the object has no status", func() {
			It("should return no conditions", func() {
				conditions, err := ConditionsFromUnstructured(objectWithConditions())
				Expect(err).NotTo(HaveOccurred())
				Expect(conditions).To(BeEmpty())
			})
		})

		Context("when the object is nil", func() {
			It("should return no conditions", func() {
				conditions, err := ConditionsFromUnstructured(nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(conditions).To(BeNil())
			})
		})

		Context("when conditions are present", func() {
			It("should decode every field", func() {
				obj := objectWithConditions(
					condition(ConditionTypeResourceSynced, "True", "Resource synced successfully"),
					condition(ConditionTypeTerminal, "False", ""),
				)

				conditions, err := ConditionsFromUnstructured(obj)
				Expect(err).NotTo(HaveOccurred())
				Expect(conditions).To(HaveLen(2))
				Expect(conditions[0].Type).To(Equal(ConditionTypeResourceSynced))
				Expect(conditions[0].Status).To(Equal(metav1.ConditionTrue))
				Expect(conditions[0].Message).To(Equal("Resource synced successfully"))
				Expect(conditions[0].LastTransitionTime.Year()).To(Equal(2026))
			})
		})

		Context("when an entry is malformed", func() {
			It("should reject entries that are not objects", func() {
				_, err := ConditionsFromUnstructured(objectWithConditions("bogus"))
				Expect(err).To(MatchError(ContainSubstring("not an object")))
			})

			It("should reject entries without a type", func() {
				_, err := ConditionsFromUnstructured(objectWithConditions(map[string]interface{}{"status": "True"}))
				Expect(err).To(MatchError(ContainSubstring("has no type")))
			})
		})
	})

	Describe("GetCondition", func() {
		var conditions []metav1.Condition

		BeforeEach(func() {
			conditions = []metav1.Condition{
				{Type: ConditionTypeResourceSynced, Status: metav1.ConditionFalse, Message: "waiting"},
				{Type: ConditionTypeRecoverable, Status: metav1.ConditionTrue},
			}
		})

		It("should return correct condition by type", func() {
			cond := GetCondition(conditions, ConditionTypeRecoverable)
			Expect(cond).NotTo(BeNil())
			Expect(cond.Status).To(Equal(metav1.ConditionTrue))
		})

		It("should return nil for a missing type", func() {
			Expect(GetCondition(conditions, ConditionTypeTerminal)).To(BeNil())
		})

		It("should return nil for an empty list", func() {
			Expect(GetCondition(nil, ConditionTypeTerminal)).To(BeNil())
		})

		It("should expose the message", func() {
			Expect(ConditionMessage(conditions, ConditionTypeResourceSynced)).To(Equal("waiting"))
			Expect(ConditionMessage(conditions, ConditionTypeTerminal)).To(BeEmpty())
		})
	})

	Describe("status helpers", func() {
		It("should report synced only when ResourceSynced is True", func() {
			Expect(IsSynced([]metav1.Condition{{Type: ConditionTypeResourceSynced, Status: metav1.ConditionTrue}})).To(BeTrue())
			Expect(IsSynced([]metav1.Condition{{Type: ConditionTypeResourceSynced, Status: metav1.ConditionFalse}})).To(BeFalse())
			Expect(IsSynced([]metav1.Condition{{Type: ConditionTypeResourceSynced, Status: metav1.ConditionUnknown}})).To(BeFalse())
			Expect(IsSynced(nil)).To(BeFalse())
		})

		It("should report terminal only when Terminal is True", func() {
			Expect(IsTerminal([]metav1.Condition{{Type: ConditionTypeTerminal, Status: metav1.ConditionTrue}})).To(BeTrue())
			Expect(IsTerminal([]metav1.Condition{{Type: ConditionTypeTerminal, Status: metav1.ConditionFalse}})).To(BeFalse())
		})

		It("should distinguish False from missing", func() {
			conditions := []metav1.Condition{{Type: ConditionTypeTerminal, Status: metav1.ConditionFalse}}
			Expect(IsConditionFalse(conditions, ConditionTypeTerminal)).To(BeTrue())
			Expect(IsConditionFalse(conditions, ConditionTypeResourceSynced)).To(BeFalse())
			Expect(IsConditionTrue(conditions, ConditionTypeResourceSynced)).To(BeFalse())
		})
	})
})
