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
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Condition types set by the ACK runtime on every managed resource
const (
	// ConditionTypeResourceSynced indicates whether the latest spec has been applied to AWS
	ConditionTypeResourceSynced = "ACK.ResourceSynced"

	// ConditionTypeTerminal indicates the controller gave up until the spec changes
	ConditionTypeTerminal = "ACK.Terminal"

	// ConditionTypeRecoverable indicates a failed reconcile that will be retried
	ConditionTypeRecoverable = "ACK.Recoverable"

	// ConditionTypeAdopted indicates the resource was adopted from an existing AWS resource
	ConditionTypeAdopted = "ACK.Adopted"

	// ConditionTypeReferencesResolved indicates whether all resource references were resolved
	ConditionTypeReferencesResolved = "ACK.ReferencesResolved"

	// ConditionTypeLateInitialized indicates whether late-initialized fields have been filled in
	ConditionTypeLateInitialized = "ACK.LateInitialized"
)

// ConditionsFromUnstructured reads status.conditions of a custom resource.
// Entries that are not objects, or that lack a type, are reported as an error.
func ConditionsFromUnstructured(obj *unstructured.Unstructured) ([]metav1.Condition, error) {
	if obj == nil {
		return nil, nil
	}

	raw, found, err := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if err != nil {
		return nil, fmt.Errorf("failed to read status.conditions: %w", err)
	}
	if !found {
		return nil, nil
	}

	conditions := make([]metav1.Condition, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("status.conditions[%d] is %T, not an object", i, item)
		}

		condType, _, _ := unstructured.NestedString(entry, "type")
		if condType == "" {
			return nil, fmt.Errorf("status.conditions[%d] has no type", i)
		}
		status, _, _ := unstructured.NestedString(entry, "status")
		reason, _, _ := unstructured.NestedString(entry, "reason")
		message, _, _ := unstructured.NestedString(entry, "message")

		cond := metav1.Condition{
			Type:    condType,
			Status:  metav1.ConditionStatus(status),
			Reason:  reason,
			Message: message,
		}
		if ts, _, _ := unstructured.NestedString(entry, "lastTransitionTime"); ts != "" {
			var t metav1.Time
			if err := t.UnmarshalQueryParameter(ts); err == nil {
				cond.LastTransitionTime = t
			}
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

// GetCondition returns a condition by type
func GetCondition(conditions []metav1.Condition, conditionType string) *metav1.Condition {
	for i := range conditions {
		if conditions[i].Type == conditionType {
			return &conditions[i]
		}
	}
	return nil
}

// IsConditionTrue checks if a condition is true
func IsConditionTrue(conditions []metav1.Condition, conditionType string) bool {
	cond := GetCondition(conditions, conditionType)
	return cond != nil && cond.Status == metav1.ConditionTrue
}

// IsConditionFalse checks if a condition is false
func IsConditionFalse(conditions []metav1.Condition, conditionType string) bool {
	cond := GetCondition(conditions, conditionType)
	return cond != nil && cond.Status == metav1.ConditionFalse
}

// ConditionMessage returns the message of a condition, or "" if it is not set
func ConditionMessage(conditions []metav1.Condition, conditionType string) string {
	if cond := GetCondition(conditions, conditionType); cond != nil {
		return cond.Message
	}
	return ""
}

// IsSynced reports whether ACK.ResourceSynced is True
func IsSynced(conditions []metav1.Condition) bool {
	return IsConditionTrue(conditions, ConditionTypeResourceSynced)
}

// IsTerminal reports whether ACK.Terminal is True
func IsTerminal(conditions []metav1.Condition) bool {
	return IsConditionTrue(conditions, ConditionTypeTerminal)
}
