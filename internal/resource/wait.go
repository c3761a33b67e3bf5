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
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/rds-controller-e2e/internal/poll"
	"github.com/rds-controller-e2e/internal/util"
)

// States reported for custom resources in transition logs
const (
	StatePending  = "pending"
	StateDeleting = "deleting"
)

// WaitConsumed blocks until the controller has written a status to the object.
func (c *Client) WaitConsumed(ctx context.Context, ref Reference, cfg poll.Config) error {
	p := &poll.Poller[unstructured.Unstructured]{
		Kind:     ref.Plural,
		Name:     ref.String(),
		Fetch:    c.Fetcher(ref),
		Match:    hasStatus,
		Describe: describeSynced,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// WaitSynced blocks until ACK.ResourceSynced is True. ACK.Terminal=True while
// ResourceSynced is not True ends the wait with a terminal error carrying the
// condition message.
func (c *Client) WaitSynced(ctx context.Context, ref Reference, cfg poll.Config) error {
	p := &poll.Poller[unstructured.Unstructured]{
		Kind: ref.Plural,
		Name: ref.String(),
		Fetch: func(ctx context.Context) (*unstructured.Unstructured, error) {
			obj, err := c.Get(ctx, ref)
			if err != nil || obj == nil {
				return obj, err
			}
			conditions, err := util.ConditionsFromUnstructured(obj)
			if err != nil {
				return nil, poll.MarkTerminal(err)
			}
			if util.IsTerminal(conditions) && !util.IsSynced(conditions) {
				reason := fmt.Sprintf("%s: %s", util.ConditionTypeTerminal, util.ConditionMessage(conditions, util.ConditionTypeTerminal))
				return obj, poll.Terminal(reason, obj)
			}
			return obj, nil
		},
		Match:    isSynced,
		Describe: describeSynced,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// WaitCondition blocks until the condition of the given type has the given status.
// Unlike WaitSynced it does not stop on ACK.Terminal, so it can wait for that condition.
func (c *Client) WaitCondition(ctx context.Context, ref Reference, condType string, status metav1.ConditionStatus, cfg poll.Config) error {
	p := &poll.Poller[unstructured.Unstructured]{
		Kind:  ref.Plural,
		Name:  ref.String(),
		Fetch: c.Fetcher(ref),
		Match: func(obj *unstructured.Unstructured) bool {
			return ConditionStatus(obj, condType) == status
		},
		Describe: func(obj *unstructured.Unstructured) string {
			if obj == nil {
				return poll.Absent
			}
			return fmt.Sprintf("%s=%s", condType, ConditionStatus(obj, condType))
		},
		Config: cfg,
	}
	return p.Wait(ctx)
}

// WaitDeleted blocks until the object no longer exists.
func (c *Client) WaitDeleted(ctx context.Context, ref Reference, cfg poll.Config) error {
	p := &poll.Poller[unstructured.Unstructured]{
		Kind:  ref.Plural,
		Name:  ref.String(),
		Fetch: c.Fetcher(ref),
		Match: func(obj *unstructured.Unstructured) bool {
			return obj == nil
		},
		Describe: func(obj *unstructured.Unstructured) string {
			switch {
			case obj == nil:
				return poll.Absent
			case util.IsMarkedForDeletion(obj) && util.HasACKFinalizer(obj):
				return StateDeleting
			default:
				return describeSynced(obj)
			}
		},
		Config: cfg,
	}
	return p.Wait(ctx)
}

// SyncedCondition returns the ACK.ResourceSynced condition of obj, or nil.
func SyncedCondition(obj *unstructured.Unstructured) *metav1.Condition {
	conditions, err := util.ConditionsFromUnstructured(obj)
	if err != nil {
		return nil
	}
	return util.GetCondition(conditions, util.ConditionTypeResourceSynced)
}

// ConditionStatus returns the status of the condition of the given type, or "" if obj
// does not carry it.
func ConditionStatus(obj *unstructured.Unstructured, condType string) metav1.ConditionStatus {
	conditions, err := util.ConditionsFromUnstructured(obj)
	if err != nil {
		return ""
	}
	if cond := util.GetCondition(conditions, condType); cond != nil {
		return cond.Status
	}
	return ""
}

func hasStatus(obj *unstructured.Unstructured) bool {
	if obj == nil {
		return false
	}
	status, found, err := unstructured.NestedMap(obj.Object, "status")
	return err == nil && found && len(status) > 0
}

func isSynced(obj *unstructured.Unstructured) bool {
	return ConditionStatus(obj, util.ConditionTypeResourceSynced) == metav1.ConditionTrue
}

func describeSynced(obj *unstructured.Unstructured) string {
	if obj == nil {
		return poll.Absent
	}
	if !hasStatus(obj) {
		return StatePending
	}
	status := ConditionStatus(obj, util.ConditionTypeResourceSynced)
	if status == "" {
		status = metav1.ConditionUnknown
	}
	return fmt.Sprintf("synced=%s", status)
}
