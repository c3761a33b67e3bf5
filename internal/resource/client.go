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
	"encoding/json"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/internal/poll"
)

// Client performs CRUD on custom resources addressed by Reference.
type Client struct {
	dyn dynamic.Interface
}

// NewClient wraps a dynamic client.
func NewClient(dyn dynamic.Interface) *Client {
	return &Client{dyn: dyn}
}

func (c *Client) resource(ref Reference) dynamic.ResourceInterface {
	return c.dyn.Resource(ref.GVR()).Namespace(ref.Namespace)
}

// Create creates obj at ref. Name and namespace of obj are set from ref.
func (c *Client) Create(ctx context.Context, ref Reference, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	obj = obj.DeepCopy()
	obj.SetName(ref.Name)
	obj.SetNamespace(ref.Namespace)

	logf.FromContext(ctx).V(1).Info("Creating custom resource", "ref", ref.String(), "kind", obj.GetKind())
	created, err := c.resource(ref).Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", ref, err)
	}
	return created, nil
}

// Get returns the object at ref, or nil if it does not exist.
func (c *Client) Get(ctx context.Context, ref Reference) (*unstructured.Unstructured, error) {
	obj, err := c.resource(ref).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", ref, err)
	}
	return obj, nil
}

// Exists reports whether an object exists at ref.
func (c *Client) Exists(ctx context.Context, ref Reference) (bool, error) {
	obj, err := c.Get(ctx, ref)
	if err != nil {
		return false, err
	}
	return obj != nil, nil
}

// Patch applies a JSON merge patch, e.g. {"spec": {"tags": [...]}}.
func (c *Client) Patch(ctx context.Context, ref Reference, patch map[string]interface{}) (*unstructured.Unstructured, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch for %s: %w", ref, err)
	}

	logf.FromContext(ctx).V(1).Info("Patching custom resource", "ref", ref.String())
	patched, err := c.resource(ref).Patch(ctx, ref.Name, types.MergePatchType, data, metav1.PatchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to patch %s: %w", ref, err)
	}
	return patched, nil
}

// Delete deletes the object at ref. A missing object is not an error.
func (c *Client) Delete(ctx context.Context, ref Reference) error {
	logf.FromContext(ctx).V(1).Info("Deleting custom resource", "ref", ref.String())
	err := c.resource(ref).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return nil
}

// Fetcher returns a poll fetch function for the object at ref.
func (c *Client) Fetcher(ref Reference) poll.FetchFunc[unstructured.Unstructured] {
	return func(ctx context.Context) (*unstructured.Unstructured, error) {
		return c.Get(ctx, ref)
	}
}
