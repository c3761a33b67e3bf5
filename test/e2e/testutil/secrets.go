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

package testutil

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Master user password secret defaults
const (
	MasterPasswordKey   = "master_user_password"
	MasterPasswordValue = "secretpass123456"
)

// SecretRef points to one key of a Secret.
type SecretRef struct {
	Namespace string
	Name      string
	Key       string
}

// Replacements returns the template variables that reference the secret.
func (s SecretRef) Replacements() Replacements {
	return Replacements{
		"MASTER_USER_PASS_SECRET_NAMESPACE": s.Namespace,
		"MASTER_USER_PASS_SECRET_NAME":      s.Name,
		"MASTER_USER_PASS_SECRET_KEY":       s.Key,
	}
}

// CreateSecret creates an Opaque secret holding a single key.
func CreateSecret(ctx context.Context, c kubernetes.Interface, namespace, name, key, value string) (SecretRef, error) {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "rdse2e",
			},
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{key: value},
	}
	if _, err := c.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{}); err != nil {
		return SecretRef{}, fmt.Errorf("failed to create secret %s/%s: %w", namespace, name, err)
	}
	return SecretRef{Namespace: namespace, Name: name, Key: key}, nil
}

// CreateMasterPasswordSecret creates a randomly named secret holding the master user password.
func CreateMasterPasswordSecret(ctx context.Context, c kubernetes.Interface, namespace, prefix string) (SecretRef, error) {
	return CreateSecret(ctx, c, namespace, RandomSuffixName(prefix, 32), MasterPasswordKey, MasterPasswordValue)
}

// DeleteSecret removes the secret; a missing secret is not an error.
func DeleteSecret(ctx context.Context, c kubernetes.Interface, ref SecretRef) error {
	err := c.CoreV1().Secrets(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete secret %s/%s: %w", ref.Namespace, ref.Name, err)
	}
	return nil
}
