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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

const (
	// TestNamespace is the default namespace for test fixtures
	TestNamespace = "test-namespace"

	// TestSecretName is the default master password secret name
	TestSecretName = "dbinstancesecrets-abc"

	// TestKey is the default key of the master password
	TestKey = "master_user_password"

	// TestPassword is the default test password
	TestPassword = "secretpass123456"
)

// NewPasswordSecret creates a secret holding a master user password
func NewPasswordSecret(name, namespace, key, password string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			key: []byte(password),
		},
	}
}

// NewDefaultPasswordSecret creates the default master password secret
func NewDefaultPasswordSecret() *corev1.Secret {
	return NewPasswordSecret(TestSecretName, TestNamespace, TestKey, TestPassword)
}

// NewDBInstance creates an unstructured DBInstance whose spec.masterUserPassword is
// the given reference. An empty ref leaves the field unset.
func NewDBInstance(name, namespace string, ref map[string]interface{}) *unstructured.Unstructured {
	spec := map[string]interface{}{
		"dbInstanceIdentifier": name,
		"engine":               "postgres",
	}
	if len(ref) > 0 {
		spec["masterUserPassword"] = ref
	}
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "rds.services.k8s.aws/v1alpha1",
			"kind":       "DBInstance",
			"metadata": map[string]interface{}{
				"name":      name,
				"namespace": namespace,
			},
			"spec": spec,
		},
	}
}
