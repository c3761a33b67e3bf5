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

package secret

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

// ManagedByLabel marks secrets created by this tool.
const (
	ManagedByLabel = "app.kubernetes.io/managed-by"
	ManagedByValue = "rdse2e"
)

// DefaultPasswordLength is the length of generated master user passwords
const DefaultPasswordLength = 24

// passwordCharset holds the characters RDS accepts in a master user password.
// RDS rejects '/', '@', '"' and spaces.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%^&*"

// Manager handles secret operations
type Manager struct {
	client client.Client
}

// NewManager creates a new secret manager
func NewManager(c client.Client) *Manager {
	return &Manager{client: c}
}

// GetValue returns the value stored under ref.Key.
func (m *Manager) GetValue(ctx context.Context, ref Ref) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	data, err := m.getSecretData(ctx, ref.Namespace, ref.Name, ref.Key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// getSecretData retrieves a specific key from a secret
func (m *Manager) getSecretData(ctx context.Context, namespace, secretName, key string) ([]byte, error) {
	secret := &corev1.Secret{}
	err := m.client.Get(ctx, types.NamespacedName{
		Namespace: namespace,
		Name:      secretName,
	}, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s/%s: %w", namespace, secretName, err)
	}

	if data, ok := secret.Data[key]; ok {
		return data, nil
	}
	// StringData is only merged into Data by the API server
	if value, ok := secret.StringData[key]; ok {
		return []byte(value), nil
	}
	return nil, fmt.Errorf("secret %s/%s does not contain key %s", namespace, secretName, key)
}

// CreateSecret creates a new Opaque secret labelled as managed by this tool.
func (m *Manager) CreateSecret(ctx context.Context, namespace, name string, data map[string][]byte) error {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{ManagedByLabel: ManagedByValue},
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}
	logf.FromContext(ctx).V(1).Info("Creating secret", "namespace", namespace, "name", name)
	return m.client.Create(ctx, secret)
}

// UpdateSecret replaces the data of an existing secret
func (m *Manager) UpdateSecret(ctx context.Context, namespace, name string, data map[string][]byte) error {
	secret := &corev1.Secret{}
	err := m.client.Get(ctx, types.NamespacedName{
		Namespace: namespace,
		Name:      name,
	}, secret)
	if err != nil {
		return err
	}

	secret.Data = data
	return m.client.Update(ctx, secret)
}

// EnsureSecret creates the secret or updates the data of an existing one
func (m *Manager) EnsureSecret(ctx context.Context, namespace, name string, data map[string][]byte) error {
	exists, err := m.SecretExists(ctx, namespace, name)
	if err != nil {
		return err
	}
	if exists {
		return m.UpdateSecret(ctx, namespace, name, data)
	}
	return m.CreateSecret(ctx, namespace, name, data)
}

// EnsurePassword stores a freshly generated password under ref.Key and returns it.
func (m *Manager) EnsurePassword(ctx context.Context, ref Ref) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	password, err := GeneratePassword(DefaultPasswordLength)
	if err != nil {
		return "", err
	}
	if err := m.EnsureSecret(ctx, ref.Namespace, ref.Name, map[string][]byte{ref.Key: []byte(password)}); err != nil {
		return "", fmt.Errorf("failed to store password in %s: %w", ref, err)
	}
	return password, nil
}

// DeleteSecret deletes a secret
func (m *Manager) DeleteSecret(ctx context.Context, namespace, name string) error {
	secret := &corev1.Secret{}
	err := m.client.Get(ctx, types.NamespacedName{
		Namespace: namespace,
		Name:      name,
	}, secret)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	return m.client.Delete(ctx, secret)
}

// SecretExists checks if a secret exists
func (m *Manager) SecretExists(ctx context.Context, namespace, name string) (bool, error) {
	secret := &corev1.Secret{}
	err := m.client.Get(ctx, types.NamespacedName{
		Namespace: namespace,
		Name:      name,
	}, secret)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GeneratePassword returns a random password of the given length that RDS accepts.
func GeneratePassword(length int) (string, error) {
	if length < 8 {
		return "", fmt.Errorf("password length must be at least 8, got %d", length)
	}

	password := make([]byte, length)
	charsetLen := big.NewInt(int64(len(passwordCharset)))

	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		password[i] = passwordCharset[idx.Int64()]
	}

	return string(password), nil
}
