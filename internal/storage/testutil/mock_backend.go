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
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rds-controller-e2e/internal/storage"
)

// MethodCall represents a recorded method call for verification
type MethodCall struct {
	Method string
	Path   string
}

// MockBackend implements the storage.Backend interface in memory for testing
type MockBackend struct {
	mu sync.Mutex

	// data stores the mock storage data (path -> content)
	data map[string][]byte

	// modified stores the last modification time per path
	modified map[string]time.Time

	// calls records all method calls for verification
	calls []MethodCall

	// errors configures errors to return for specific methods
	errors map[string]error

	closed bool
}

// NewMockBackend creates a new MockBackend for testing
func NewMockBackend() *MockBackend {
	return &MockBackend{
		data:     make(map[string][]byte),
		modified: make(map[string]time.Time),
		errors:   make(map[string]error),
	}
}

// SetError configures an error to be returned for a specific method
func (m *MockBackend) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method] = err
}

// SetLastModified overrides the modification time of a stored object
func (m *MockBackend) SetLastModified(path string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modified[path] = t
}

// GetCallCount returns the number of times a method was called
func (m *MockBackend) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// GetDataForPath returns the data stored at a specific path
func (m *MockBackend) GetDataForPath(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, exists := m.data[path]
	if !exists {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Paths returns the stored paths in sorted order
func (m *MockBackend) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.data))
	for path := range m.data {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// IsClosed returns whether Close() has been called
func (m *MockBackend) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// begin records the call and returns the configured error, if any. Callers hold m.mu.
func (m *MockBackend) begin(method, path string) error {
	m.calls = append(m.calls, MethodCall{Method: method, Path: path})
	return m.errors[method]
}

// Write implements storage.Backend.Write
func (m *MockBackend) Write(_ context.Context, path string, reader io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin("Write", path); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	m.data[path] = data
	m.modified[path] = time.Now()
	return nil
}

// Read implements storage.Backend.Read
func (m *MockBackend) Read(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin("Read", path); err != nil {
		return nil, err
	}

	data, exists := m.data[path]
	if !exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

// Delete implements storage.Backend.Delete
func (m *MockBackend) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin("Delete", path); err != nil {
		return err
	}

	delete(m.data, path)
	delete(m.modified, path)
	return nil
}

// Exists implements storage.Backend.Exists
func (m *MockBackend) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin("Exists", path); err != nil {
		return false, err
	}

	_, exists := m.data[path]
	return exists, nil
}

// List implements storage.Backend.List
func (m *MockBackend) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin("List", prefix); err != nil {
		return nil, err
	}

	result := []storage.ObjectInfo{}
	for path, data := range m.data {
		if strings.HasPrefix(path, prefix) {
			result = append(result, storage.ObjectInfo{
				Path:         path,
				Size:         int64(len(data)),
				LastModified: m.modified[path].Unix(),
			})
		}
	}

	// Sort by path for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result, nil
}

// Close implements storage.Backend.Close
func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin("Close", ""); err != nil {
		return err
	}
	m.closed = true
	return nil
}
