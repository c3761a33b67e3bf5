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

package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/go-logr/logr"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

// runIDKey is the unexported context key for storing the run ID.
type runIDKey struct{}

// GenerateID returns a random 8-character lowercase hex string suitable
// for log correlation. Uses crypto/rand for uniqueness.
func GenerateID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithRunID returns a context carrying a fresh run ID, both as a value and in the
// context logger. base is used when ctx has no logger yet.
func WithRunID(ctx context.Context, base logr.Logger) context.Context {
	id := GenerateID()
	log := base
	if existing, err := logr.FromContext(ctx); err == nil {
		log = existing
	}
	ctx = logr.NewContext(ctx, log.WithValues("runID", id))
	return context.WithValue(ctx, runIDKey{}, id)
}

// Run calls fn with a context tagged by WithRunID, using the root logger as the base.
func Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(WithRunID(ctx, logf.Log))
}

// IDFromContext retrieves the run ID from context.
// Returns an empty string if no run ID is present.
func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}
