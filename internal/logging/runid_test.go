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
	"bytes"
	"context"
	"errors"
	"regexp"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var _ = Describe("GenerateID", func() {
	It("should return an 8-character hex string", func() {
		id := GenerateID()
		Expect(id).To(HaveLen(8))
		Expect(id).To(MatchRegexp("^[0-9a-f]{8}$"))
	})

	It("should produce unique values on successive calls", func() {
		ids := make(map[string]struct{}, 100)
		for i := 0; i < 100; i++ {
			ids[GenerateID()] = struct{}{}
		}
		Expect(ids).To(HaveLen(100))
	})

	It("should only contain lowercase hex characters", func() {
		for i := 0; i < 50; i++ {
			Expect(regexp.MustCompile(`^[0-9a-f]+$`).MatchString(GenerateID())).To(BeTrue())
		}
	})
})

var _ = Describe("IDFromContext", func() {
	It("should return empty string from empty context", func() {
		Expect(IDFromContext(context.Background())).To(BeEmpty())
	})

	It("should round-trip a run ID through context", func() {
		ctx := context.WithValue(context.Background(), runIDKey{}, "abc12345")
		Expect(IDFromContext(ctx)).To(Equal("abc12345"))
	})
})

var _ = Describe("WithRunID", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should tag log lines from the context logger with the run ID", func() {
		ctx := WithRunID(context.Background(), New(buf, true))

		id := IDFromContext(ctx)
		Expect(id).To(MatchRegexp("^[0-9a-f]{8}$"))

		logf.FromContext(ctx).Info("sweep started")
		Expect(buf.String()).To(ContainSubstring("sweep started"))
		Expect(buf.String()).To(ContainSubstring(id))
	})

	It("should prefer a logger already in the context", func() {
		other := &bytes.Buffer{}
		ctx := logr.NewContext(context.Background(), New(buf, true))
		ctx = WithRunID(ctx, New(other, true))

		logf.FromContext(ctx).Info("from context")
		Expect(buf.String()).To(ContainSubstring("from context"))
		Expect(other.String()).To(BeEmpty())
	})

	It("should generate a different ID for each run", func() {
		ids := make(map[string]struct{})
		for i := 0; i < 10; i++ {
			Expect(Run(context.Background(), func(ctx context.Context) error {
				ids[IDFromContext(ctx)] = struct{}{}
				return nil
			})).To(Succeed())
		}
		Expect(ids).To(HaveLen(10))
	})

	It("should propagate the error from the wrapped function", func() {
		expectedErr := context.DeadlineExceeded
		err := Run(context.Background(), func(context.Context) error {
			return expectedErr
		})
		Expect(errors.Is(err, expectedErr)).To(BeTrue())
	})
})

var _ = Describe("New", func() {
	It("should hide debug lines unless verbose", func() {
		quiet := &bytes.Buffer{}
		New(quiet, false).V(1).Info("debug line")
		Expect(quiet.String()).To(BeEmpty())

		loud := &bytes.Buffer{}
		New(loud, true).V(1).Info("debug line")
		Expect(loud.String()).To(ContainSubstring("debug line"))
	})
})
