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

package sweeper

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rds-controller-e2e/internal/rds"
)

var _ = Describe("LoadPatterns", func() {
	It("should read patterns keyed by kind", func() {
		patterns, err := LoadPatterns(strings.NewReader("db_instance: ^team-a-\ndb-cluster-parameter-group: ^team-a-cpg-\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(patterns).To(Equal(map[rds.Kind]string{
			rds.KindDBInstance:              "^team-a-",
			rds.KindDBClusterParameterGroup: "^team-a-cpg-",
		}))
	})

	It("should accept an empty document", func() {
		patterns, err := LoadPatterns(strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(patterns).To(BeEmpty())
	})

	DescribeTable("should reject invalid input",
		func(doc, msg string) {
			_, err := LoadPatterns(strings.NewReader(doc))
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("unknown kind", "db_proxy: ^x-\n", "unknown resource kind"),
		Entry("bad regexp", "db_instance: '^(x'\n", "invalid pattern for db_instance"),
		Entry("same kind twice", "db_instance: ^a-\ndb-instance: ^b-\n", "more than once"),
		Entry("not a mapping", "- db_instance\n", "failed to decode patterns"),
	)

	It("should load patterns from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "patterns.yaml")
		Expect(os.WriteFile(path, []byte("global_cluster: ^team-a-global-\n"), 0o600)).To(Succeed())

		patterns, err := LoadPatternsFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(patterns).To(HaveKeyWithValue(rds.KindGlobalCluster, "^team-a-global-"))
	})

	It("should report a missing file", func() {
		_, err := LoadPatternsFile(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(MatchError(ContainSubstring("failed to open patterns file")))
	})
})
