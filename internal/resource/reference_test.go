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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

var _ = Describe("Reference", func() {
	It("should round-trip from an object", func() {
		obj := &unstructured.Unstructured{}
		obj.SetAPIVersion("rds.services.k8s.aws/v1alpha1")
		obj.SetKind("DBClusterParameterGroup")
		obj.SetName("ref-clus-paramgrp-abc12")
		obj.SetNamespace("default")

		ref := ReferenceFromObject(obj, "")
		Expect(ref).To(Equal(NewReference("rds.services.k8s.aws", "v1alpha1", "dbclusterparametergroups", "ref-clus-paramgrp-abc12", "default")))
		Expect(ref.Validate()).To(Succeed())
	})

	It("should prefer an explicit plural", func() {
		obj := &unstructured.Unstructured{}
		obj.SetAPIVersion("rds.services.k8s.aws/v1alpha1")
		obj.SetKind("DBInstance")
		obj.SetName("db")
		obj.SetNamespace("default")

		Expect(ReferenceFromObject(obj, "dbinstances").Plural).To(Equal("dbinstances"))
	})

	It("should expose the group/version/resource", func() {
		ref := NewReference("rds.services.k8s.aws", "v1alpha1", "dbinstances", "db", "default")
		Expect(ref.GVR()).To(Equal(schema.GroupVersionResource{Group: "rds.services.k8s.aws", Version: "v1alpha1", Resource: "dbinstances"}))
		Expect(ref.String()).To(Equal("dbinstances.rds.services.k8s.aws/default/db"))
		Expect(ref.WithName("other").Name).To(Equal("other"))
		Expect(ref.Name).To(Equal("db"))
	})

	DescribeTable("should reject incomplete references",
		func(ref Reference, field string) {
			Expect(ref.Validate()).To(MatchError(ContainSubstring(field)))
		},
		Entry("no version", Reference{Plural: "dbinstances", Name: "db", Namespace: "default"}, "version"),
		Entry("no plural", Reference{Version: "v1alpha1", Name: "db", Namespace: "default"}, "plural"),
		Entry("no name", Reference{Version: "v1alpha1", Plural: "dbinstances", Namespace: "default"}, "name"),
		Entry("no namespace", Reference{Version: "v1alpha1", Plural: "dbinstances", Name: "db"}, "namespace"),
	)
})
