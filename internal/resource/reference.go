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
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Reference locates a namespaced custom resource.
type Reference struct {
	Group     string
	Version   string
	Plural    string
	Name      string
	Namespace string
}

// NewReference builds a Reference from its parts.
func NewReference(group, version, plural, name, namespace string) Reference {
	return Reference{
		Group:     group,
		Version:   version,
		Plural:    plural,
		Name:      name,
		Namespace: namespace,
	}
}

// ReferenceFromObject builds a Reference for obj. An empty plural is guessed from the kind.
func ReferenceFromObject(obj *unstructured.Unstructured, plural string) Reference {
	gvk := obj.GroupVersionKind()
	if plural == "" {
		gvr, _ := meta.UnsafeGuessKindToResource(gvk)
		plural = gvr.Resource
	}
	return Reference{
		Group:     gvk.Group,
		Version:   gvk.Version,
		Plural:    plural,
		Name:      obj.GetName(),
		Namespace: obj.GetNamespace(),
	}
}

// GVR returns the group/version/resource the reference points into.
func (r Reference) GVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: r.Group, Version: r.Version, Resource: r.Plural}
}

// WithName returns a copy of r for another object of the same resource.
func (r Reference) WithName(name string) Reference {
	r.Name = name
	return r
}

// Validate checks that every field needed to address the object is set.
func (r Reference) Validate() error {
	switch {
	case r.Version == "":
		return fmt.Errorf("reference %s: version is required", r)
	case r.Plural == "":
		return fmt.Errorf("reference %s: plural is required", r)
	case r.Name == "":
		return fmt.Errorf("reference %s: name is required", r)
	case r.Namespace == "":
		return fmt.Errorf("reference %s: namespace is required", r)
	}
	return nil
}

func (r Reference) String() string {
	return fmt.Sprintf("%s/%s/%s", r.GVR().GroupResource().String(), r.Namespace, r.Name)
}
