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
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Ref points to one key of a Secret, in the shape of the masterUserPassword field of
// the RDS custom resources.
type Ref struct {
	Namespace string
	Name      string
	Key       string
}

// ParseRef parses "namespace/name:key". The namespace and key may be omitted, in which
// case the given defaults apply.
func ParseRef(s, defaultNamespace, defaultKey string) (Ref, error) {
	ref := Ref{Namespace: defaultNamespace, Key: defaultKey}

	rest := s
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		ref.Key = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		ref.Namespace = rest[:i]
		rest = rest[i+1:]
	}
	ref.Name = rest

	if err := ref.Validate(); err != nil {
		return Ref{}, fmt.Errorf("invalid secret reference %q: %w", s, err)
	}
	return ref, nil
}

// RefFromObject reads a secret reference such as spec.masterUserPassword from a custom
// resource. The namespace defaults to the object's own. found is false when the field
// is not set.
func RefFromObject(obj *unstructured.Unstructured, fields ...string) (ref Ref, found bool, err error) {
	m, found, err := unstructured.NestedStringMap(obj.Object, fields...)
	if err != nil || !found {
		return Ref{}, found, err
	}
	ref = Ref{Namespace: m["namespace"], Name: m["name"], Key: m["key"]}
	if ref.Namespace == "" {
		ref.Namespace = obj.GetNamespace()
	}
	if err := ref.Validate(); err != nil {
		return Ref{}, true, fmt.Errorf("%s of %s: %w", strings.Join(fields, "."), obj.GetName(), err)
	}
	return ref, true, nil
}

// Validate checks that every part of the reference is set.
func (r Ref) Validate() error {
	switch {
	case r.Namespace == "":
		return fmt.Errorf("namespace is required")
	case r.Name == "":
		return fmt.Errorf("name is required")
	case r.Key == "":
		return fmt.Errorf("key is required")
	}
	return nil
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s:%s", r.Namespace, r.Name, r.Key)
}
