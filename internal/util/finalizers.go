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

package util

import (
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ACK annotation keys
const (
	// AnnotationRegion overrides the controller's default region for one resource
	AnnotationRegion = "services.k8s.aws/region"
)

// ACKFinalizer returns the finalizer the ACK runtime places on a resource of kind in group,
// e.g. finalizers.rds.services.k8s.aws/DBInstance
func ACKFinalizer(group, kind string) string {
	return "finalizers." + group + "/" + kind
}

// HasACKFinalizer reports whether any ACK controller still holds the object
func HasACKFinalizer(obj client.Object) bool {
	for _, f := range obj.GetFinalizers() {
		if strings.HasPrefix(f, "finalizers.") && strings.Contains(f, ".services.k8s.aws/") {
			return true
		}
	}
	return false
}

// IsMarkedForDeletion checks if an object is marked for deletion
func IsMarkedForDeletion(obj client.Object) bool {
	return !obj.GetDeletionTimestamp().IsZero()
}

// SetAnnotation sets a single annotation, allocating the map if needed
func SetAnnotation(obj client.Object, key, value string) {
	annotations := obj.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[key] = value
	obj.SetAnnotations(annotations)
}
