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

package rds

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// IsNotFound reports whether err is one of the RDS "not found" faults,
// e.g. DBInstanceNotFound or DBClusterNotFoundFault.
func IsNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return strings.HasSuffix(code, "NotFound") || strings.HasSuffix(code, "NotFoundFault")
}

// IsInvalidState reports whether err is an RDS invalid-state fault,
// e.g. deleting an instance that is already being deleted.
func IsInvalidState(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	return strings.HasPrefix(code, "Invalid") &&
		(strings.HasSuffix(code, "State") || strings.HasSuffix(code, "StateFault"))
}
