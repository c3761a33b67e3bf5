//go:build e2e

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
	"fmt"

	utilrand "k8s.io/apimachinery/pkg/util/rand"
)

// Name prefixes of the resources created by the suite. Leftovers are found by these.
const (
	PrefixDBInstance              = "pg14-t3-micro"
	PrefixRefDBInstance           = "ref-db-instance"
	PrefixDBCluster               = "ref-db-cluster"
	PrefixDBParameterGroup        = "ref-paramgrp"
	PrefixDBClusterParameterGroup = "ref-clus-paramgrp"
	PrefixClusterSecret           = "dbclustersecrets"
	PrefixInstanceSecret          = "dbinstancesecrets"
)

// RandomSuffixName returns prefix followed by a dash and random lowercase
// characters, maxLen characters long in total.
func RandomSuffixName(prefix string, maxLen int) string {
	n := maxLen - len(prefix) - 1
	if n < 1 {
		panic(fmt.Sprintf("prefix %q leaves no room for a suffix within %d characters", prefix, maxLen))
	}
	return prefix + "-" + utilrand.String(n)
}
