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
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

//go:embed resources/*.yaml
var resources embed.FS

// Templates under resources/
const (
	TemplateDBInstance                        = "db_instance_postgres14_t3_micro"
	TemplateDBInstanceRef                     = "db_instance_ref"
	TemplateDBCluster                         = "db_cluster_aurora_postgresql"
	TemplateDBClusterRef                      = "db_cluster_ref"
	TemplateDBParameterGroup                  = "db_parameter_group_postgres14"
	TemplateDBParameterGroupAuroraPG14        = "db_parameter_group_aurora_postgresql14"
	TemplateDBClusterParameterGroupMySQL57    = "db_cluster_parameter_group_aurora_mysql5.7"
	TemplateDBClusterParameterGroupAuroraPG14 = "db_cluster_parameter_group_aurora_postgresql14"
)

// Replacements maps template variables, written $NAME, to their values.
type Replacements map[string]string

// DefaultReplacements returns the values shared by every template.
func DefaultReplacements() Replacements {
	return Replacements{
		"COPY_TAGS_TO_SNAPSHOT": "false",
		"STORAGE_ENCRYPTED":     "false",
		"DB_NAME":               "mydb",
	}
}

// With returns a copy of r with the given values added.
func (r Replacements) With(values Replacements) Replacements {
	out := make(Replacements, len(r)+len(values))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range values {
		out[k] = v
	}
	return out
}

// Load renders the named template with the default replacements overridden by values.
// A variable with no value is an error.
func Load(name string, values Replacements) (*unstructured.Unstructured, error) {
	raw, err := resources.ReadFile("resources/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	replacements := DefaultReplacements().With(values)
	missing := map[string]struct{}{}
	rendered := os.Expand(string(raw), func(key string) string {
		v, ok := replacements[key]
		if !ok {
			missing[key] = struct{}{}
		}
		return v
	})
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("template %s: no value for %s", name, strings.Join(keys, ", "))
	}

	obj := &unstructured.Unstructured{}
	if err := yaml.Unmarshal([]byte(rendered), &obj.Object); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", name, err)
	}
	return obj, nil
}

// Tags converts key/value pairs to the spec.tags shape of an RDS custom resource.
func Tags(kv map[string]string) []interface{} {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, map[string]interface{}{"key": k, "value": kv[k]})
	}
	return tags
}

// SpecPatch wraps fields in a merge patch of spec.
func SpecPatch(fields map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"spec": fields}
}

// StringMap converts a map for use in unstructured content.
func StringMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
