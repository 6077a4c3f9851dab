/*
Copyright 2024 The Kubeflow authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"sigs.k8s.io/yaml"
)

// LoadFromFile reads a YAML or JSON document from path into obj. Fields
// unknown to obj are rejected.
func LoadFromFile(path string, obj interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %v", path, err)
	}

	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return fmt.Errorf("failed to parse %s: %v", path, err)
	}

	return nil
}

// ParseStringMap parses a JSON object into a map of strings. Scalar values
// are converted to their textual form, nested objects and arrays are kept as
// JSON text.
func ParseStringMap(raw string) (map[string]string, error) {
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return map[string]string{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()

	var values map[string]interface{}
	if err := decoder.Decode(&values); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %v", err)
	}

	result := make(map[string]string, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case nil:
			result[key] = ""
		case string:
			result[key] = v
		case json.Number:
			result[key] = v.String()
		case bool:
			result[key] = strconv.FormatBool(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode value of %q: %v", key, err)
			}
			result[key] = string(data)
		}
	}
	return result, nil
}
