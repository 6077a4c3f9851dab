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

// Package pipeline publishes command results to the surrounding CI pipeline
// using Azure Pipelines logging commands written to standard output.
package pipeline

import (
	"fmt"
	"io"
	"strings"
)

var valueEscaper = strings.NewReplacer(
	"%", "%AZP25",
	"\r", "%0D",
	"\n", "%0A",
)

// FormatSetVariable returns the logging command that sets the pipeline
// variable name to value.
func FormatSetVariable(name, value string, secret bool) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("variable name must not be empty")
	}
	if strings.ContainsAny(name, ";]\r\n") {
		return "", fmt.Errorf("invalid variable name %q", name)
	}

	return fmt.Sprintf("##vso[task.setvariable variable=%s;issecret=%t]%s", name, secret, valueEscaper.Replace(value)), nil
}

// SetVariable writes the logging command that sets the pipeline variable
// name to value, followed by a newline.
func SetVariable(w io.Writer, name, value string, secret bool) error {
	line, err := FormatSetVariable(name, value, secret)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, line)
	return err
}
