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

package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dbxops/dbxctl/pkg/common"
)

// APIError is returned for every response whose status code is not 200 OK.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Body is the raw response body.
	Body string
	// ErrorCode and Message are parsed from the Databricks error document
	// when the body contains one.
	ErrorCode string
	Message   string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s %s returned %d %s: %s", e.Method, e.Path, e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func newAPIError(method, path string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       string(body),
	}

	var document struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &document); err == nil {
		apiErr.ErrorCode = document.ErrorCode
		apiErr.Message = document.Message
	}

	return apiErr
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status code carried by err, or 0 when err is
// not an API error.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// IsResourceAlreadyExists returns whether err reports that the resource being
// created already exists.
func IsResourceAlreadyExists(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.ErrorCode == common.ErrorCodeResourceAlreadyExists
}
