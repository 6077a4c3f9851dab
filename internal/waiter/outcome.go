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

package waiter

import (
	"errors"
	"fmt"
	"time"
)

// OutcomeType classifies how a wait ended.
type OutcomeType string

const (
	// OutcomeSucceeded means the run terminated with result state SUCCESS.
	OutcomeSucceeded OutcomeType = "Succeeded"

	// OutcomeTerminatedAbnormally means the run reached INTERNAL_ERROR or
	// SKIPPED, or terminated with a result other than SUCCESS.
	OutcomeTerminatedAbnormally OutcomeType = "TerminatedAbnormally"

	// OutcomeTransportError means a status query was not answered with 200 OK.
	OutcomeTransportError OutcomeType = "TransportError"

	// OutcomeTimedOut means the time budget ran out while the run was still active.
	OutcomeTimedOut OutcomeType = "TimedOut"
)

// Outcome is the final report of a wait.
type Outcome struct {
	Type OutcomeType

	// State is the life cycle state or result state that ended the wait.
	State string

	// NotebookResult is the value the notebook exited with, if any.
	NotebookResult *string

	// StatusCode is set for transport errors. It is zero when no response
	// was received at all.
	StatusCode int

	// Body is the raw response body of the last query. It is set for
	// transport errors and timeouts.
	Body string

	Polls   int
	Elapsed time.Duration
}

// Succeeded returns whether the run completed successfully.
func (o Outcome) Succeeded() bool {
	return o.Type == OutcomeSucceeded
}

// Message returns the descriptive string reported for the outcome. It is
// empty on success.
func (o Outcome) Message() string {
	switch o.Type {
	case OutcomeSucceeded:
		return ""
	case OutcomeTerminatedAbnormally:
		return o.State
	case OutcomeTransportError:
		return fmt.Sprintf("Error %d:\n%s", o.StatusCode, o.Body)
	case OutcomeTimedOut:
		return o.Body
	}
	return string(o.Type)
}

// Err returns nil on success and an error carrying Message otherwise.
func (o Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return errors.New(o.Message())
}
