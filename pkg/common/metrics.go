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

package common

// Databricks API metric names.
const (
	MetricAPIRequestCount = "api_request_count"

	MetricAPIRequestDurationSeconds = "api_request_duration_seconds"
)

// Run wait metric names.
const (
	MetricRunWaitPollCount = "run_wait_poll_count"

	MetricRunWaitOutcomeCount = "run_wait_outcome_count"

	MetricRunWaitDurationSeconds = "run_wait_duration_seconds"
)

// Metric labels.
const (
	MetricLabelMethod = "method"

	MetricLabelEndpoint = "endpoint"

	MetricLabelCode = "code"

	MetricLabelLifeCycleState = "life_cycle_state"

	MetricLabelOutcome = "outcome"

	MetricLabelState = "state"
)

// DefaultMetricsPrefix is prepended to every metric name.
const DefaultMetricsPrefix = "dbxctl_"
