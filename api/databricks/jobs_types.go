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

package databricks

// RunLifeCycleState represents the coarse status of a job run.
type RunLifeCycleState string

// Different states a job run may have.
const (
	RunLifeCycleStatePending         RunLifeCycleState = "PENDING"
	RunLifeCycleStateQueued          RunLifeCycleState = "QUEUED"
	RunLifeCycleStateRunning         RunLifeCycleState = "RUNNING"
	RunLifeCycleStateTerminating     RunLifeCycleState = "TERMINATING"
	RunLifeCycleStateTerminated      RunLifeCycleState = "TERMINATED"
	RunLifeCycleStateSkipped         RunLifeCycleState = "SKIPPED"
	RunLifeCycleStateInternalError   RunLifeCycleState = "INTERNAL_ERROR"
	RunLifeCycleStateBlocked         RunLifeCycleState = "BLOCKED"
	RunLifeCycleStateWaitingForRetry RunLifeCycleState = "WAITING_FOR_RETRY"
)

// RunResultState is the outcome of a terminated run. It is only set once the
// life cycle state reaches TERMINATED.
type RunResultState string

// Different results a terminated run may report.
const (
	RunResultStateSuccess                      RunResultState = "SUCCESS"
	RunResultStateFailed                       RunResultState = "FAILED"
	RunResultStateTimedOut                     RunResultState = "TIMEDOUT"
	RunResultStateCanceled                     RunResultState = "CANCELED"
	RunResultStateExcluded                     RunResultState = "EXCLUDED"
	RunResultStateMaximumConcurrentRunsReached RunResultState = "MAXIMUM_CONCURRENT_RUNS_REACHED"
	RunResultStateUpstreamFailed               RunResultState = "UPSTREAM_FAILED"
	RunResultStateUpstreamCanceled             RunResultState = "UPSTREAM_CANCELED"
)

// RunState tells the current state of a run together with a human readable message.
type RunState struct {
	LifeCycleState          RunLifeCycleState `json:"life_cycle_state"`
	ResultState             RunResultState    `json:"result_state,omitempty"`
	StateMessage            string            `json:"state_message,omitempty"`
	UserCancelledOrTimedout bool              `json:"user_cancelled_or_timedout,omitempty"`
}

// ClusterInstance identifies the cluster a run was executed on.
type ClusterInstance struct {
	ClusterID      string `json:"cluster_id,omitempty"`
	SparkContextID string `json:"spark_context_id,omitempty"`
}

// Run is the metadata of a single job run as returned by jobs/runs/get.
// Times are epoch milliseconds, durations are milliseconds.
type Run struct {
	JobID             int64            `json:"job_id,omitempty"`
	RunID             int64            `json:"run_id"`
	NumberInJob       int64            `json:"number_in_job,omitempty"`
	RunName           string           `json:"run_name,omitempty"`
	CreatorUserName   string           `json:"creator_user_name,omitempty"`
	State             RunState         `json:"state"`
	StartTime         int64            `json:"start_time,omitempty"`
	SetupDuration     int64            `json:"setup_duration,omitempty"`
	ExecutionDuration int64            `json:"execution_duration,omitempty"`
	CleanupDuration   int64            `json:"cleanup_duration,omitempty"`
	EndTime           int64            `json:"end_time,omitempty"`
	RunPageURL        string           `json:"run_page_url,omitempty"`
	RunType           string           `json:"run_type,omitempty"`
	ClusterInstance   *ClusterInstance `json:"cluster_instance,omitempty"`
}

// NotebookOutput is the value a notebook passed to dbutils.notebook.exit().
type NotebookOutput struct {
	Result    *string `json:"result,omitempty"`
	Truncated bool    `json:"truncated,omitempty"`
}

// RunOutput is the response of jobs/runs/get-output.
type RunOutput struct {
	Metadata       Run             `json:"metadata"`
	NotebookOutput *NotebookOutput `json:"notebook_output,omitempty"`
	Error          string          `json:"error,omitempty"`
	ErrorTrace     string          `json:"error_trace,omitempty"`
	Logs           string          `json:"logs,omitempty"`
	LogsTruncated  bool            `json:"logs_truncated,omitempty"`
}

// NotebookTask runs the notebook at NotebookPath with the given widget values.
type NotebookTask struct {
	NotebookPath   string            `json:"notebook_path"`
	BaseParameters map[string]string `json:"base_parameters,omitempty"`
}

// SubmitRunRequest is the payload of jobs/runs/submit. Exactly one of
// NewCluster and ExistingClusterID should be set.
type SubmitRunRequest struct {
	RunName           string        `json:"run_name,omitempty"`
	NewCluster        *ClusterSpec  `json:"new_cluster,omitempty"`
	ExistingClusterID string        `json:"existing_cluster_id,omitempty"`
	NotebookTask      *NotebookTask `json:"notebook_task,omitempty"`
	TimeoutSeconds    int32         `json:"timeout_seconds,omitempty"`
	IdempotencyToken  string        `json:"idempotency_token,omitempty"`
}

type SubmitRunResponse struct {
	RunID int64 `json:"run_id"`
}

type CancelRunRequest struct {
	RunID int64 `json:"run_id"`
}
