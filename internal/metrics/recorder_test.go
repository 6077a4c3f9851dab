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

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIMetrics_ObserveRequest(t *testing.T) {
	recorder := NewRecorder("dbxctl_", logr.Discard())

	recorder.API.ObserveRequest("GET", "/jobs/runs/get-output", 200, 120*time.Millisecond)
	recorder.API.ObserveRequest("GET", "/jobs/runs/get-output", 200, 80*time.Millisecond)
	recorder.API.ObserveRequest("POST", "/clusters/create", 0, time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(recorder.API.requestCount.WithLabelValues("GET", "/jobs/runs/get-output", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.API.requestCount.WithLabelValues("POST", "/clusters/create", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(recorder.API.requestDurationSeconds))
}

func TestRunWaitMetrics(t *testing.T) {
	recorder := NewRecorder("dbxctl_", logr.Discard())

	recorder.RunWait.ObservePoll("PENDING")
	recorder.RunWait.ObservePoll("RUNNING")
	recorder.RunWait.ObservePoll("RUNNING")
	recorder.RunWait.ObserveOutcome("Succeeded", "SUCCESS", 20*time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(recorder.RunWait.pollCount.WithLabelValues("RUNNING")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.RunWait.outcomeCount.WithLabelValues("Succeeded", "SUCCESS")))
}

func TestNilRecorder(t *testing.T) {
	var recorder *Recorder

	assert.NotPanics(t, func() {
		recorder.APIMetrics().ObserveRequest("GET", "/clusters/list", 200, time.Second)
		recorder.RunWaitMetrics().ObservePoll("RUNNING")
		recorder.RunWaitMetrics().ObserveOutcome("TimedOut", "RUNNING", time.Minute)
	})
	assert.NoError(t, recorder.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	recorder := NewRecorder("dbxctl_", logr.Discard())
	recorder.RunWait.ObservePoll("TERMINATED")

	path := filepath.Join(t.TempDir(), "dbxctl.prom")
	require.NoError(t, recorder.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dbxctl_run_wait_poll_count{life_cycle_state="TERMINATED"} 1`)
}
