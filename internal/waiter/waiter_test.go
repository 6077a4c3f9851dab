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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/internal/metrics"
	"github.com/dbxops/dbxctl/pkg/client"
)

const (
	runningBody       = `{"metadata":{"run_id":42,"state":{"life_cycle_state":"RUNNING","state_message":"In run"}}}`
	pendingBody       = `{"metadata":{"run_id":42,"state":{"life_cycle_state":"PENDING"}}}`
	successBody       = `{"metadata":{"state":{"life_cycle_state":"TERMINATED","result_state":"SUCCESS"}},"notebook_output":{"result":"ok"}}`
	successNoOutput   = `{"metadata":{"state":{"life_cycle_state":"TERMINATED","result_state":"SUCCESS"}}}`
	failedBody        = `{"metadata":{"state":{"life_cycle_state":"TERMINATED","result_state":"FAILED","state_message":"Notebook failed"}}}`
	internalErrorBody = `{"metadata":{"state":{"life_cycle_state":"INTERNAL_ERROR","state_message":"Cluster unreachable"}}}`
	skippedBody       = `{"metadata":{"state":{"life_cycle_state":"SKIPPED"}}}`
)

// fakeGetter replays responses in order and repeats the last one.
type fakeGetter struct {
	responses []string
	errs      map[int]error
	calls     int
}

func (f *fakeGetter) GetRunOutput(_ context.Context, _ string) (*databricks.RunOutput, []byte, error) {
	index := f.calls
	if index >= len(f.responses) {
		index = len(f.responses) - 1
	}
	f.calls++

	raw := []byte(f.responses[index])
	if err, ok := f.errs[index]; ok {
		return nil, raw, err
	}
	output := &databricks.RunOutput{}
	if err := json.Unmarshal(raw, output); err != nil {
		return nil, raw, err
	}
	return output, raw, nil
}

// steppingClock advances the fake time on every After call so waits finish
// without sleeping.
type steppingClock struct {
	*testingclock.FakeClock
	sleeps []time.Duration
}

func newSteppingClock() *steppingClock {
	return &steppingClock{FakeClock: testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
}

func (c *steppingClock) After(d time.Duration) <-chan time.Time {
	c.sleeps = append(c.sleeps, d)
	c.Step(d)
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

func newTestWaiter(t *testing.T, getter RunOutputGetter, timeout, interval time.Duration, output, progress io.Writer) (*Waiter, *steppingClock) {
	t.Helper()
	clk := newSteppingClock()
	w, err := New(getter, Options{
		PollInterval: interval,
		Timeout:      timeout,
		Output:       output,
		Progress:     progress,
		Clock:        clk,
	})
	require.NoError(t, err)
	return w, clk
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name        string
		timeout     time.Duration
		interval    time.Duration
		expectError bool
	}{
		{name: "defaults", timeout: 900 * time.Second, interval: 10 * time.Second},
		{name: "zero timeout", timeout: 0, interval: 10 * time.Second, expectError: true},
		{name: "negative timeout", timeout: -time.Second, interval: 10 * time.Second, expectError: true},
		{name: "zero interval", timeout: time.Minute, interval: 0, expectError: true},
		{name: "interval equal to timeout", timeout: 10 * time.Second, interval: 10 * time.Second, expectError: true},
		{name: "interval larger than timeout", timeout: 5 * time.Second, interval: 10 * time.Second, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&fakeGetter{responses: []string{runningBody}}, Options{Timeout: tc.timeout, PollInterval: tc.interval})
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := New(nil, Options{Timeout: time.Minute, PollInterval: time.Second})
	assert.Error(t, err)
}

func TestWaitSucceedsOnFirstPoll(t *testing.T) {
	getter := &fakeGetter{responses: []string{successBody}}
	output := &bytes.Buffer{}
	progress := &bytes.Buffer{}
	w, clk := newTestWaiter(t, getter, 900*time.Second, 10*time.Second, output, progress)

	outcome, err := w.Wait(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSucceeded, outcome.Type)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, 1, outcome.Polls)
	assert.Equal(t, 1, getter.calls)
	require.NotNil(t, outcome.NotebookResult)
	assert.Equal(t, "ok", *outcome.NotebookResult)
	assert.Equal(t, "ok\n", output.String())
	assert.Empty(t, progress.String())
	assert.Empty(t, clk.sleeps)
	assert.Empty(t, outcome.Message())
	assert.NoError(t, outcome.Err())
}

func TestWaitSucceedsWithoutNotebookOutput(t *testing.T) {
	output := &bytes.Buffer{}
	w, _ := newTestWaiter(t, &fakeGetter{responses: []string{pendingBody, runningBody, successNoOutput}}, 900*time.Second, 10*time.Second, output, nil)

	outcome, err := w.Wait(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSucceeded, outcome.Type)
	assert.Equal(t, 3, outcome.Polls)
	assert.Nil(t, outcome.NotebookResult)
	assert.Empty(t, output.String())
	assert.Equal(t, 20*time.Second, outcome.Elapsed)
}

func TestWaitTerminatesAbnormally(t *testing.T) {
	testCases := []struct {
		name          string
		responses     []string
		expectedState string
		expectedPolls int
	}{
		{
			name:          "internal error on first poll",
			responses:     []string{internalErrorBody},
			expectedState: "INTERNAL_ERROR",
			expectedPolls: 1,
		},
		{
			name:          "internal error after running",
			responses:     []string{runningBody, runningBody, internalErrorBody},
			expectedState: "INTERNAL_ERROR",
			expectedPolls: 3,
		},
		{
			name:          "skipped",
			responses:     []string{pendingBody, skippedBody},
			expectedState: "SKIPPED",
			expectedPolls: 2,
		},
		{
			name:          "terminated with failure",
			responses:     []string{runningBody, failedBody},
			expectedState: "FAILED",
			expectedPolls: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			w, _ := newTestWaiter(t, &fakeGetter{responses: tc.responses}, 900*time.Second, 10*time.Second, output, nil)

			outcome, err := w.Wait(context.Background(), "42")
			require.NoError(t, err)

			assert.Equal(t, OutcomeTerminatedAbnormally, outcome.Type)
			assert.Equal(t, tc.expectedState, outcome.State)
			assert.Equal(t, tc.expectedPolls, outcome.Polls)
			assert.Equal(t, tc.expectedState, outcome.Message())
			assert.EqualError(t, outcome.Err(), tc.expectedState)
			assert.Empty(t, output.String())
		})
	}
}

func TestWaitTimesOut(t *testing.T) {
	testCases := []struct {
		timeout       time.Duration
		interval      time.Duration
		expectedPolls int
	}{
		{timeout: 60 * time.Second, interval: 10 * time.Second, expectedPolls: 6},
		{timeout: 25 * time.Second, interval: 10 * time.Second, expectedPolls: 3},
		{timeout: 900 * time.Second, interval: 10 * time.Second, expectedPolls: 90},
		{timeout: 600 * time.Second, interval: 10 * time.Second, expectedPolls: 60},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s/%s", tc.timeout, tc.interval), func(t *testing.T) {
			lastBody := `{"metadata":{"run_id":42,"state":{"life_cycle_state":"RUNNING","state_message":"still going"}}}`
			getter := &fakeGetter{responses: []string{pendingBody, lastBody}}
			w, clk := newTestWaiter(t, getter, tc.timeout, tc.interval, nil, nil)

			outcome, err := w.Wait(context.Background(), "42")
			require.NoError(t, err)

			assert.Equal(t, OutcomeTimedOut, outcome.Type)
			assert.Equal(t, tc.expectedPolls, outcome.Polls)
			assert.Equal(t, tc.expectedPolls, getter.calls)
			assert.Len(t, clk.sleeps, tc.expectedPolls)
			assert.Equal(t, lastBody, outcome.Body)
			assert.Equal(t, lastBody, outcome.Message())
			assert.EqualError(t, outcome.Err(), lastBody)
		})
	}
}

func TestWaitProgress(t *testing.T) {
	progress := &bytes.Buffer{}
	w, _ := newTestWaiter(t, &fakeGetter{responses: []string{pendingBody, runningBody, successBody}}, 30*time.Second, 10*time.Second, nil, progress)

	_, err := w.Wait(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t,
		"Current state: PENDING. Sleeping for 10 seconds. Remaining: 20 seconds.\n\n"+
			"Current state: RUNNING. Sleeping for 10 seconds. Remaining: 10 seconds.\n\n",
		progress.String())
}

func TestWaitTransportError(t *testing.T) {
	testCases := []struct {
		name            string
		err             error
		body            string
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "non 200 response",
			err:             &client.APIError{Method: http.MethodGet, Path: "/jobs/runs/get-output", StatusCode: http.StatusForbidden, Body: "Invalid access token."},
			body:            "Invalid access token.",
			expectedCode:    http.StatusForbidden,
			expectedMessage: "Error 403:\nInvalid access token.",
		},
		{
			name:            "no response",
			err:             errors.New("dial tcp: connection refused"),
			expectedCode:    0,
			expectedMessage: "Error 0:\ndial tcp: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			getter := &fakeGetter{
				responses: []string{runningBody, tc.body},
				errs:      map[int]error{1: tc.err},
			}
			w, _ := newTestWaiter(t, getter, 900*time.Second, 10*time.Second, nil, nil)

			outcome, err := w.Wait(context.Background(), "42")
			require.NoError(t, err)

			assert.Equal(t, OutcomeTransportError, outcome.Type)
			assert.Equal(t, 2, outcome.Polls)
			assert.Equal(t, 2, getter.calls)
			assert.Equal(t, tc.expectedCode, outcome.StatusCode)
			assert.Equal(t, tc.expectedMessage, outcome.Message())
		})
	}
}

func TestWaitIsRepeatable(t *testing.T) {
	w, _ := newTestWaiter(t, &fakeGetter{responses: []string{failedBody}}, 60*time.Second, 10*time.Second, nil, nil)

	first, err := w.Wait(context.Background(), "42")
	require.NoError(t, err)
	second, err := w.Wait(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "FAILED", first.State)
	assert.Equal(t, first, second)
}

func TestWaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	getter := &fakeGetter{responses: []string{runningBody}}
	w, err := New(getter, Options{
		PollInterval: 10 * time.Second,
		Timeout:      60 * time.Second,
		Clock:        testingclock.NewFakeClock(time.Now()),
	})
	require.NoError(t, err)

	outcome, err := w.Wait(ctx, "42")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Outcome{}, outcome)
	assert.Equal(t, 1, getter.calls)
}

func TestWaitRecordsMetrics(t *testing.T) {
	runWaitMetrics := metrics.NewRunWaitMetrics("dbxctl_", metrics.DefaultRunWaitDurationBuckets, logr.Discard())
	registry := prometheus.NewRegistry()
	runWaitMetrics.Register(registry)

	w, err := New(&fakeGetter{responses: []string{runningBody, successBody}}, Options{
		PollInterval: 10 * time.Second,
		Timeout:      60 * time.Second,
		Clock:        newSteppingClock(),
		Metrics:      runWaitMetrics,
	})
	require.NoError(t, err)

	_, err = w.Wait(context.Background(), "42")
	require.NoError(t, err)

	// Two poll series (RUNNING, TERMINATED), one outcome counter and one duration histogram.
	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestWaitAgainstServer(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2.0/jobs/runs/get-output", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("run_id"))
		assert.Equal(t, "Bearer dapi-token", r.Header.Get("Authorization"))

		mu.Lock()
		requests++
		current := requests
		mu.Unlock()

		if current == 1 {
			_, _ = io.WriteString(rw, runningBody)
			return
		}
		_, _ = io.WriteString(rw, successBody)
	}))
	defer server.Close()

	c, err := client.New(server.URL+"/", "dapi-token", client.Options{HTTPClient: server.Client()})
	require.NoError(t, err)

	output := &bytes.Buffer{}
	w, _ := newTestWaiter(t, c, 900*time.Second, 10*time.Second, output, nil)

	outcome, err := w.Wait(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, 2, outcome.Polls)
	assert.Equal(t, "ok\n", output.String())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, requests)
}
