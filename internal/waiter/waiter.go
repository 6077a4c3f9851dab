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

// Package waiter polls a Databricks job run until it reaches a terminal
// state or a time budget runs out.
package waiter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/internal/metrics"
	"github.com/dbxops/dbxctl/pkg/client"
)

// RunOutputGetter queries the output of a job run. The raw response body is
// returned alongside the decoded value, and also with API errors.
type RunOutputGetter interface {
	GetRunOutput(ctx context.Context, runID string) (*databricks.RunOutput, []byte, error)
}

// Options defines the options of the waiter.
type Options struct {
	// PollInterval is the time between two queries. It must be smaller than Timeout.
	PollInterval time.Duration

	// Timeout is the total time budget of a wait.
	Timeout time.Duration

	// Output receives the notebook result of a successful run.
	Output io.Writer

	// Progress receives a line per poll of a still running run.
	Progress io.Writer

	Clock   clock.Clock
	Logger  logr.Logger
	Metrics *metrics.RunWaitMetrics
}

// Waiter waits for job runs to complete. A Waiter keeps no state between
// calls to Wait.
type Waiter struct {
	getter  RunOutputGetter
	options Options
}

// New creates a waiter. It fails unless 0 < PollInterval < Timeout.
func New(getter RunOutputGetter, options Options) (*Waiter, error) {
	if getter == nil {
		return nil, fmt.Errorf("run output getter must not be nil")
	}
	if options.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be greater than zero, got %s", options.Timeout)
	}
	if options.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be greater than zero, got %s", options.PollInterval)
	}
	if options.PollInterval >= options.Timeout {
		return nil, fmt.Errorf("poll interval %s must be smaller than timeout %s", options.PollInterval, options.Timeout)
	}

	if options.Output == nil {
		options.Output = io.Discard
	}
	if options.Progress == nil {
		options.Progress = io.Discard
	}
	if options.Clock == nil {
		options.Clock = clock.RealClock{}
	}
	if options.Logger.GetSink() == nil {
		options.Logger = logr.Discard()
	}

	return &Waiter{getter: getter, options: options}, nil
}

// Wait polls the run until it terminates or the timeout is used up. The
// returned error is only set when ctx is done before an outcome is known.
func (w *Waiter) Wait(ctx context.Context, runID string) (Outcome, error) {
	logger := w.options.Logger.WithValues("runID", runID)
	started := w.options.Clock.Now()

	var elapsed time.Duration
	var lastBody []byte
	polls := 0

	for elapsed < w.options.Timeout {
		output, raw, err := w.getter.GetRunOutput(ctx, runID)
		polls++
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			outcome := Outcome{
				Type:       OutcomeTransportError,
				StatusCode: client.StatusCode(err),
				Body:       string(raw),
			}
			if outcome.StatusCode == 0 {
				outcome.Body = err.Error()
			}
			return w.finish(logger, outcome, polls, started), nil
		}
		lastBody = raw

		state := output.Metadata.State
		w.options.Metrics.ObservePoll(string(state.LifeCycleState))
		logger.V(1).Info("Polled run", "lifeCycleState", state.LifeCycleState, "resultState", state.ResultState, "elapsed", elapsed)

		switch state.LifeCycleState {
		case databricks.RunLifeCycleStateInternalError, databricks.RunLifeCycleStateSkipped:
			outcome := Outcome{Type: OutcomeTerminatedAbnormally, State: string(state.LifeCycleState)}
			return w.finish(logger, outcome, polls, started), nil
		case databricks.RunLifeCycleStateTerminated:
			if state.ResultState != databricks.RunResultStateSuccess {
				outcome := Outcome{Type: OutcomeTerminatedAbnormally, State: string(state.ResultState)}
				return w.finish(logger, outcome, polls, started), nil
			}
			outcome := Outcome{Type: OutcomeSucceeded, State: string(state.ResultState)}
			if output.NotebookOutput != nil && output.NotebookOutput.Result != nil {
				outcome.NotebookResult = output.NotebookOutput.Result
				fmt.Fprintln(w.options.Output, *outcome.NotebookResult)
			}
			return w.finish(logger, outcome, polls, started), nil
		}

		elapsed += w.options.PollInterval
		fmt.Fprintf(w.options.Progress, "Current state: %s. Sleeping for %s seconds. Remaining: %s seconds.\n\n",
			state.LifeCycleState, seconds(w.options.PollInterval), seconds(w.options.Timeout-elapsed))

		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-w.options.Clock.After(w.options.PollInterval):
		}
	}

	outcome := Outcome{Type: OutcomeTimedOut, Body: string(lastBody)}
	return w.finish(logger, outcome, polls, started), nil
}

func (w *Waiter) finish(logger logr.Logger, outcome Outcome, polls int, started time.Time) Outcome {
	outcome.Polls = polls
	outcome.Elapsed = w.options.Clock.Since(started)
	w.options.Metrics.ObserveOutcome(string(outcome.Type), outcome.State, outcome.Elapsed)
	logger.V(1).Info("Finished waiting for run", "outcome", outcome.Type, "state", outcome.State, "polls", polls, "elapsed", outcome.Elapsed)
	return outcome
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
