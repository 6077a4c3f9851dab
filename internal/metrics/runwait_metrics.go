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
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbxops/dbxctl/pkg/common"
	"github.com/dbxops/dbxctl/pkg/util"
)

// DefaultRunWaitDurationBuckets are the histogram buckets of run wait durations in seconds.
var DefaultRunWaitDurationBuckets = []float64{30, 60, 120, 300, 600, 900, 1800, 3600}

// RunWaitMetrics records the polls and outcomes of job run waits.
type RunWaitMetrics struct {
	logger logr.Logger

	pollCount       *prometheus.CounterVec
	outcomeCount    *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
}

func NewRunWaitMetrics(prefix string, buckets []float64, logger logr.Logger) *RunWaitMetrics {
	return &RunWaitMetrics{
		logger: logger,

		pollCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: util.CreateValidMetricNameLabel(prefix, common.MetricRunWaitPollCount),
				Help: "Total number of run status polls by observed life cycle state",
			},
			[]string{common.MetricLabelLifeCycleState},
		),
		outcomeCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: util.CreateValidMetricNameLabel(prefix, common.MetricRunWaitOutcomeCount),
				Help: "Total number of finished run waits by outcome",
			},
			[]string{common.MetricLabelOutcome, common.MetricLabelState},
		),
		durationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    util.CreateValidMetricNameLabel(prefix, common.MetricRunWaitDurationSeconds),
				Help:    "Time spent waiting for runs, counted in poll intervals",
				Buckets: buckets,
			},
			[]string{common.MetricLabelOutcome},
		),
	}
}

func (m *RunWaitMetrics) Register(registry prometheus.Registerer) {
	if err := registry.Register(m.pollCount); err != nil {
		m.logger.Error(err, "Failed to register run wait metric", "name", common.MetricRunWaitPollCount)
	}
	if err := registry.Register(m.outcomeCount); err != nil {
		m.logger.Error(err, "Failed to register run wait metric", "name", common.MetricRunWaitOutcomeCount)
	}
	if err := registry.Register(m.durationSeconds); err != nil {
		m.logger.Error(err, "Failed to register run wait metric", "name", common.MetricRunWaitDurationSeconds)
	}
}

func (m *RunWaitMetrics) ObservePoll(lifeCycleState string) {
	if m == nil {
		return
	}

	counter, err := m.pollCount.GetMetricWithLabelValues(lifeCycleState)
	if err != nil {
		m.logger.Error(err, "Failed to collect run wait metric", "metric", common.MetricRunWaitPollCount)
		return
	}
	counter.Inc()
}

func (m *RunWaitMetrics) ObserveOutcome(outcome, state string, elapsed time.Duration) {
	if m == nil {
		return
	}

	counter, err := m.outcomeCount.GetMetricWithLabelValues(outcome, state)
	if err != nil {
		m.logger.Error(err, "Failed to collect run wait metric", "metric", common.MetricRunWaitOutcomeCount)
		return
	}
	counter.Inc()

	observer, err := m.durationSeconds.GetMetricWithLabelValues(outcome)
	if err != nil {
		m.logger.Error(err, "Failed to collect run wait metric", "metric", common.MetricRunWaitDurationSeconds)
		return
	}
	observer.Observe(elapsed.Seconds())
	m.logger.V(1).Info("Recorded run wait outcome", "outcome", outcome, "state", state, "elapsed", elapsed)
}
