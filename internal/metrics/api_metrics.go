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
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbxops/dbxctl/pkg/common"
	"github.com/dbxops/dbxctl/pkg/util"
)

// DefaultAPIRequestDurationBuckets are the histogram buckets of API request latency in seconds.
var DefaultAPIRequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// APIMetrics records calls made to the Databricks REST API.
type APIMetrics struct {
	logger logr.Logger

	requestCount           *prometheus.CounterVec
	requestDurationSeconds *prometheus.HistogramVec
}

func NewAPIMetrics(prefix string, buckets []float64, logger logr.Logger) *APIMetrics {
	labels := []string{common.MetricLabelMethod, common.MetricLabelEndpoint, common.MetricLabelCode}

	return &APIMetrics{
		logger: logger,

		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: util.CreateValidMetricNameLabel(prefix, common.MetricAPIRequestCount),
				Help: "Total number of Databricks API requests",
			},
			labels,
		),
		requestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    util.CreateValidMetricNameLabel(prefix, common.MetricAPIRequestDurationSeconds),
				Help:    "Latency of Databricks API requests",
				Buckets: buckets,
			},
			labels,
		),
	}
}

func (m *APIMetrics) Register(registry prometheus.Registerer) {
	if err := registry.Register(m.requestCount); err != nil {
		m.logger.Error(err, "Failed to register API metric", "name", common.MetricAPIRequestCount)
	}
	if err := registry.Register(m.requestDurationSeconds); err != nil {
		m.logger.Error(err, "Failed to register API metric", "name", common.MetricAPIRequestDurationSeconds)
	}
}

// ObserveRequest records one API call. A code of zero means no response was received.
func (m *APIMetrics) ObserveRequest(method, endpoint string, code int, duration time.Duration) {
	if m == nil {
		return
	}

	codeLabel := "error"
	if code > 0 {
		codeLabel = strconv.Itoa(code)
	}
	labels := prometheus.Labels{
		common.MetricLabelMethod:   method,
		common.MetricLabelEndpoint: endpoint,
		common.MetricLabelCode:     codeLabel,
	}

	counter, err := m.requestCount.GetMetricWith(labels)
	if err != nil {
		m.logger.Error(err, "Failed to collect API metric", "metric", common.MetricAPIRequestCount, "labels", labels)
		return
	}
	counter.Inc()

	observer, err := m.requestDurationSeconds.GetMetricWith(labels)
	if err != nil {
		m.logger.Error(err, "Failed to collect API metric", "metric", common.MetricAPIRequestDurationSeconds, "labels", labels)
		return
	}
	observer.Observe(duration.Seconds())
}
