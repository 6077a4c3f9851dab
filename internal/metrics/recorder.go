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
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry with every dbxctl metric registered in it.
// A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	API     *APIMetrics
	RunWait *RunWaitMetrics
}

func NewRecorder(prefix string, logger logr.Logger) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		API:      NewAPIMetrics(prefix, DefaultAPIRequestDurationBuckets, logger),
		RunWait:  NewRunWaitMetrics(prefix, DefaultRunWaitDurationBuckets, logger),
	}
	r.API.Register(r.registry)
	r.RunWait.Register(r.registry)
	return r
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// APIMetrics returns the API metrics, or nil for a nil recorder.
func (r *Recorder) APIMetrics() *APIMetrics {
	if r == nil {
		return nil
	}
	return r.API
}

// RunWaitMetrics returns the run wait metrics, or nil for a nil recorder.
func (r *Recorder) RunWaitMetrics() *RunWaitMetrics {
	if r == nil {
		return nil
	}
	return r.RunWait
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format understood by the node exporter textfile collector. The file is
// replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
