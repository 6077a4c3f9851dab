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

import (
	"strings"

	"k8s.io/utils/ptr"
)

// CredentialPassthroughSparkConf returns the Spark configuration of a
// high-concurrency cluster with credential passthrough enabled.
func CredentialPassthroughSparkConf() map[string]string {
	return map[string]string{
		"spark.databricks.cluster.profile":                "serverless",
		"spark.databricks.repl.allowedLanguages":          "python,sql",
		"spark.databricks.passthrough.enabled":            "true",
		"spark.databricks.pyspark.enableProcessIsolation": "true",
	}
}

// SetClusterDefaults sets default values for certain fields of a ClusterSpec.
// An autoscale range that does not actually scale collapses to a fixed size
// cluster of MinWorkers workers.
func SetClusterDefaults(spec *ClusterSpec, clusterType string) {
	if spec == nil {
		return
	}

	if spec.AutoScale != nil && spec.AutoScale.MaxWorkers <= spec.AutoScale.MinWorkers {
		spec.NumWorkers = ptr.To(spec.AutoScale.MinWorkers)
		spec.AutoScale = nil
	}

	if spec.AutoScale != nil {
		spec.NumWorkers = nil
	} else if spec.NumWorkers == nil {
		spec.NumWorkers = ptr.To[int32](0)
	}

	// A node type takes precedence over a pool.
	if spec.NodeTypeID != "" {
		spec.InstancePoolID = ""
	}

	if strings.EqualFold(strings.TrimSpace(clusterType), ClusterTypeCredentialPassthrough) {
		if spec.SparkConf == nil {
			spec.SparkConf = make(map[string]string)
		}
		for k, v := range CredentialPassthroughSparkConf() {
			spec.SparkConf[k] = v
		}
	}
}

// SetInstancePoolDefaults sets default values for certain fields of an InstancePool.
// Spot pools never get evicted on price; every other availability is
// normalised to on-demand.
func SetInstancePoolDefaults(pool *InstancePool) {
	if pool == nil {
		return
	}

	if pool.AzureAttributes == nil {
		pool.AzureAttributes = &AzureAttributes{}
	}

	if pool.AzureAttributes.Availability == AzureAvailabilitySpot {
		pool.AzureAttributes.SpotBidMaxPrice = ptr.To(-1.0)
	} else {
		pool.AzureAttributes.Availability = AzureAvailabilityOnDemand
		pool.AzureAttributes.SpotBidMaxPrice = nil
	}
}
