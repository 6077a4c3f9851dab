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

// ClusterTypeCredentialPassthrough selects a high-concurrency cluster with
// Azure AD credential passthrough enabled.
const ClusterTypeCredentialPassthrough = "credential passthrough"

// AutoScale bounds the number of workers of an autoscaling cluster.
type AutoScale struct {
	MinWorkers int32 `json:"min_workers"`
	MaxWorkers int32 `json:"max_workers"`
}

// ClusterSpec is the payload of clusters/create and clusters/edit, and the
// new_cluster block of a run submission.
type ClusterSpec struct {
	ClusterID              string            `json:"cluster_id,omitempty"`
	ClusterName            string            `json:"cluster_name,omitempty"`
	SparkVersion           string            `json:"spark_version"`
	AutoterminationMinutes int32             `json:"autotermination_minutes,omitempty"`
	InstancePoolID         string            `json:"instance_pool_id,omitempty"`
	NodeTypeID             string            `json:"node_type_id,omitempty"`
	DriverNodeTypeID       string            `json:"driver_node_type_id,omitempty"`
	NumWorkers             *int32            `json:"num_workers,omitempty"`
	AutoScale              *AutoScale        `json:"autoscale,omitempty"`
	SparkConf              map[string]string `json:"spark_conf,omitempty"`
	SparkEnvVars           map[string]string `json:"spark_env_vars,omitempty"`
	CustomTags             map[string]string `json:"custom_tags,omitempty"`
}

// ClusterInfo is a cluster as listed by clusters/list.
type ClusterInfo struct {
	ClusterID      string `json:"cluster_id"`
	ClusterName    string `json:"cluster_name"`
	SparkVersion   string `json:"spark_version,omitempty"`
	NodeTypeID     string `json:"node_type_id,omitempty"`
	InstancePoolID string `json:"instance_pool_id,omitempty"`
	State          string `json:"state,omitempty"`
	StateMessage   string `json:"state_message,omitempty"`
}

type ListClustersResponse struct {
	Clusters []ClusterInfo `json:"clusters,omitempty"`
}

type CreateClusterResponse struct {
	ClusterID string `json:"cluster_id"`
}

// ClusterIDRequest is the payload of the cluster endpoints that only take an id,
// such as clusters/delete.
type ClusterIDRequest struct {
	ClusterID string `json:"cluster_id"`
}

// NodeType describes a VM type that can back cluster nodes.
type NodeType struct {
	NodeTypeID     string  `json:"node_type_id"`
	MemoryMB       int64   `json:"memory_mb,omitempty"`
	NumCores       float64 `json:"num_cores,omitempty"`
	Description    string  `json:"description,omitempty"`
	InstanceTypeID string  `json:"instance_type_id,omitempty"`
	IsDeprecated   bool    `json:"is_deprecated,omitempty"`
}

type ListNodeTypesResponse struct {
	NodeTypes []NodeType `json:"node_types"`
}
