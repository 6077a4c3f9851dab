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

// AzureAvailability selects how pool instances are acquired on Azure.
type AzureAvailability string

const (
	AzureAvailabilitySpot             AzureAvailability = "SPOT_AZURE"
	AzureAvailabilityOnDemand         AzureAvailability = "ON_DEMAND_AZURE"
	AzureAvailabilitySpotWithFallback AzureAvailability = "SPOT_WITH_FALLBACK_AZURE"
)

// AzureAttributes holds the Azure specific settings of an instance pool.
// A SpotBidMaxPrice of -1 means the instance is never evicted on price.
type AzureAttributes struct {
	Availability    AzureAvailability `json:"availability,omitempty"`
	SpotBidMaxPrice *float64          `json:"spot_bid_max_price,omitempty"`
}

// InstancePool is the payload of instance-pools/create and instance-pools/edit
// and the element type of instance-pools/list.
type InstancePool struct {
	InstancePoolID                     string            `json:"instance_pool_id,omitempty"`
	InstancePoolName                   string            `json:"instance_pool_name"`
	NodeTypeID                         string            `json:"node_type_id"`
	MinIdleInstances                   int32             `json:"min_idle_instances"`
	MaxCapacity                        int32             `json:"max_capacity,omitempty"`
	IdleInstanceAutoterminationMinutes int32             `json:"idle_instance_autotermination_minutes"`
	PreloadedSparkVersions             []string          `json:"preloaded_spark_versions,omitempty"`
	AzureAttributes                    *AzureAttributes  `json:"azure_attributes,omitempty"`
	CustomTags                         map[string]string `json:"custom_tags,omitempty"`
	State                              string            `json:"state,omitempty"`
}

type ListInstancePoolsResponse struct {
	InstancePools []InstancePool `json:"instance_pools,omitempty"`
}

type CreateInstancePoolResponse struct {
	InstancePoolID string `json:"instance_pool_id"`
}
