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

package client

import (
	"context"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/pkg/common"
)

func (c *Client) ListClusters(ctx context.Context) ([]databricks.ClusterInfo, error) {
	resp := &databricks.ListClustersResponse{}
	if _, err := c.get(ctx, common.PathClustersList, nil, resp); err != nil {
		return nil, err
	}
	return resp.Clusters, nil
}

func (c *Client) ListNodeTypes(ctx context.Context) ([]databricks.NodeType, error) {
	resp := &databricks.ListNodeTypesResponse{}
	if _, err := c.get(ctx, common.PathClustersListNodeTypes, nil, resp); err != nil {
		return nil, err
	}
	return resp.NodeTypes, nil
}

// CreateCluster creates a cluster and returns its id. The cluster starts
// immediately.
func (c *Client) CreateCluster(ctx context.Context, spec *databricks.ClusterSpec) (string, error) {
	resp := &databricks.CreateClusterResponse{}
	if _, err := c.post(ctx, common.PathClustersCreate, spec, resp); err != nil {
		return "", err
	}
	return resp.ClusterID, nil
}

// EditCluster replaces the configuration of the cluster identified by
// spec.ClusterID.
func (c *Client) EditCluster(ctx context.Context, spec *databricks.ClusterSpec) error {
	_, err := c.post(ctx, common.PathClustersEdit, spec, nil)
	return err
}

// DeleteCluster terminates a cluster.
func (c *Client) DeleteCluster(ctx context.Context, clusterID string) error {
	_, err := c.post(ctx, common.PathClustersDelete, &databricks.ClusterIDRequest{ClusterID: clusterID}, nil)
	return err
}
