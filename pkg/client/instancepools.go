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

func (c *Client) ListInstancePools(ctx context.Context) ([]databricks.InstancePool, error) {
	resp := &databricks.ListInstancePoolsResponse{}
	if _, err := c.get(ctx, common.PathInstancePoolsList, nil, resp); err != nil {
		return nil, err
	}
	return resp.InstancePools, nil
}

func (c *Client) CreateInstancePool(ctx context.Context, pool *databricks.InstancePool) (string, error) {
	resp := &databricks.CreateInstancePoolResponse{}
	if _, err := c.post(ctx, common.PathInstancePoolsCreate, pool, resp); err != nil {
		return "", err
	}
	return resp.InstancePoolID, nil
}

// EditInstancePool updates the pool identified by pool.InstancePoolID.
func (c *Client) EditInstancePool(ctx context.Context, pool *databricks.InstancePool) error {
	_, err := c.post(ctx, common.PathInstancePoolsEdit, pool, nil)
	return err
}
