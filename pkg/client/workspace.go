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

// CreateSecretScope creates a Databricks backed secret scope manageable by
// all workspace users.
func (c *Client) CreateSecretScope(ctx context.Context, scope string) error {
	req := &databricks.CreateSecretScopeRequest{
		Scope:                  scope,
		InitialManagePrincipal: "users",
	}
	_, err := c.post(ctx, common.PathSecretScopesCreate, req, nil)
	return err
}

// CurrentUser returns the identity the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*databricks.User, error) {
	user := &databricks.User{}
	if _, err := c.get(ctx, common.PathSCIMMe, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}
