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

// Package provision creates or updates Databricks workspace resources
// identified by name, and submits one-time notebook runs.
package provision

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/pkg/client"
	"github.com/dbxops/dbxctl/pkg/common"
)

// API is the subset of the Databricks REST API used for provisioning.
type API interface {
	ListClusters(ctx context.Context) ([]databricks.ClusterInfo, error)
	ListNodeTypes(ctx context.Context) ([]databricks.NodeType, error)
	CreateCluster(ctx context.Context, spec *databricks.ClusterSpec) (string, error)
	EditCluster(ctx context.Context, spec *databricks.ClusterSpec) error
	DeleteCluster(ctx context.Context, clusterID string) error

	ListInstancePools(ctx context.Context) ([]databricks.InstancePool, error)
	CreateInstancePool(ctx context.Context, pool *databricks.InstancePool) (string, error)
	EditInstancePool(ctx context.Context, pool *databricks.InstancePool) error

	SubmitRun(ctx context.Context, req *databricks.SubmitRunRequest) (int64, error)
	CreateSecretScope(ctx context.Context, scope string) error
}

// OperationResult is the action that was performed on a resource.
type OperationResult string

const (
	OperationResultCreated OperationResult = "created"
	OperationResultUpdated OperationResult = "updated"
)

// Provisioner ensures workspace resources exist with the requested settings.
type Provisioner struct {
	api    API
	logger logr.Logger
}

func New(api API, logger logr.Logger) *Provisioner {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return &Provisioner{api: api, logger: logger}
}

// EnsureCluster creates the cluster named spec.ClusterName, or edits the
// existing cluster of that name. spec.InstancePoolID may carry either a pool
// id or a node type id. When stopAfterCreate is set the cluster is
// terminated again so it does not run idle.
func (p *Provisioner) EnsureCluster(ctx context.Context, spec *databricks.ClusterSpec, clusterType string, stopAfterCreate bool) (string, OperationResult, error) {
	if spec.ClusterName == "" {
		return "", "", fmt.Errorf("cluster name must not be empty")
	}
	logger := p.logger.WithValues("cluster", spec.ClusterName)

	if err := p.resolveNodeType(ctx, spec); err != nil {
		return "", "", err
	}
	databricks.SetClusterDefaults(spec, clusterType)

	clusters, err := p.api.ListClusters(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to list clusters: %w", err)
	}

	result := OperationResultCreated
	spec.ClusterID = ""
	for _, cluster := range clusters {
		if cluster.ClusterName == spec.ClusterName {
			spec.ClusterID = cluster.ClusterID
			result = OperationResultUpdated
			break
		}
	}

	clusterID := spec.ClusterID
	switch result {
	case OperationResultUpdated:
		logger.V(1).Info("Editing existing cluster", "clusterID", clusterID)
		if err := p.api.EditCluster(ctx, spec); err != nil {
			return "", "", fmt.Errorf("failed to edit cluster %s: %w", clusterID, err)
		}
	default:
		logger.V(1).Info("Creating cluster")
		clusterID, err = p.api.CreateCluster(ctx, spec)
		if err != nil {
			return "", "", fmt.Errorf("failed to create cluster %s: %w", spec.ClusterName, err)
		}
	}
	logger.Info("Cluster "+string(result), "clusterID", clusterID)

	if stopAfterCreate {
		if err := p.api.DeleteCluster(ctx, clusterID); err != nil {
			logger.Error(err, "Failed to terminate cluster", "clusterID", clusterID)
		} else {
			logger.V(1).Info("Terminated cluster", "clusterID", clusterID)
		}
	}

	return clusterID, result, nil
}

// EnsureInstancePool creates the pool named pool.InstancePoolName, or edits
// the existing pool of that name.
func (p *Provisioner) EnsureInstancePool(ctx context.Context, pool *databricks.InstancePool) (string, OperationResult, error) {
	if pool.InstancePoolName == "" {
		return "", "", fmt.Errorf("instance pool name must not be empty")
	}
	logger := p.logger.WithValues("pool", pool.InstancePoolName)
	databricks.SetInstancePoolDefaults(pool)

	pools, err := p.api.ListInstancePools(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to list instance pools: %w", err)
	}

	pool.InstancePoolID = ""
	for _, existing := range pools {
		if existing.InstancePoolName == pool.InstancePoolName {
			pool.InstancePoolID = existing.InstancePoolID
			break
		}
	}

	if pool.InstancePoolID != "" {
		logger.V(1).Info("Editing existing instance pool", "poolID", pool.InstancePoolID)
		if err := p.api.EditInstancePool(ctx, pool); err != nil {
			return "", "", fmt.Errorf("failed to edit instance pool %s: %w", pool.InstancePoolID, err)
		}
		logger.Info("Instance pool updated", "poolID", pool.InstancePoolID)
		return pool.InstancePoolID, OperationResultUpdated, nil
	}

	logger.V(1).Info("Creating instance pool")
	poolID, err := p.api.CreateInstancePool(ctx, pool)
	if err != nil {
		return "", "", fmt.Errorf("failed to create instance pool %s: %w", pool.InstancePoolName, err)
	}
	logger.Info("Instance pool created", "poolID", poolID)
	return poolID, OperationResultCreated, nil
}

// SubmitNotebookRun submits a one-time run and returns its id. A new cluster
// is resolved and defaulted the same way EnsureCluster does it, and an
// idempotency token is generated when the request has none.
func (p *Provisioner) SubmitNotebookRun(ctx context.Context, req *databricks.SubmitRunRequest) (int64, error) {
	if req.NotebookTask == nil || req.NotebookTask.NotebookPath == "" {
		return 0, fmt.Errorf("notebook path must not be empty")
	}
	if req.NewCluster == nil && req.ExistingClusterID == "" {
		return 0, fmt.Errorf("either a new cluster or an existing cluster id is required")
	}

	if req.NewCluster != nil {
		if err := p.resolveNodeType(ctx, req.NewCluster); err != nil {
			return 0, err
		}
		databricks.SetClusterDefaults(req.NewCluster, "")
	}
	if req.IdempotencyToken == "" {
		req.IdempotencyToken = uuid.NewString()
	}

	runID, err := p.api.SubmitRun(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to submit run of notebook %s: %w", req.NotebookTask.NotebookPath, err)
	}
	p.logger.Info("Submitted notebook run", "notebook", req.NotebookTask.NotebookPath, "runID", runID, "idempotencyToken", req.IdempotencyToken)
	return runID, nil
}

// EnsureSecretScope creates a secret scope and reports whether it was created
// or already existed.
func (p *Provisioner) EnsureSecretScope(ctx context.Context, scope string) (string, error) {
	if scope == "" {
		return "", fmt.Errorf("secret scope name must not be empty")
	}

	err := p.api.CreateSecretScope(ctx, scope)
	switch {
	case err == nil:
		p.logger.Info("Secret scope created", "scope", scope)
		return common.SecretScopeCreated, nil
	case client.IsResourceAlreadyExists(err):
		p.logger.V(1).Info("Secret scope already exists", "scope", scope)
		return common.SecretScopeExists, nil
	default:
		return "", fmt.Errorf("failed to create secret scope %s: %w", scope, err)
	}
}

// resolveNodeType moves spec.InstancePoolID to spec.NodeTypeID when it names
// a node type of the workspace.
func (p *Provisioner) resolveNodeType(ctx context.Context, spec *databricks.ClusterSpec) error {
	if spec.InstancePoolID == "" || spec.NodeTypeID != "" {
		return nil
	}

	nodeTypes, err := p.api.ListNodeTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list node types: %w", err)
	}
	for _, nodeType := range nodeTypes {
		if nodeType.NodeTypeID == spec.InstancePoolID {
			p.logger.V(1).Info("Using node type instead of instance pool", "nodeType", nodeType.NodeTypeID)
			spec.NodeTypeID = spec.InstancePoolID
			spec.InstancePoolID = ""
			return nil
		}
	}
	return nil
}
