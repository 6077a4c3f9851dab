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

package common

import "time"

// Environment variables.
const (
	// EnvWorkspaceURL is the Databricks workspace URL, shared with the Databricks CLI and SDKs.
	EnvWorkspaceURL = "DATABRICKS_HOST"

	// EnvToken is the personal access token or AAD token used as bearer token.
	EnvToken = "DATABRICKS_TOKEN"

	// EnvPrefix is the prefix of every other dbxctl setting read from the environment.
	EnvPrefix = "DBXCTL"
)

// Databricks REST API 2.0 endpoints, relative to APIPathPrefix.
const (
	APIPathPrefix = "/api/2.0"

	PathJobsRunsGetOutput = "/jobs/runs/get-output"

	PathJobsRunsGet = "/jobs/runs/get"

	PathJobsRunsSubmit = "/jobs/runs/submit"

	PathJobsRunsCancel = "/jobs/runs/cancel"

	PathClustersList = "/clusters/list"

	PathClustersListNodeTypes = "/clusters/list-node-types"

	PathClustersCreate = "/clusters/create"

	PathClustersEdit = "/clusters/edit"

	// PathClustersDelete terminates a cluster. The cluster configuration is kept.
	PathClustersDelete = "/clusters/delete"

	PathInstancePoolsList = "/instance-pools/list"

	PathInstancePoolsCreate = "/instance-pools/create"

	PathInstancePoolsEdit = "/instance-pools/edit"

	PathSecretScopesCreate = "/secrets/scopes/create"

	PathSCIMMe = "/preview/scim/v2/Me"
)

// Databricks API error codes.
const (
	ErrorCodeResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	ErrorCodeResourceDoesNotExist = "RESOURCE_DOES_NOT_EXIST"

	ErrorCodeInvalidParameterValue = "INVALID_PARAMETER_VALUE"
)

// Azure Pipelines variables published by the commands.
const (
	VariableClusterID = "databricksClusterId"

	VariablePoolID = "databricksPoolId"

	VariableNotebookRunID = "notebookRunId"
)

// Notebook exit values of the secret scope command.
const (
	SecretScopeCreated = "CREATED_SUCCESSFULLY"

	SecretScopeExists = "RESOURCE_ALREADY_EXISTS"
)

const (
	// DefaultPollInterval is the time between two run status queries.
	DefaultPollInterval = 10 * time.Second

	// DefaultWaitTimeout is the total time budget of a run wait.
	DefaultWaitTimeout = 900 * time.Second

	DefaultRequestTimeout = 60 * time.Second

	DefaultQPS = 10

	DefaultBurst = 20
)
