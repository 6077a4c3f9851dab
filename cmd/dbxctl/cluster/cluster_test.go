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

package cluster

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbxops/dbxctl/api/databricks"
)

type workspace struct {
	paths   []string
	created *databricks.ClusterSpec
	edited  *databricks.ClusterSpec
	deleted string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	ws := &workspace{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.paths = append(ws.paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/2.0/clusters/list":
			_, _ = io.WriteString(w, `{"clusters":[{"cluster_id":"0101-existing","cluster_name":"etl"}]}`)
		case "/api/2.0/clusters/list-node-types":
			_, _ = io.WriteString(w, `{"node_types":[{"node_type_id":"Standard_DS3_v2"}]}`)
		case "/api/2.0/clusters/create":
			ws.created = &databricks.ClusterSpec{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(ws.created))
			_, _ = io.WriteString(w, `{"cluster_id":"0202-new"}`)
		case "/api/2.0/clusters/edit":
			ws.edited = &databricks.ClusterSpec{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(ws.edited))
			_, _ = io.WriteString(w, `{}`)
		case "/api/2.0/clusters/delete":
			req := &databricks.ClusterIDRequest{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(req))
			ws.deleted = req.ClusterID
			_, _ = io.WriteString(w, `{}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	viper.Set("workspace-url", server.URL)
	viper.Set("token", "dapi-token")
	t.Cleanup(viper.Reset)
	return ws
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	out := &bytes.Buffer{}
	cmd.SetArgs(append([]string{"create"}, args...))
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateCluster(t *testing.T) {
	ws := newWorkspace(t)

	out, err := execute(t,
		"--name=reporting",
		"--type=credential passthrough",
		"--autotermination-minutes=30",
		"--spark-version=7.3.x-scala2.12",
		"--pool-or-node-type=0101-120000-pool-1",
		"--num-workers=1",
		"--max-workers=4",
	)
	require.NoError(t, err)
	assert.Equal(t, "##vso[task.setvariable variable=databricksClusterId;issecret=false]0202-new\n", out)

	require.NotNil(t, ws.created)
	assert.Equal(t, "reporting", ws.created.ClusterName)
	assert.Equal(t, int32(30), ws.created.AutoterminationMinutes)
	assert.Equal(t, "0101-120000-pool-1", ws.created.InstancePoolID)
	assert.Nil(t, ws.created.NumWorkers)
	require.NotNil(t, ws.created.AutoScale)
	assert.Equal(t, databricks.AutoScale{MinWorkers: 1, MaxWorkers: 4}, *ws.created.AutoScale)
	assert.Equal(t, "serverless", ws.created.SparkConf["spark.databricks.cluster.profile"])
	assert.Equal(t, "0202-new", ws.deleted)
}

func TestUpdateClusterWithoutStop(t *testing.T) {
	ws := newWorkspace(t)

	out, err := execute(t,
		"--name=etl",
		"--spark-version=7.3.x-scala2.12",
		"--pool-or-node-type=Standard_DS3_v2",
		"--num-workers=2",
		"--stop=false",
		"--output-variable=etlClusterId",
	)
	require.NoError(t, err)
	assert.Equal(t, "##vso[task.setvariable variable=etlClusterId;issecret=false]0101-existing\n", out)

	assert.Nil(t, ws.created)
	require.NotNil(t, ws.edited)
	assert.Equal(t, "0101-existing", ws.edited.ClusterID)
	assert.Equal(t, "Standard_DS3_v2", ws.edited.NodeTypeID)
	assert.Empty(t, ws.edited.InstancePoolID)
	require.NotNil(t, ws.edited.NumWorkers)
	assert.Equal(t, int32(2), *ws.edited.NumWorkers)
	assert.Empty(t, ws.deleted)
	assert.NotContains(t, ws.paths, "/api/2.0/clusters/delete")
}

func TestCreateClusterValidation(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "missing name", args: []string{"--spark-version=7.3.x-scala2.12", "--pool-or-node-type=pool-1"}},
		{name: "missing spark version", args: []string{"--name=etl", "--pool-or-node-type=pool-1"}},
		{name: "missing pool or node type", args: []string{"--name=etl", "--spark-version=7.3.x-scala2.12"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ws := newWorkspace(t)
			_, err := execute(t, tc.args...)
			assert.Error(t, err)
			assert.Empty(t, ws.paths)
		})
	}
}
