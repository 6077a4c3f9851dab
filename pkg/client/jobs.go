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
	"net/url"
	"strconv"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/pkg/common"
)

// GetRunOutput fetches the output of a job run. The raw response body is
// returned alongside the decoded value, and also when the API rejects the
// request.
func (c *Client) GetRunOutput(ctx context.Context, runID string) (*databricks.RunOutput, []byte, error) {
	output := &databricks.RunOutput{}
	raw, err := c.get(ctx, common.PathJobsRunsGetOutput, url.Values{"run_id": []string{runID}}, output)
	if err != nil {
		return nil, raw, err
	}
	return output, raw, nil
}

// GetRun fetches the metadata of a job run.
func (c *Client) GetRun(ctx context.Context, runID int64) (*databricks.Run, error) {
	run := &databricks.Run{}
	query := url.Values{"run_id": []string{strconv.FormatInt(runID, 10)}}
	if _, err := c.get(ctx, common.PathJobsRunsGet, query, run); err != nil {
		return nil, err
	}
	return run, nil
}

// SubmitRun submits a one-time run and returns its id.
func (c *Client) SubmitRun(ctx context.Context, req *databricks.SubmitRunRequest) (int64, error) {
	resp := &databricks.SubmitRunResponse{}
	if _, err := c.post(ctx, common.PathJobsRunsSubmit, req, resp); err != nil {
		return 0, err
	}
	return resp.RunID, nil
}

// CancelRun cancels a run. The run may still be running when this returns.
func (c *Client) CancelRun(ctx context.Context, runID int64) error {
	_, err := c.post(ctx, common.PathJobsRunsCancel, &databricks.CancelRunRequest{RunID: runID}, nil)
	return err
}
