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

package submit

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/utils/ptr"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/internal/cli"
	"github.com/dbxops/dbxctl/internal/provision"
	"github.com/dbxops/dbxctl/pkg/common"
	"github.com/dbxops/dbxctl/pkg/pipeline"
	"github.com/dbxops/dbxctl/pkg/util"
)

var (
	FromFile          string
	RunName           string
	NotebookPath      string
	Parameters        string
	PoolOrNodeType    string
	NumWorkers        int32
	SparkVersion      string
	ExistingClusterID string
	TimeoutSeconds    int32
	IdempotencyToken  string
	OutputVariable    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a one-time notebook run",
		Long: `Submit a one-time notebook run on a new cluster or an existing one.
The run id is published as a pipeline variable. Flags override the values of --from-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildRequest(cmd)
			if err != nil {
				return err
			}

			rt, err := cli.RuntimeFromCommand(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			c, err := rt.NewClient("", "")
			if err != nil {
				return fmt.Errorf("failed to create Databricks client: %v", err)
			}

			runID, err := provision.New(c, rt.Logger.WithName("provision")).SubmitNotebookRun(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run_id: %d\n", runID)
			return pipeline.SetVariable(cmd.OutOrStdout(), OutputVariable, fmt.Sprint(runID), false)
		},
	}

	cmd.Flags().StringVarP(&FromFile, "from-file", "f", "", "YAML or JSON file holding a jobs/runs/submit request")
	cmd.Flags().StringVar(&RunName, "run-name", "", "Name of the run")
	cmd.Flags().StringVar(&NotebookPath, "notebook-path", "", "Workspace path of the notebook to run")
	cmd.Flags().StringVar(&Parameters, "parameters", "", "Notebook parameters as a JSON object, e.g. {\"date\":\"2020-06-01\"}")
	cmd.Flags().StringVar(&PoolOrNodeType, "pool-or-node-type", "", "Instance pool id or node type id of the new cluster")
	cmd.Flags().Int32Var(&NumWorkers, "num-workers", 1, "Number of workers of the new cluster")
	cmd.Flags().StringVar(&SparkVersion, "spark-version", "", "Databricks runtime version of the new cluster, e.g. 7.3.x-scala2.12")
	cmd.Flags().StringVar(&ExistingClusterID, "existing-cluster-id", "", "Run on this cluster instead of a new one")
	cmd.Flags().Int32Var(&TimeoutSeconds, "timeout-seconds", 0, "Timeout of the run in seconds, zero means no timeout")
	cmd.Flags().StringVar(&IdempotencyToken, "idempotency-token", "", "Token that guarantees the run is submitted at most once, generated when empty")
	cmd.Flags().StringVar(&OutputVariable, "output-variable", common.VariableNotebookRunID, "Name of the pipeline variable receiving the run id")

	return cmd
}

func buildRequest(cmd *cobra.Command) (*databricks.SubmitRunRequest, error) {
	req := &databricks.SubmitRunRequest{}
	if FromFile != "" {
		if err := util.LoadFromFile(FromFile, req); err != nil {
			return nil, fmt.Errorf("failed to read run request from file %s: %v", FromFile, err)
		}
	}

	flags := cmd.Flags()
	newClusterFlags := flags.Changed("pool-or-node-type") || flags.Changed("spark-version") || flags.Changed("num-workers")
	if newClusterFlags && flags.Changed("existing-cluster-id") {
		return nil, fmt.Errorf("--existing-cluster-id cannot be combined with new cluster flags")
	}

	if flags.Changed("run-name") {
		req.RunName = RunName
	}
	if flags.Changed("notebook-path") || flags.Changed("parameters") {
		if req.NotebookTask == nil {
			req.NotebookTask = &databricks.NotebookTask{}
		}
	}
	if flags.Changed("notebook-path") {
		req.NotebookTask.NotebookPath = NotebookPath
	}
	if flags.Changed("parameters") {
		parameters, err := util.ParseStringMap(Parameters)
		if err != nil {
			return nil, fmt.Errorf("invalid notebook parameters: %v", err)
		}
		req.NotebookTask.BaseParameters = parameters
	}
	if flags.Changed("existing-cluster-id") {
		req.ExistingClusterID = ExistingClusterID
		req.NewCluster = nil
	}
	if newClusterFlags {
		if req.NewCluster == nil {
			req.NewCluster = &databricks.ClusterSpec{NumWorkers: ptr.To(NumWorkers)}
		}
		req.ExistingClusterID = ""
	}
	if req.NewCluster != nil {
		if flags.Changed("pool-or-node-type") {
			req.NewCluster.InstancePoolID = PoolOrNodeType
			req.NewCluster.NodeTypeID = ""
		}
		if flags.Changed("spark-version") {
			req.NewCluster.SparkVersion = SparkVersion
		}
		if flags.Changed("num-workers") {
			req.NewCluster.NumWorkers = ptr.To(NumWorkers)
			req.NewCluster.AutoScale = nil
		}
	}
	if flags.Changed("timeout-seconds") {
		req.TimeoutSeconds = TimeoutSeconds
	}
	if flags.Changed("idempotency-token") {
		req.IdempotencyToken = IdempotencyToken
	}

	return req, nil
}
