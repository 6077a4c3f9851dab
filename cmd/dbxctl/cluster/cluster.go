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
	FromFile               string
	Name                   string
	Type                   string
	AutoterminationMinutes int32
	SparkVersion           string
	PoolOrNodeType         string
	NumWorkers             int32
	MaxWorkers             int32
	Stop                   bool
	OutputVariable         string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage clusters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCreateCommand())
	return cmd
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create or update a cluster",
		Long: `Create a cluster, or update the cluster with the same name.
The cluster is terminated right after creation unless --stop=false is given.
The cluster id is published as a pipeline variable. Flags override the values of --from-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := buildSpec(cmd)
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

			clusterID, _, err := provision.New(c, rt.Logger.WithName("provision")).EnsureCluster(cmd.Context(), spec, Type, Stop)
			if err != nil {
				return err
			}

			return pipeline.SetVariable(cmd.OutOrStdout(), OutputVariable, clusterID, false)
		},
	}

	cmd.Flags().StringVarP(&FromFile, "from-file", "f", "", "YAML or JSON file holding a cluster specification")
	cmd.Flags().StringVar(&Name, "name", "", "Name of the cluster")
	cmd.Flags().StringVar(&Type, "type", "", "Cluster type, \"credential passthrough\" enables Azure AD credential passthrough")
	cmd.Flags().Int32Var(&AutoterminationMinutes, "autotermination-minutes", 60, "Minutes of inactivity after which the cluster terminates")
	cmd.Flags().StringVar(&SparkVersion, "spark-version", "", "Databricks runtime version, e.g. 7.3.x-scala2.12")
	cmd.Flags().StringVar(&PoolOrNodeType, "pool-or-node-type", "", "Instance pool id or node type id")
	cmd.Flags().Int32Var(&NumWorkers, "num-workers", 1, "Number of workers, the minimum when autoscaling")
	cmd.Flags().Int32Var(&MaxWorkers, "max-workers", 0, "Maximum number of workers, enables autoscaling when larger than --num-workers")
	cmd.Flags().BoolVar(&Stop, "stop", true, "Terminate the cluster right after creating or updating it")
	cmd.Flags().StringVar(&OutputVariable, "output-variable", common.VariableClusterID, "Name of the pipeline variable receiving the cluster id")

	return cmd
}

func buildSpec(cmd *cobra.Command) (*databricks.ClusterSpec, error) {
	spec := &databricks.ClusterSpec{}
	flags := cmd.Flags()
	if FromFile != "" {
		if err := util.LoadFromFile(FromFile, spec); err != nil {
			return nil, fmt.Errorf("failed to read cluster specification from file %s: %v", FromFile, err)
		}
	}

	if flags.Changed("name") {
		spec.ClusterName = Name
	}
	if flags.Changed("spark-version") {
		spec.SparkVersion = SparkVersion
	}
	if flags.Changed("pool-or-node-type") {
		spec.InstancePoolID = PoolOrNodeType
		spec.NodeTypeID = ""
	}
	if FromFile == "" || flags.Changed("autotermination-minutes") {
		spec.AutoterminationMinutes = AutoterminationMinutes
	}
	if FromFile == "" || flags.Changed("num-workers") || flags.Changed("max-workers") {
		if MaxWorkers > NumWorkers {
			spec.AutoScale = &databricks.AutoScale{MinWorkers: NumWorkers, MaxWorkers: MaxWorkers}
			spec.NumWorkers = nil
		} else {
			spec.NumWorkers = ptr.To(NumWorkers)
			spec.AutoScale = nil
		}
	}

	if spec.ClusterName == "" {
		return nil, fmt.Errorf("must specify the name of the cluster")
	}
	if spec.SparkVersion == "" {
		return nil, fmt.Errorf("must specify the Spark version of the cluster")
	}
	if spec.InstancePoolID == "" && spec.NodeTypeID == "" {
		return nil, fmt.Errorf("must specify an instance pool or node type")
	}
	return spec, nil
}
