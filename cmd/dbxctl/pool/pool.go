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

package pool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/internal/cli"
	"github.com/dbxops/dbxctl/internal/provision"
	"github.com/dbxops/dbxctl/pkg/common"
	"github.com/dbxops/dbxctl/pkg/pipeline"
	"github.com/dbxops/dbxctl/pkg/util"
)

var (
	FromFile                           string
	Name                               string
	NodeType                           string
	MinIdle                            int32
	MaxCapacity                        int32
	IdleInstanceAutoterminationMinutes int32
	SparkVersion                       string
	Availability                       string
	OutputVariable                     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage instance pools",
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
		Short: "Create or update an instance pool",
		Long: `Create an instance pool, or update the pool with the same name.
Spot pools never get evicted on price, any availability other than SPOT_AZURE falls back to ON_DEMAND_AZURE.
The pool id is published as a pipeline variable. Flags override the values of --from-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := buildPool(cmd)
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

			poolID, _, err := provision.New(c, rt.Logger.WithName("provision")).EnsureInstancePool(cmd.Context(), pool)
			if err != nil {
				return err
			}

			return pipeline.SetVariable(cmd.OutOrStdout(), OutputVariable, poolID, false)
		},
	}

	cmd.Flags().StringVarP(&FromFile, "from-file", "f", "", "YAML or JSON file holding an instance pool specification")
	cmd.Flags().StringVar(&Name, "name", "", "Name of the instance pool")
	cmd.Flags().StringVar(&NodeType, "node-type", "", "Node type id of the pool instances, e.g. Standard_DS3_v2")
	cmd.Flags().Int32Var(&MinIdle, "min-idle", 0, "Minimum number of idle instances kept in the pool")
	cmd.Flags().Int32Var(&MaxCapacity, "max-capacity", 0, "Maximum number of instances in the pool, zero means unlimited")
	cmd.Flags().Int32Var(&IdleInstanceAutoterminationMinutes, "idle-autotermination-minutes", 60, "Minutes after which idle instances above --min-idle are released")
	cmd.Flags().StringVar(&SparkVersion, "spark-version", "", "Databricks runtime version preloaded on the pool instances")
	cmd.Flags().StringVar(&Availability, "availability", string(databricks.AzureAvailabilityOnDemand), "Azure availability, SPOT_AZURE or ON_DEMAND_AZURE")
	cmd.Flags().StringVar(&OutputVariable, "output-variable", common.VariablePoolID, "Name of the pipeline variable receiving the pool id")

	return cmd
}

func buildPool(cmd *cobra.Command) (*databricks.InstancePool, error) {
	pool := &databricks.InstancePool{}
	flags := cmd.Flags()
	if FromFile != "" {
		if err := util.LoadFromFile(FromFile, pool); err != nil {
			return nil, fmt.Errorf("failed to read instance pool specification from file %s: %v", FromFile, err)
		}
	}

	if flags.Changed("name") {
		pool.InstancePoolName = Name
	}
	if flags.Changed("node-type") {
		pool.NodeTypeID = NodeType
	}
	if FromFile == "" || flags.Changed("min-idle") {
		pool.MinIdleInstances = MinIdle
	}
	if FromFile == "" || flags.Changed("max-capacity") {
		pool.MaxCapacity = MaxCapacity
	}
	if FromFile == "" || flags.Changed("idle-autotermination-minutes") {
		pool.IdleInstanceAutoterminationMinutes = IdleInstanceAutoterminationMinutes
	}
	if flags.Changed("spark-version") {
		pool.PreloadedSparkVersions = []string{SparkVersion}
	}
	if FromFile == "" || flags.Changed("availability") {
		if pool.AzureAttributes == nil {
			pool.AzureAttributes = &databricks.AzureAttributes{}
		}
		pool.AzureAttributes.Availability = databricks.AzureAvailability(Availability)
	}

	if pool.InstancePoolName == "" {
		return nil, fmt.Errorf("must specify the name of the instance pool")
	}
	if pool.NodeTypeID == "" {
		return nil, fmt.Errorf("must specify the node type of the instance pool")
	}
	return pool, nil
}
