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

package secretscope

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbxops/dbxctl/internal/cli"
	"github.com/dbxops/dbxctl/internal/provision"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret-scope",
		Short: "Manage secret scopes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCreateCommand())
	return cmd
}

func newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a secret scope",
		Long:  "Create a Databricks backed secret scope. Prints CREATED_SUCCESSFULLY, or RESOURCE_ALREADY_EXISTS when the scope exists.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := cli.RuntimeFromCommand(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			c, err := rt.NewClient("", "")
			if err != nil {
				return fmt.Errorf("failed to create Databricks client: %v", err)
			}

			result, err := provision.New(c, rt.Logger.WithName("provision")).EnsureSecretScope(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
