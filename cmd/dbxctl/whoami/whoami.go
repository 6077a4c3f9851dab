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

package whoami

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbxops/dbxctl/internal/cli"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the user the access token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := cli.RuntimeFromCommand(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			c, err := rt.NewClient("", "")
			if err != nil {
				return fmt.Errorf("failed to create Databricks client: %v", err)
			}

			user, err := c.CurrentUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get current user: %v", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), user.UserName)
			return nil
		},
	}
}
