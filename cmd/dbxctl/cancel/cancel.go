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

package cancel

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dbxops/dbxctl/internal/cli"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <run_id>",
		Short: "Cancel a job run",
		Long:  "Cancel the job run with the given id. The run may still be terminating when the command returns.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q: %v", args[0], err)
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

			if err := c.CancelRun(cmd.Context(), runID); err != nil {
				return fmt.Errorf("failed to cancel run %d: %v", runID, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %d cancelled\n", runID)
			return nil
		},
	}
	return cmd
}
