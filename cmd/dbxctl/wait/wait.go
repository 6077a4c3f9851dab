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

package wait

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbxops/dbxctl/internal/cli"
	"github.com/dbxops/dbxctl/internal/waiter"
	"github.com/dbxops/dbxctl/pkg/common"
)

var (
	Timeout      time.Duration
	PollInterval time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait [workspace_url access_token] run_id",
		Short: "Wait for a job run to complete",
		Long: `Wait for a job run to complete and print the notebook output of a successful run.
A run that fails, gets skipped or does not finish in time makes the command fail.
The workspace URL and access token are taken from the arguments when given, otherwise from the global settings.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("accepts 1 or 3 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var workspaceURL, token string
			runID := args[0]
			if len(args) == 3 {
				workspaceURL, token, runID = args[0], args[1], args[2]
			}

			rt, err := cli.RuntimeFromCommand(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			c, err := rt.NewClient(workspaceURL, token)
			if err != nil {
				return fmt.Errorf("failed to create Databricks client: %v", err)
			}

			w, err := waiter.New(c, waiter.Options{
				PollInterval: PollInterval,
				Timeout:      Timeout,
				Output:       cmd.OutOrStdout(),
				Progress:     cmd.OutOrStdout(),
				Logger:       rt.Logger.WithName("waiter"),
				Metrics:      rt.Metrics.RunWaitMetrics(),
			})
			if err != nil {
				return err
			}

			outcome, err := w.Wait(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("failed to wait for run %s: %v", runID, err)
			}
			return outcome.Err()
		},
	}

	cmd.Flags().DurationVar(&Timeout, "timeout", common.DefaultWaitTimeout, "Maximum time to wait for the run to complete.")
	cmd.Flags().DurationVar(&PollInterval, "poll-interval", common.DefaultPollInterval, "Time between two run status queries. Must be smaller than the timeout.")

	return cmd
}
