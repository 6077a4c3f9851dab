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

package get

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/internal/cli"
	"github.com/dbxops/dbxctl/pkg/util"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <run_id>",
		Short: "Get status of a job run",
		Long:  "Get status of the job run with the given id",
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

			run, err := c.GetRun(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("failed to get run %d: %v", runID, err)
			}

			printStatus(cmd.OutOrStdout(), run)
			return nil
		},
	}
	return cmd
}

func printStatus(out io.Writer, run *databricks.Run) {
	fmt.Fprintln(out, "run state:")
	table := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(table, "RUN ID\tNAME\tSTATE\tRESULT\tSTART TIME\tAGE\tDURATION")
	fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
		run.RunID,
		util.FormatNotAvailable(run.RunName),
		run.State.LifeCycleState,
		util.FormatNotAvailable(string(run.State.ResultState)),
		util.FormatNotAvailable(util.FormatEpochMillis(run.StartTime)),
		util.GetSinceTime(run.StartTime),
		util.FormatDurationMillis(run.SetupDuration+run.ExecutionDuration+run.CleanupDuration),
	)
	_ = table.Flush()

	if run.RunPageURL != "" {
		fmt.Fprintf(out, "\nrun page: %s\n", run.RunPageURL)
	}
	if run.State.StateMessage != "" {
		fmt.Fprintf(out, "\nstate message: %s\n", run.State.StateMessage)
	}
}
