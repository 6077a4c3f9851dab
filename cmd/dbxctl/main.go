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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dbxops/dbxctl/cmd/dbxctl/cancel"
	"github.com/dbxops/dbxctl/cmd/dbxctl/cluster"
	"github.com/dbxops/dbxctl/cmd/dbxctl/get"
	"github.com/dbxops/dbxctl/cmd/dbxctl/pool"
	"github.com/dbxops/dbxctl/cmd/dbxctl/secretscope"
	"github.com/dbxops/dbxctl/cmd/dbxctl/submit"
	"github.com/dbxops/dbxctl/cmd/dbxctl/version"
	"github.com/dbxops/dbxctl/cmd/dbxctl/wait"
	"github.com/dbxops/dbxctl/cmd/dbxctl/whoami"
	"github.com/dbxops/dbxctl/internal/cli"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbxctl",
		Short: "dbxctl is the command-line tool for automating Databricks workspaces from CI pipelines",
		Long: `dbxctl is the command-line tool for automating Databricks workspaces from CI pipelines.
It creates instance pools, clusters and secret scopes, submits notebook runs and waits for them to complete.
Ids needed by later pipeline steps are published as Azure Pipelines variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindFlags(cmd.PersistentFlags(), viper.GetViper())

	cmd.AddCommand(wait.NewCommand())
	cmd.AddCommand(get.NewCommand())
	cmd.AddCommand(cancel.NewCommand())
	cmd.AddCommand(submit.NewCommand())
	cmd.AddCommand(cluster.NewCommand())
	cmd.AddCommand(pool.NewCommand())
	cmd.AddCommand(secretscope.NewCommand())
	cmd.AddCommand(whoami.NewCommand())
	cmd.AddCommand(version.NewCommand())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
