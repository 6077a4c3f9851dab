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

// Package cli holds what the dbxctl commands share: settings, logging,
// metrics and the API client.
package cli

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dbxops/dbxctl/internal/metrics"
	"github.com/dbxops/dbxctl/pkg/client"
)

// Runtime is created once per command invocation.
type Runtime struct {
	Config  Config
	Logger  logr.Logger
	Metrics *metrics.Recorder

	zapLogger *zap.Logger
}

// NewRuntime loads the settings from v and sets up logging to logOutput.
func NewRuntime(v *viper.Viper, logOutput io.Writer) (*Runtime, error) {
	config, err := LoadConfig(v)
	if err != nil {
		return nil, err
	}

	logger, zapLogger := NewLogger(logOutput, config.LogLevel, config.Development)
	return &Runtime{
		Config:    config,
		Logger:    logger,
		Metrics:   metrics.NewRecorder(config.MetricsPrefix, logger.WithName("metrics")),
		zapLogger: zapLogger,
	}, nil
}

// RuntimeFromCommand creates the runtime of cmd from the global settings.
// Logs go to the command's error output.
func RuntimeFromCommand(cmd *cobra.Command) (*Runtime, error) {
	return NewRuntime(viper.GetViper(), cmd.ErrOrStderr())
}

// NewClient creates an API client. Empty arguments fall back to the
// configured workspace URL and token.
func (r *Runtime) NewClient(workspaceURL, token string) (*client.Client, error) {
	if workspaceURL == "" {
		workspaceURL = r.Config.WorkspaceURL
	}
	if token == "" {
		token = r.Config.Token
	}

	return client.New(workspaceURL, token, client.Options{
		QPS:     r.Config.QPS,
		Burst:   r.Config.Burst,
		Logger:  r.Logger.WithName("client"),
		Metrics: r.Metrics.APIMetrics(),
	})
}

// Close writes the metrics textfile, if configured, and flushes the logger.
func (r *Runtime) Close() error {
	defer func() {
		// Syncing stderr fails on some platforms.
		_ = r.zapLogger.Sync()
	}()

	if r.Config.MetricsTextfile == "" {
		return nil
	}
	if err := r.Metrics.WriteTextfile(r.Config.MetricsTextfile); err != nil {
		r.Logger.Error(err, "Failed to write metrics", "path", r.Config.MetricsTextfile)
		return err
	}
	r.Logger.V(1).Info("Wrote metrics", "path", r.Config.MetricsTextfile)
	return nil
}
