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

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/dbxops/dbxctl/pkg/common"
)

// Names of the settings shared by every command. They double as flag names
// and config file keys.
const (
	KeyConfig          = "config"
	KeyWorkspaceURL    = "workspace-url"
	KeyToken           = "token"
	KeyQPS             = "qps"
	KeyBurst           = "burst"
	KeyLogLevel        = "log-level"
	KeyDevelopment     = "development"
	KeyMetricsTextfile = "metrics-textfile"
	KeyMetricsPrefix   = "metrics-prefix"
)

// Config holds the settings shared by every command.
type Config struct {
	WorkspaceURL    string
	Token           string
	QPS             float64
	Burst           int
	LogLevel        zapcore.Level
	Development     bool
	MetricsTextfile string
	MetricsPrefix   string
}

// BindFlags registers the shared flags on flags and binds them, together with
// their environment variables, to v.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String(KeyConfig, "", "Path of a YAML, JSON or TOML file holding the settings below.")
	flags.String(KeyWorkspaceURL, "", "URL of the Databricks workspace, e.g. https://adb-1234567890123456.7.azuredatabricks.net.")
	flags.String(KeyToken, "", "Personal access token or AAD token used to call the Databricks API.")
	flags.Float64(KeyQPS, common.DefaultQPS, "Maximum number of API requests per second. Zero disables client side rate limiting.")
	flags.Int(KeyBurst, common.DefaultBurst, "Maximum burst of API requests.")
	flags.String(KeyLogLevel, "info", "Log level, one of debug, info, warn or error.")
	flags.Bool(KeyDevelopment, false, "Log in human readable console format instead of JSON.")
	flags.String(KeyMetricsTextfile, "", "Write metrics in Prometheus text format to this file when the command finishes.")
	flags.String(KeyMetricsPrefix, common.DefaultMetricsPrefix, "Prefix of the metric names.")

	for _, key := range []string{KeyConfig, KeyWorkspaceURL, KeyToken, KeyQPS, KeyBurst, KeyLogLevel, KeyDevelopment, KeyMetricsTextfile, KeyMetricsPrefix} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	v.SetEnvPrefix(common.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyWorkspaceURL, envName(KeyWorkspaceURL), common.EnvWorkspaceURL)
	_ = v.BindEnv(KeyToken, envName(KeyToken), common.EnvToken)
}

// LoadConfig reads the config file, if one is set, and returns the merged settings.
func LoadConfig(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %v", path, err)
		}
	}

	config := Config{
		WorkspaceURL:    v.GetString(KeyWorkspaceURL),
		Token:           v.GetString(KeyToken),
		QPS:             v.GetFloat64(KeyQPS),
		Burst:           v.GetInt(KeyBurst),
		Development:     v.GetBool(KeyDevelopment),
		MetricsTextfile: v.GetString(KeyMetricsTextfile),
		MetricsPrefix:   v.GetString(KeyMetricsPrefix),
	}

	level, err := zapcore.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level: %v", err)
	}
	config.LogLevel = level

	if config.QPS < 0 {
		return Config{}, fmt.Errorf("qps must not be negative, got %v", config.QPS)
	}
	if config.Burst < 0 {
		return Config{}, fmt.Errorf("burst must not be negative, got %d", config.Burst)
	}
	if config.MetricsPrefix == "" && !v.IsSet(KeyMetricsPrefix) {
		config.MetricsPrefix = common.DefaultMetricsPrefix
	}

	return config, nil
}

func envName(key string) string {
	return common.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
