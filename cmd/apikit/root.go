/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dirpx.dev/apikit/config"
	"dirpx.dev/apikit/logging"
	"dirpx.dev/apikit/metrics"
)

// version is set at build time.
var version = "dev"

// app is the state shared by subcommands once the root has loaded the
// configuration.
type app struct {
	configPath  string
	logLevel    string
	showMetrics bool

	cfg     *config.File
	log     *zap.Logger
	promReg *prometheus.Registry
	metrics *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "apikit",
		Short: "Call HTTP services declared in an apikit configuration",
		Long: `apikit reads service declarations from a YAML file (and APIKIT_*
environment overrides) and calls them with the same transport settings a
program embedding apikit would use.

Examples:
  # List declared services
  apikit --config services.yaml services

  # Fetch a resource
  apikit --config services.yaml call users users/42`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "print collected metrics to stderr on exit")

	cmd.AddCommand(newServicesCmd(a))
	cmd.AddCommand(newCallCmd(a))
	return cmd
}

// setup loads configuration and builds the logger and metrics.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return errors.Annotate(err, "load configuration")
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return errors.Annotate(err, "create logger")
	}

	a.cfg = cfg
	a.log = log.With(zap.String("component", "cli"))
	a.promReg = prometheus.NewRegistry()
	a.metrics = metrics.New(a.promReg)
	return nil
}
