// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/webapp-tools/env-precheck/pkg/config"
	"github.com/webapp-tools/env-precheck/pkg/logging"
)

// exitUnsatisfied is returned when a mandatory requirement failed.
const exitUnsatisfied = 2

// exitCodeError carries a non-zero exit status that is not a tool failure.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(g.configPath)
}

func (g *globalOptions) logger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	if g.verbose {
		level = "debug"
	}
	format := cfg.Log.Format
	if g.logFormat != "" {
		format = g.logFormat
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: w})
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "precheck",
		Short: "Check that a PHP environment meets the application requirements",
		Long: `Check that a PHP environment meets the application requirements.

The check command inspects the PHP runtime, the database server and the project
directories and reports failed mandatory requirements and recommendations. It
exits with status 2 when a mandatory requirement is not satisfied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newFactsCmd(opts))
	return cmd
}

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "precheck: %v\n", err)
		os.Exit(1)
	}
}
