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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/webapp-tools/env-precheck/pkg/bytesize"
	"github.com/webapp-tools/env-precheck/pkg/config"
	"github.com/webapp-tools/env-precheck/pkg/database"
	"github.com/webapp-tools/env-precheck/pkg/manifest"
	"github.com/webapp-tools/env-precheck/pkg/reporter"
	"github.com/webapp-tools/env-precheck/pkg/rules"
	"github.com/webapp-tools/env-precheck/pkg/runtime"
)

type checkOptions struct {
	projectDir  string
	factsPath   string
	phpBinary   string
	format      string
	output      string
	databaseURL string
	env         string
	noColor     bool
	showPassed  bool
}

func newCheckCmd(global *globalOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the environment and print the requirements report",
		Example: `  precheck check --project-dir /srv/shop
  precheck check --facts prod-facts.yaml --database-url mysql://app:pw@db:3306/shop --format markdown`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.projectDir, "project-dir", ".", "Directory to start project root discovery from")
	cmd.Flags().StringVar(&opts.factsPath, "facts", "", "Read runtime facts from a JSON, YAML or TOML file instead of running PHP")
	cmd.Flags().StringVar(&opts.phpBinary, "php", "php", "PHP interpreter used to collect runtime facts")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Report format (text, markdown, html, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "Database URL (overrides the environment variable)")
	cmd.Flags().StringVar(&opts.env, "env", "", "Execution mode (overrides the environment variable)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.showPassed, "show-passed", false, "Also list satisfied requirements")
	return cmd
}

func runCheck(cmd *cobra.Command, global *globalOptions, opts *checkOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	logger := global.logger(cfg, cmd.ErrOrStderr())

	format := cfg.Report.Format
	if opts.format != "" {
		format = opts.format
	}
	reportFormat, err := reporter.ParseFormat(format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	collector := newCollector(opts.factsPath, opts.phpBinary, opts.projectDir, logger)
	facts, err := collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect runtime facts: %w", err)
	}
	logger.Debug("runtime facts collected", "php_version", facts.Version(), "extensions", len(facts.Extensions))

	builderOpts := rules.Options{
		ProjectDir:  opts.projectDir,
		Env:         firstNonEmpty(opts.env, os.Getenv(cfg.Environment.ModeVar), cfg.Environment.DefaultMode),
		DatabaseURL: firstNonEmpty(opts.databaseURL, os.Getenv(cfg.Environment.DatabaseURLVar)),
		Thresholds:  thresholds(cfg.Requirements),
	}
	probe := database.NewMySQLProbe(
		database.WithTimeout(cfg.Database.Timeout()),
		database.WithLogger(logger),
	)
	report := rules.NewBuilder(facts, probe, builderOpts, rules.WithLogger(logger)).Build(ctx)
	if err := report.Err(); err != nil {
		logger.Warn("audit completed with faults", "error", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	r := reporter.NewReporter(reportFormat,
		reporter.WithColor(!opts.noColor && isTerminal(out)),
		reporter.WithPassed(opts.showPassed),
	)
	if err := r.Write(out, report); err != nil {
		return err
	}

	if !report.FullySatisfied {
		return &exitCodeError{code: exitUnsatisfied}
	}
	return nil
}

// newCollector prefers a facts fixture; otherwise it runs PHP with the
// project autoloader when one is installed.
func newCollector(factsPath, phpBinary, projectDir string, logger *slog.Logger) runtime.Collector {
	if factsPath != "" {
		return runtime.NewFileCollector(factsPath)
	}
	opts := []runtime.PHPCollectorOption{runtime.WithCollectorLogger(logger)}
	root := manifest.FindProjectRoot(projectDir)
	layout, _ := manifest.Read(root)
	autoload := filepath.Join(manifest.Resolve(root, layout.VendorDir), "autoload.php")
	if _, err := os.Stat(autoload); err == nil {
		opts = append(opts, runtime.WithAutoload(autoload))
	}
	return runtime.NewPHPCollector(phpBinary, opts...)
}

func thresholds(req config.Requirements) rules.Thresholds {
	return rules.Thresholds{
		MinPHPVersion:     req.MinPHPVersion,
		ModernPHPVersion:  req.ModernPHPVersion,
		MinMySQLVersion:   req.MinMySQLVersion,
		MinMariaDBVersion: req.MinMariaDBVersion,
		MinICUVersion:     req.MinICUVersion,
		MinMemoryLimit:    bytesize.Parse(req.MinMemoryLimit),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
