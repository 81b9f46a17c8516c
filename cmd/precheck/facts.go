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
	"os"

	"github.com/spf13/cobra"

	"github.com/webapp-tools/env-precheck/pkg/runtime"
)

type factsOptions struct {
	projectDir string
	factsPath  string
	phpBinary  string
	format     string
	output     string
}

func newFactsCmd(global *globalOptions) *cobra.Command {
	opts := &factsOptions{}
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Print the runtime facts the audit is based on",
		Long: `Print the runtime facts the audit is based on.

The output can be stored and passed back to "precheck check --facts" to audit
an environment the tool cannot run in directly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			logger := global.logger(cfg, cmd.ErrOrStderr())

			facts, err := newCollector(opts.factsPath, opts.phpBinary, opts.projectDir, logger).Collect(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to collect runtime facts: %w", err)
			}
			data, err := runtime.EncodeFacts(facts, opts.format)
			if err != nil {
				return err
			}

			if opts.output != "" {
				if err := os.WriteFile(opts.output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write facts file: %w", err)
				}
				logger.Info("facts written", "path", opts.output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.projectDir, "project-dir", ".", "Project directory, used to locate the autoloader")
	cmd.Flags().StringVar(&opts.factsPath, "facts", "", "Convert an existing facts file instead of running PHP")
	cmd.Flags().StringVar(&opts.phpBinary, "php", "php", "PHP interpreter used to collect runtime facts")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, yaml, toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the facts to a file instead of stdout")
	return cmd
}
