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

package runtime

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

//go:embed facts.php
var factsScript []byte

// PHPCollector collects facts by running a PHP interpreter.
type PHPCollector struct {
	binary   string
	autoload string
	logger   *slog.Logger
}

// PHPCollectorOption configures a PHPCollector.
type PHPCollectorOption func(*PHPCollector)

// WithAutoload points the interpreter at the project autoloader so bundled
// library facts (ICU data version) can be read.
func WithAutoload(path string) PHPCollectorOption {
	return func(c *PHPCollector) { c.autoload = path }
}

// WithCollectorLogger sets the logger.
func WithCollectorLogger(logger *slog.Logger) PHPCollectorOption {
	return func(c *PHPCollector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewPHPCollector creates a collector running binary ("php" when empty).
func NewPHPCollector(binary string, opts ...PHPCollectorOption) *PHPCollector {
	if binary == "" {
		binary = "php"
	}
	c := &PHPCollector{
		binary: binary,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs the facts script through the interpreter and decodes its output.
func (c *PHPCollector) Collect(ctx context.Context) (*Facts, error) {
	args := []string{"--"}
	if c.autoload != "" {
		args = append(args, c.autoload)
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdin = bytes.NewReader(factsScript)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("collecting runtime facts", "binary", c.binary, "autoload", c.autoload)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("failed to run %s: %w: %s", c.binary, err, msg)
		}
		return nil, fmt.Errorf("failed to run %s: %w", c.binary, err)
	}

	facts := &Facts{}
	if err := json.Unmarshal(stdout.Bytes(), facts); err != nil {
		return nil, fmt.Errorf("failed to decode facts from %s: %w", c.binary, err)
	}
	facts.normalize()
	if facts.PHPVersion == "" {
		return nil, fmt.Errorf("%s did not report a PHP version", c.binary)
	}
	return facts, nil
}
