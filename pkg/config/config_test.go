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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.Database.Timeout())
	assert.Equal(t, "APP_ENV", cfg.Environment.ModeVar)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "precheck.toml", `
[requirements]
min_php_version = "8.1.0"
min_memory_limit = "256M"

[database]
connect_timeout = "750ms"

[report]
format = "markdown"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8.1.0", cfg.Requirements.MinPHPVersion)
	assert.Equal(t, "256M", cfg.Requirements.MinMemoryLimit)
	assert.Equal(t, "10.2.7", cfg.Requirements.MinMariaDBVersion, "unset keys keep defaults")
	assert.Equal(t, 750*time.Millisecond, cfg.Database.Timeout())
	assert.Equal(t, "markdown", cfg.Report.Format)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "precheck.yml", `
environment:
  mode_var: SYMFONY_ENV
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SYMFONY_ENV", cfg.Environment.ModeVar)
	assert.Equal(t, "prod", cfg.Environment.DefaultMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"bad semver", "c.toml", "[requirements]\nmin_php_version = \"seven\"\n", "MinPHPVersion"},
		{"bad memory", "c.toml", "[requirements]\nmin_memory_limit = \"lots\"\n", "MinMemoryLimit"},
		{"bad duration", "c.yaml", "database:\n  connect_timeout: soon\n", "ConnectTimeout"},
		{"bad format", "c.yaml", "report:\n  format: pdf\n", "Report.Format"},
		{"bad level", "c.yaml", "log:\n  level: loud\n", "Log.Level"},
		{"empty env var", "c.yaml", "environment:\n  mode_var: \"\"\n", "ModeVar"},
		{"syntax", "c.toml", "[requirements\n", "failed to parse"},
		{"extension", "c.ini", "x=1", "unsupported config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestUnboundedMemoryThresholdIsValid(t *testing.T) {
	cfg := Default()
	cfg.Requirements.MinMemoryLimit = "-1"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ShippedExamples(t *testing.T) {
	for _, name := range []string{"precheck.toml", "precheck.yaml"} {
		cfg, err := Load(filepath.Join("..", "..", "examples", name))
		require.NoError(t, err, name)
		assert.Equal(t, "8.1.0", cfg.Requirements.MinPHPVersion, name)
	}
}
