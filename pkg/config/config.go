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

// Package config holds the tool configuration: thresholds, environment
// variable names, database probe and output settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/webapp-tools/env-precheck/pkg/bytesize"
)

// Config is the root configuration.
type Config struct {
	Requirements Requirements `toml:"requirements" yaml:"requirements"`
	Environment  Environment  `toml:"environment" yaml:"environment"`
	Database     Database     `toml:"database" yaml:"database"`
	Log          Log          `toml:"log" yaml:"log"`
	Report       Report       `toml:"report" yaml:"report"`
}

// Requirements are the thresholds the audit checks against.
type Requirements struct {
	MinPHPVersion     string `toml:"min_php_version" yaml:"min_php_version" validate:"required,semver"`
	ModernPHPVersion  string `toml:"modern_php_version" yaml:"modern_php_version" validate:"required,semver"`
	MinMySQLVersion   string `toml:"min_mysql_version" yaml:"min_mysql_version" validate:"required,semver"`
	MinMariaDBVersion string `toml:"min_mariadb_version" yaml:"min_mariadb_version" validate:"required,semver"`
	MinICUVersion     string `toml:"min_icu_version" yaml:"min_icu_version" validate:"required,semver"`
	MinMemoryLimit    string `toml:"min_memory_limit" yaml:"min_memory_limit" validate:"required,bytesize"`
}

// Environment names the variables the audit reads.
type Environment struct {
	ModeVar        string `toml:"mode_var" yaml:"mode_var" validate:"required"`
	DefaultMode    string `toml:"default_mode" yaml:"default_mode" validate:"required"`
	DatabaseURLVar string `toml:"database_url_var" yaml:"database_url_var" validate:"required"`
}

// Database configures the connection probe.
type Database struct {
	ConnectTimeout string `toml:"connect_timeout" yaml:"connect_timeout" validate:"omitempty,duration"`
}

// Timeout returns the parsed connect timeout, or zero when unset.
func (d Database) Timeout() time.Duration {
	timeout, err := time.ParseDuration(d.ConnectTimeout)
	if err != nil {
		return 0
	}
	return timeout
}

// Log configures logging.
type Log struct {
	Level  string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" validate:"oneof=text json"`
}

// Report configures rendering.
type Report struct {
	Format string `toml:"format" yaml:"format" validate:"oneof=text markdown html json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Requirements: Requirements{
			MinPHPVersion:     "7.2.5",
			ModernPHPVersion:  "7.0.0",
			MinMySQLVersion:   "5.7.0",
			MinMariaDBVersion: "10.2.7",
			MinICUVersion:     "4.0",
			MinMemoryLimit:    "128M",
		},
		Environment: Environment{
			ModeVar:        "APP_ENV",
			DefaultMode:    "prod",
			DatabaseURLVar: "DATABASE_URL",
		},
		Database: Database{ConnectTimeout: "5s"},
		Log:      Log{Level: "info", Format: "text"},
		Report:   Report{Format: "text"},
	}
}

// Load reads a TOML or YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
		return semver.IsValid(canonicalSemver(fl.Field().String()))
	})
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		size := bytesize.Parse(fl.Field().String())
		return size.IsUnbounded() || size.Bytes() > 0
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
}

// canonicalSemver adds the "v" prefix semver expects.
func canonicalSemver(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "v") {
		return raw
	}
	return "v" + raw
}

// Validate checks the configuration and reports every invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
