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
	"slices"
	"strings"
)

// ConfigSource exposes the facts of a PHP runtime the audit is run against.
type ConfigSource interface {
	// Version is the interpreter version, e.g. "8.2.12".
	Version() string
	// OS is the operating system family reported by the runtime, e.g. "Linux".
	OS() string
	// ExtensionLoaded reports whether an extension is loaded (case-insensitive).
	ExtensionLoaded(name string) bool
	// FunctionExists reports whether a function is defined (case-insensitive).
	FunctionExists(name string) bool
	// ClassExists reports whether a class is declared (case-insensitive).
	ClassExists(name string) bool
	// Directive returns the raw value of an ini directive and whether it exists.
	Directive(key string) (string, bool)
	// DefaultTimezone is the timezone the runtime uses for date functions.
	DefaultTimezone() string
	// TimezoneIdentifiers lists the timezone identifiers the runtime supports.
	TimezoneIdentifiers() []string
	// ICUVersion is the ICU library version of the intl extension, or "".
	ICUVersion() string
	// ICUDataVersion is the ICU data version bundled with the application, or "".
	ICUDataVersion() string
	// PDODrivers lists the available PDO drivers.
	PDODrivers() []string
}

// Facts is a snapshot of a PHP runtime. It is produced by a Collector and can
// be stored as a JSON, YAML or TOML fixture.
type Facts struct {
	PHPVersion     string            `json:"php_version" yaml:"php_version" toml:"php_version"`
	OSFamily       string            `json:"os_family,omitempty" yaml:"os_family,omitempty" toml:"os_family,omitempty"`
	IniPath        string            `json:"ini_path,omitempty" yaml:"ini_path,omitempty" toml:"ini_path,omitempty"`
	Extensions     []string          `json:"extensions" yaml:"extensions" toml:"extensions"`
	Functions      []string          `json:"functions" yaml:"functions" toml:"functions"`
	Classes        []string          `json:"classes" yaml:"classes" toml:"classes"`
	Directives     map[string]string `json:"directives" yaml:"directives" toml:"directives"`
	Timezone       string            `json:"timezone" yaml:"timezone" toml:"timezone"`
	Timezones      []string          `json:"timezones" yaml:"timezones" toml:"timezones"`
	IntlICUVersion string            `json:"icu_version,omitempty" yaml:"icu_version,omitempty" toml:"icu_version,omitempty"`
	IntlICUData    string            `json:"icu_data_version,omitempty" yaml:"icu_data_version,omitempty" toml:"icu_data_version,omitempty"`
	Drivers        []string          `json:"pdo_drivers" yaml:"pdo_drivers" toml:"pdo_drivers"`
}

var _ ConfigSource = (*Facts)(nil)

// Version implements ConfigSource.
func (f *Facts) Version() string { return f.PHPVersion }

// OS implements ConfigSource.
func (f *Facts) OS() string { return f.OSFamily }

// ExtensionLoaded implements ConfigSource.
func (f *Facts) ExtensionLoaded(name string) bool { return containsFold(f.Extensions, name) }

// FunctionExists implements ConfigSource.
func (f *Facts) FunctionExists(name string) bool { return containsFold(f.Functions, name) }

// ClassExists implements ConfigSource.
func (f *Facts) ClassExists(name string) bool {
	return containsFold(f.Classes, strings.TrimPrefix(name, `\`))
}

// Directive implements ConfigSource.
func (f *Facts) Directive(key string) (string, bool) {
	v, ok := f.Directives[key]
	return v, ok
}

// DefaultTimezone implements ConfigSource.
func (f *Facts) DefaultTimezone() string { return f.Timezone }

// TimezoneIdentifiers implements ConfigSource.
func (f *Facts) TimezoneIdentifiers() []string { return slices.Clone(f.Timezones) }

// ICUVersion implements ConfigSource.
func (f *Facts) ICUVersion() string { return f.IntlICUVersion }

// ICUDataVersion implements ConfigSource.
func (f *Facts) ICUDataVersion() string { return f.IntlICUData }

// PDODrivers implements ConfigSource.
func (f *Facts) PDODrivers() []string { return slices.Clone(f.Drivers) }

func containsFold(list []string, name string) bool {
	for _, item := range list {
		if strings.EqualFold(item, name) {
			return true
		}
	}
	return false
}
