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

package rules

import (
	"context"
	"strings"

	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

const (
	acceleratorStep = "accelerator"
	phpConfigStep   = "php-config"
)

// accelerator is an opcode cache extension and the directive that turns it on.
type accelerator struct {
	extension string
	directive string
}

var accelerators = []accelerator{
	{"eaccelerator", "eaccelerator.enable"},
	{"apc", "apc.enabled"},
	{"Zend Optimizer+", "zend_optimizerplus.enable"},
	{"Zend OPcache", "opcache.enable"},
	{"xcache", "xcache.cacher"},
	{"wincache", "wincache.ocenabled"},
}

func (a *audit) checkAccelerator(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}
	active := false
	for _, acc := range accelerators {
		if !a.source.ExtensionLoaded(acc.extension) {
			continue
		}
		if raw, _ := a.source.Directive(acc.directive); precheck.DirectiveBool(raw) {
			active = true
			break
		}
	}
	reg.Recommend(active, "a PHP accelerator should be installed",
		"Install and/or enable a <strong>PHP accelerator</strong> (highly recommended).")
	return nil
}

// recommendedFeature is a function or class the application works better with.
type recommendedFeature struct {
	name     string
	class    bool
	message  string
	helpHTML string
	// posixOnly features are skipped on Windows.
	posixOnly bool
}

var recommendedFeatures = []recommendedFeature{
	{name: "mb_strlen", message: "mb_strlen() should be available",
		helpHTML: "Install and enable the <strong>mbstring</strong> extension."},
	{name: "utf8_decode", message: "utf8_decode() should be available",
		helpHTML: "Install and enable the <strong>XML</strong> extension."},
	{name: "filter_var", message: "filter_var() should be available",
		helpHTML: "Install and enable the <strong>filter</strong> extension."},
	{name: "DOMDocument", class: true, message: "PHP-DOM and PHP-XML modules should be installed",
		helpHTML: "Install and enable the <strong>PHP-DOM</strong> and the <strong>PHP-XML</strong> modules."},
	{name: "posix_isatty", message: "posix_isatty() should be available", posixOnly: true,
		helpHTML: "Install and enable the <strong>php_posix</strong> extension (used to colorize the CLI output)."},
}

func (a *audit) checkPhpConfig(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}

	if a.source.ExtensionLoaded("xdebug") {
		reg.CheckPhpConfig(a.source, "xdebug.show_exception_trace", precheck.Equals(false),
			precheck.SeverityRecommendation, precheck.ApproveAbsence())
		reg.CheckPhpConfig(a.source, "xdebug.scream", precheck.Equals(false),
			precheck.SeverityRecommendation, precheck.ApproveAbsence())
		reg.CheckPhpConfig(a.source, "xdebug.max_nesting_level",
			precheck.Predicate(func(raw string) bool {
				return phpInt(raw) > 100
			}),
			precheck.SeverityRecommendation,
			precheck.ApproveAbsence(),
			precheck.WithTestMessage("xdebug.max_nesting_level should be above 100 in php.ini"),
			precheck.WithHelpHTML("Set \"<strong>xdebug.max_nesting_level</strong>\" to e.g. \"<strong>250</strong>\" in php.ini<a href=\"#phpini\">*</a> "+
				"to stop Xdebug's infinite recursion protection erroneously throwing a fatal error in your project."),
		)
	}

	reg.CheckPhpConfig(a.source, "short_open_tag", precheck.Equals(false), precheck.SeverityRecommendation)
	reg.CheckPhpConfig(a.source, "session.auto_start", precheck.Equals(false), precheck.SeverityRecommendation)

	windows := strings.HasPrefix(strings.ToUpper(a.source.OS()), "WIN")
	for _, f := range recommendedFeatures {
		if f.posixOnly && windows {
			continue
		}
		present := a.source.FunctionExists(f.name)
		if f.class {
			present = a.source.ClassExists(f.name)
		}
		reg.Recommend(present, f.message, f.helpHTML)
	}
	return nil
}

// phpInt reads the leading integer of an ini value the way PHP casts it: an
// optional sign followed by digits, 0 when there are none.
func phpInt(raw string) int64 {
	s := strings.TrimSpace(raw)
	sign := int64(1)
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > (1<<62)/10 {
			break
		}
		n = n*10 + int64(s[i]-'0')
	}
	return sign * n
}
