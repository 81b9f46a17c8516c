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
	"errors"
	"fmt"
	"slices"

	"github.com/webapp-tools/env-precheck/pkg/precheck"
	"github.com/webapp-tools/env-precheck/pkg/version"
)

const (
	runtimeVersionStep = "runtime-version"
	timezoneStep       = "timezone"
	functionsStep      = "functions"
)

var errNoRuntime = errors.New("no runtime config source")

// requiredFunction is a function whose extension the application cannot run without.
type requiredFunction struct {
	name      string
	extension string
}

var requiredFunctions = []requiredFunction{
	{"iconv", "iconv"},
	{"json_encode", "JSON"},
	{"session_start", "session"},
	{"ctype_alpha", "ctype"},
	{"token_get_all", "Tokenizer"},
	{"simplexml_import_dom", "SimpleXML"},
}

func (a *audit) checkRuntimeVersion(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		reg.Require(false, "PHP runtime must be inspectable", "No PHP runtime could be inspected.")
		return errNoRuntime
	}
	installed := a.source.Version()
	required := a.thresholds.MinPHPVersion
	reg.Require(
		installed != "" && version.AtLeast(installed, required),
		fmt.Sprintf("PHP version must be at least %s (%s installed)", required, installed),
		fmt.Sprintf("You are running PHP version \"<strong>%s</strong>\", but your application needs at least PHP \"<strong>%s</strong>\" to run. "+
			"Before using this application, upgrade your PHP installation, preferably to the latest version.", installed, required),
	)
	return nil
}

func (a *audit) checkTimezone(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}
	if !version.AtLeast(a.source.Version(), a.thresholds.ModernPHPVersion) {
		reg.CheckPhpConfig(a.source, "date.timezone", precheck.Equals(true), precheck.SeverityMandatory,
			precheck.WithTestMessage("date.timezone setting must be set"),
			precheck.WithHelpHTML("Set the \"<strong>date.timezone</strong>\" setting in php.ini<a href=\"#phpini\">*</a> (like Europe/Paris)."),
		)
	}

	tz := a.source.DefaultTimezone()
	reg.Require(
		tz != "" && slices.Contains(a.source.TimezoneIdentifiers(), tz),
		fmt.Sprintf("Configured default timezone \"%s\" must be supported by your installation of PHP", tz),
		"Your default timezone is not supported by PHP. Check for typos in your <strong>php.ini</strong> file and have a look at the list of deprecated timezones at "+
			"<a href=\"https://www.php.net/manual/en/timezones.others.php\">https://www.php.net/manual/en/timezones.others.php</a>.",
	)
	return nil
}

func (a *audit) checkFunctions(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}
	for _, fn := range requiredFunctions {
		reg.Require(
			a.source.FunctionExists(fn.name),
			fmt.Sprintf("%s() must be available", fn.name),
			fmt.Sprintf("Install and enable the <strong>%s</strong> extension.", fn.extension),
		)
	}
	return nil
}
