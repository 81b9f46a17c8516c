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
	"fmt"
	"strings"

	"github.com/webapp-tools/env-precheck/pkg/precheck"
	"github.com/webapp-tools/env-precheck/pkg/version"
)

const (
	intlStep       = "intl"
	pdoDriversStep = "pdo-drivers"
)

func (a *audit) checkIntl(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}
	if !a.source.ExtensionLoaded("intl") {
		reg.Recommend(false, "intl extension should be available",
			"Install and enable the <strong>intl</strong> extension (used for validators).")
		return nil
	}

	reg.Recommend(a.source.ClassExists("Collator"), "intl extension should be correctly configured",
		"The intl extension does not behave properly. The <strong>Collator</strong> class is not usable.")

	icu := a.source.ICUVersion()
	minICU := a.thresholds.MinICUVersion
	reg.Recommend(icu != "" && version.AtLeast(icu, minICU),
		fmt.Sprintf("intl ICU version should be at least %s", minICU),
		fmt.Sprintf("Upgrade your <strong>intl</strong> extension with a newer ICU version (%s+).", minICU))

	// The equality check only makes sense once the system ICU is not older
	// than the bundled data.
	if data := a.source.ICUDataVersion(); data != "" && icu != "" {
		notNewer := version.Compare(data, icu) <= 0
		reg.Recommend(notNewer,
			fmt.Sprintf("intl ICU version installed on your system is outdated (%s) and does not match the ICU data bundled with the application (%s)", icu, data),
			"To get the latest internationalization data upgrade the ICU system package and the intl PHP extension.")
		if notNewer {
			reg.Recommend(version.Compare(data, icu) == 0,
				fmt.Sprintf("intl ICU version installed on your system (%s) does not match the ICU data bundled with the application (%s)", icu, data),
				"To avoid internationalization data inconsistencies upgrade the intl component of the application.")
		}
	}

	reg.CheckPhpConfig(a.source, "intl.error_level",
		precheck.Predicate(func(raw string) bool {
			return phpInt(raw) == 0
		}),
		precheck.SeverityRecommendation,
		precheck.ApproveAbsence(),
		precheck.WithTestMessage("intl.error_level should be 0 in php.ini"),
		precheck.WithHelpHTML("Set \"<strong>intl.error_level</strong>\" to \"<strong>0</strong>\" in php.ini<a href=\"#phpini\">*</a> to inhibit the messages when an error occurs in ICU functions."),
	)
	return nil
}

func (a *audit) checkPDODrivers(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}
	if !a.source.ClassExists("PDO") {
		reg.Recommend(false, "PDO should be installed", "Install <strong>PDO</strong> (mandatory for Doctrine).")
		return nil
	}
	drivers := a.source.PDODrivers()
	listed := "none"
	if len(drivers) > 0 {
		listed = strings.Join(drivers, ", ")
	}
	reg.Recommend(len(drivers) > 0,
		fmt.Sprintf("PDO should have some drivers installed (currently available: %s)", listed),
		"Install <strong>PDO drivers</strong> (mandatory for Doctrine).")
	return nil
}
