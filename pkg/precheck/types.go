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

package precheck

import (
	"encoding/json"
)

// Severity decides which report bucket a failed requirement lands in and
// whether it blocks overall success.
type Severity string

const (
	// SeverityMandatory blocks success when unsatisfied.
	SeverityMandatory Severity = "mandatory"
	// SeverityPhpConfigMandatory is a mandatory check on a php.ini directive.
	SeverityPhpConfigMandatory Severity = "php-config-mandatory"
	// SeverityRecommendation is advisory only.
	SeverityRecommendation Severity = "recommendation"
	// SeverityPhpConfigRecommendation is an advisory check on a php.ini directive.
	SeverityPhpConfigRecommendation Severity = "php-config-recommendation"
)

// IsMandatory reports whether a failure with this severity blocks success.
func (s Severity) IsMandatory() bool {
	return s == SeverityMandatory || s == SeverityPhpConfigMandatory
}

// IsRecommendation reports whether a failure with this severity is advisory.
func (s Severity) IsRecommendation() bool {
	return s == SeverityRecommendation || s == SeverityPhpConfigRecommendation
}

// IsPhpConfig reports whether the severity belongs to a php.ini directive check.
func (s Severity) IsPhpConfig() bool {
	return s == SeverityPhpConfigMandatory || s == SeverityPhpConfigRecommendation
}

// phpConfig maps a plain severity onto its php.ini counterpart.
func (s Severity) phpConfig() Severity {
	switch s {
	case SeverityMandatory:
		return SeverityPhpConfigMandatory
	case SeverityRecommendation:
		return SeverityPhpConfigRecommendation
	default:
		return s
	}
}

// Requirement is a single evaluated check. The outcome is captured when the
// requirement is created and never re-evaluated.
type Requirement struct {
	satisfied   bool
	severity    Severity
	testMessage string
	helpHTML    string
	helpText    string
	directive   string
}

// NewRequirement builds a requirement. An empty helpText is derived from
// helpHTML with the markup stripped.
func NewRequirement(satisfied bool, severity Severity, testMessage, helpHTML, helpText string) Requirement {
	if helpText == "" {
		helpText = StripMarkup(helpHTML)
	}
	return Requirement{
		satisfied:   satisfied,
		severity:    severity,
		testMessage: testMessage,
		helpHTML:    helpHTML,
		helpText:    helpText,
	}
}

// Satisfied returns the evaluated outcome.
func (r Requirement) Satisfied() bool { return r.satisfied }

// Severity returns the requirement severity.
func (r Requirement) Severity() Severity { return r.severity }

// TestMessage returns the short statement of the checked condition.
func (r Requirement) TestMessage() string { return r.testMessage }

// HelpHTML returns the remediation hint with markup.
func (r Requirement) HelpHTML() string { return r.helpHTML }

// HelpText returns the remediation hint as plain text.
func (r Requirement) HelpText() string { return r.helpText }

// Directive returns the php.ini key for directive checks, or "".
func (r Requirement) Directive() string { return r.directive }

type requirementJSON struct {
	Satisfied   bool     `json:"satisfied"`
	Severity    Severity `json:"severity"`
	TestMessage string   `json:"test_message"`
	HelpHTML    string   `json:"help_html,omitempty"`
	HelpText    string   `json:"help_text,omitempty"`
	Directive   string   `json:"directive,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(requirementJSON{
		Satisfied:   r.satisfied,
		Severity:    r.severity,
		TestMessage: r.testMessage,
		HelpHTML:    r.helpHTML,
		HelpText:    r.helpText,
		Directive:   r.directive,
	})
}

// UnmarshalJSON implements json.Unmarshaler so saved reports can be re-rendered.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var raw requirementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Requirement{
		satisfied:   raw.Satisfied,
		severity:    raw.Severity,
		testMessage: raw.TestMessage,
		helpHTML:    raw.HelpHTML,
		helpText:    raw.HelpText,
		directive:   raw.Directive,
	}
	return nil
}
