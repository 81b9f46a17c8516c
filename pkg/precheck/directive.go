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
	"fmt"
	"strings"
)

// DirectiveSource exposes raw php.ini directive values.
type DirectiveSource interface {
	// Directive returns the raw value and whether the directive is known.
	Directive(key string) (string, bool)
}

// DirectiveBool normalizes a raw php.ini value to a boolean. Empty, "0",
// "off", "no", "false" and "none" are false, anything else is true.
func DirectiveBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "off", "no", "false", "none":
		return false
	default:
		return true
	}
}

// Expectation is what a directive value is checked against.
type Expectation struct {
	literal   bool
	predicate func(raw string) bool
}

// Equals expects the directive to normalize to want.
func Equals(want bool) Expectation {
	return Expectation{literal: want}
}

// Predicate expects fn to accept the raw directive value.
func Predicate(fn func(raw string) bool) Expectation {
	return Expectation{predicate: fn}
}

func (e Expectation) evaluate(raw string) bool {
	if e.predicate != nil {
		return e.predicate(raw)
	}
	return DirectiveBool(raw) == e.literal
}

// PhpConfigOption customizes CheckPhpConfig.
type PhpConfigOption func(*phpConfigCheck)

type phpConfigCheck struct {
	testMessage    string
	helpHTML       string
	approveAbsence bool
}

// WithTestMessage overrides the generated test message.
func WithTestMessage(msg string) PhpConfigOption {
	return func(c *phpConfigCheck) { c.testMessage = msg }
}

// WithHelpHTML overrides the generated help.
func WithHelpHTML(html string) PhpConfigOption {
	return func(c *phpConfigCheck) { c.helpHTML = html }
}

// ApproveAbsence treats a directive unknown to the runtime as satisfied.
func ApproveAbsence() PhpConfigOption {
	return func(c *phpConfigCheck) { c.approveAbsence = true }
}

// CheckPhpConfig reads key from source, evaluates it against want and appends
// the outcome. Plain severities are promoted to their php.ini counterparts.
func (r *Registry) CheckPhpConfig(source DirectiveSource, key string, want Expectation, severity Severity, opts ...PhpConfigOption) {
	c := phpConfigCheck{}
	for _, opt := range opts {
		opt(&c)
	}
	severity = severity.phpConfig()

	if c.testMessage == "" {
		c.testMessage = defaultDirectiveMessage(key, want, severity)
	}
	if c.helpHTML == "" {
		c.helpHTML = defaultDirectiveHelp(key, want)
	}

	raw, found := "", false
	if source != nil {
		raw, found = source.Directive(key)
	}

	ok := want.evaluate(raw)
	if !found && c.approveAbsence {
		ok = true
	}

	req := NewRequirement(ok, severity, c.testMessage, c.helpHTML, "")
	req.directive = key
	r.add(req)
}

func defaultDirectiveMessage(key string, want Expectation, severity Severity) string {
	verb := "must"
	if severity.IsRecommendation() {
		verb = "should"
	}
	if want.predicate != nil {
		return fmt.Sprintf("%s %s have a supported value in php.ini", key, verb)
	}
	state := "disabled"
	if want.literal {
		state = "enabled"
	}
	return fmt.Sprintf("%s %s be %s in php.ini", key, verb, state)
}

func defaultDirectiveHelp(key string, want Expectation) string {
	if want.predicate != nil {
		return fmt.Sprintf("Adjust <strong>%s</strong> in php.ini<a href=\"#phpini\">*</a>.", key)
	}
	value := "off"
	if want.literal {
		value = "on"
	}
	return fmt.Sprintf("Set <strong>%s</strong> to <strong>%s</strong> in php.ini<a href=\"#phpini\">*</a>.", key, value)
}
