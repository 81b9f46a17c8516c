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

// Package reporter renders audit reports.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

// Format is an output format.
type Format string

const (
	// TextFormat is the terminal format.
	TextFormat Format = "text"
	// MarkdownFormat is GitHub flavored markdown.
	MarkdownFormat Format = "markdown"
	// HTMLFormat is a standalone HTML page.
	HTMLFormat Format = "html"
	// JSONFormat is the machine readable report.
	JSONFormat Format = "json"
)

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case TextFormat, MarkdownFormat, HTMLFormat, JSONFormat:
		return f, nil
	case "md":
		return MarkdownFormat, nil
	case "":
		return TextFormat, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithColor enables terminal styling in the text format.
func WithColor(enabled bool) Option {
	return func(r *Reporter) { r.color = enabled }
}

// WithPassed includes satisfied requirements in the rendered output.
func WithPassed(enabled bool) Option {
	return func(r *Reporter) { r.passed = enabled }
}

// Reporter renders a precheck.Report in one format.
type Reporter struct {
	format Format
	color  bool
	passed bool
}

// NewReporter creates a Reporter.
func NewReporter(format Format, opts ...Option) *Reporter {
	r := &Reporter{format: format}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate renders the report.
func (r *Reporter) Generate(report *precheck.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("no report to render")
	}
	switch r.format {
	case TextFormat:
		return []byte(r.renderText(report)), nil
	case MarkdownFormat:
		return []byte(r.renderMarkdown(report)), nil
	case HTMLFormat:
		return r.renderHTML(report)
	case JSONFormat:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", r.format)
	}
}

// Write renders the report to w.
func (r *Reporter) Write(w io.Writer, report *precheck.Report) error {
	data, err := r.Generate(report)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// section is one group of requirements shown in a report.
type section struct {
	title        string
	requirements []precheck.Requirement
	failed       bool
}

// sections returns the non-empty groups in display order.
func (r *Reporter) sections(report *precheck.Report) []section {
	all := []section{
		{title: "Fix the following mandatory requirements", requirements: report.FailedMandatory(), failed: true},
		{title: "Optional recommendations to improve your setup", requirements: report.FailedRecommendations(), failed: true},
	}
	if r.passed {
		all = append(all, section{title: "Satisfied requirements", requirements: report.Passed()})
	}
	out := all[:0]
	for _, s := range all {
		if len(s.requirements) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func verdict(report *precheck.Report) string {
	switch {
	case !report.FullySatisfied:
		return "Your system is not ready to run the application."
	case report.Summary.FailedRecommendations > 0:
		return "Your system is ready to run the application, with some recommendations."
	default:
		return "Your system is ready to run the application."
	}
}
