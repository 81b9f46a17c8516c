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

package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	bannerStyle  = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	okBanner     = bannerStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	errorBanner  = bannerStyle.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	warnBanner   = bannerStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func (r *Reporter) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

func (r *Reporter) renderText(report *precheck.Report) string {
	var sb strings.Builder

	sb.WriteString(r.paint(titleStyle, "Environment Requirements Checker"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("~", len("Environment Requirements Checker")))
	sb.WriteString("\n\n")

	if report.RuntimeVersion != "" {
		sb.WriteString(fmt.Sprintf("> PHP version: %s\n", report.RuntimeVersion))
	}
	if report.ProjectDir != "" {
		sb.WriteString(fmt.Sprintf("> Project: %s\n", report.ProjectDir))
	}
	if report.Environment != "" {
		sb.WriteString(fmt.Sprintf("> Environment: %s\n", report.Environment))
	}
	sb.WriteString("\n> Checking requirements:\n\n  ")
	sb.WriteString(r.progress(report))
	sb.WriteString("\n\n")

	sb.WriteString(r.banner(report))
	sb.WriteString("\n")

	for _, s := range r.sections(report) {
		sb.WriteString("\n")
		sb.WriteString(r.paint(sectionStyle, s.title))
		sb.WriteString("\n\n")
		for _, req := range s.requirements {
			sb.WriteString(fmt.Sprintf(" * %s\n", req.TestMessage()))
			if s.failed && req.HelpText() != "" {
				sb.WriteString(fmt.Sprintf("   > %s\n", r.paint(helpStyle, req.HelpText())))
			}
		}
	}

	if len(report.Errors) > 0 {
		sb.WriteString("\n")
		sb.WriteString(r.paint(errorStyle, "Audit errors"))
		sb.WriteString("\n\n")
		for _, e := range report.Errors {
			sb.WriteString(fmt.Sprintf(" * %s\n", e))
		}
	}

	if hasDirectiveFailure(report) {
		sb.WriteString("\nNote: the php.ini used by the web server may differ from the one used on the command line.\n")
	}
	return sb.String()
}

// progress renders one mark per requirement: "." passed, "E" failed
// mandatory, "W" failed recommendation.
func (r *Reporter) progress(report *precheck.Report) string {
	var sb strings.Builder
	for _, req := range report.Requirements {
		switch {
		case req.Satisfied():
			sb.WriteString(r.paint(okStyle, "."))
		case req.Severity().IsMandatory():
			sb.WriteString(r.paint(errorStyle, "E"))
		default:
			sb.WriteString(r.paint(warnStyle, "W"))
		}
	}
	return sb.String()
}

func (r *Reporter) banner(report *precheck.Report) string {
	msg := verdict(report)
	switch {
	case !report.FullySatisfied:
		return r.paint(errorBanner, "[ERROR] "+msg)
	case report.Summary.FailedRecommendations > 0:
		return r.paint(warnBanner, "[WARNING] "+msg)
	default:
		return r.paint(okBanner, "[OK] "+msg)
	}
}

func hasDirectiveFailure(report *precheck.Report) bool {
	for _, req := range report.Requirements {
		if !req.Satisfied() && req.Severity().IsPhpConfig() {
			return true
		}
	}
	return false
}
