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

	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

func (r *Reporter) renderMarkdown(report *precheck.Report) string {
	var sb strings.Builder

	sb.WriteString("# Environment Requirements Report\n\n")
	sb.WriteString("| Item | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| PHP version | %s |\n", mdCell(report.RuntimeVersion)))
	sb.WriteString(fmt.Sprintf("| Project | %s |\n", mdCell(report.ProjectDir)))
	sb.WriteString(fmt.Sprintf("| Environment | %s |\n", mdCell(report.Environment)))
	sb.WriteString(fmt.Sprintf("| Requirements | %d |\n", report.Summary.Total))
	sb.WriteString(fmt.Sprintf("| Passed | %d |\n", report.Summary.Passed))
	sb.WriteString(fmt.Sprintf("| Failed mandatory | %d |\n", report.Summary.FailedMandatory))
	sb.WriteString(fmt.Sprintf("| Failed recommendations | %d |\n\n", report.Summary.FailedRecommendations))

	sb.WriteString(fmt.Sprintf("**%s**\n", verdict(report)))

	for _, s := range r.sections(report) {
		sb.WriteString(fmt.Sprintf("\n## %s\n\n", s.title))
		for _, req := range s.requirements {
			if !s.failed {
				sb.WriteString(fmt.Sprintf("- [x] %s\n", req.TestMessage()))
				continue
			}
			sb.WriteString(fmt.Sprintf("- [ ] **%s** (`%s`)\n", req.TestMessage(), req.Severity()))
			if req.HelpText() != "" {
				sb.WriteString(fmt.Sprintf("  > %s\n", req.HelpText()))
			}
		}
	}

	if len(report.Errors) > 0 {
		sb.WriteString("\n## Audit errors\n\n")
		for _, e := range report.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
	}
	return sb.String()
}

func mdCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
