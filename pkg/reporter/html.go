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
	"bytes"
	"fmt"
	"html/template"

	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Environment Requirements Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
        .summary { background-color: #f5f5f5; padding: 10px; border-radius: 5px; }
        .verdict { padding: 10px; border-radius: 5px; font-weight: bold; }
        .ok { background-color: #dff0d8; }
        .error { background-color: #f2dede; }
        .warning { background-color: #fcf8e3; }
        .requirement { border: 1px solid #ddd; margin: 10px 0; padding: 10px; border-radius: 5px; }
        .mandatory { border-left: 5px solid #d9534f; }
        .recommendation { border-left: 5px solid #f0ad4e; }
        .passed { border-left: 5px solid #5cb85c; }
        .help { color: #666; }
    </style>
</head>
<body>
    <h1>Environment Requirements Report</h1>

    <div class="summary">
        <p><strong>PHP version:</strong> {{.Report.RuntimeVersion}}</p>
        <p><strong>Project:</strong> {{.Report.ProjectDir}}</p>
        <p><strong>Environment:</strong> {{.Report.Environment}}</p>
        <p><strong>Requirements:</strong> {{.Report.Summary.Total}}, passed {{.Report.Summary.Passed}},
           failed mandatory {{.Report.Summary.FailedMandatory}}, failed recommendations {{.Report.Summary.FailedRecommendations}}</p>
    </div>

    <p class="verdict {{.VerdictClass}}">{{.Verdict}}</p>
{{range .Sections}}
    <h2>{{.Title}}</h2>
    {{range .Items}}
    <div class="requirement {{.Class}}">
        <strong>{{.Message}}</strong>
        {{if .Help}}<p class="help">{{.Help}}</p>{{end}}
    </div>
    {{end}}
{{end}}
{{if .Report.Errors}}
    <h2>Audit errors</h2>
    <ul>
    {{range .Report.Errors}}<li>{{.}}</li>
    {{end}}
    </ul>
{{end}}
    <p id="phpini" class="help">* Changes to the php.ini file must be done in "{{.IniHint}}".</p>
</body>
</html>
`

var pageTemplate = template.Must(template.New("report").Parse(htmlTemplate))

type htmlItem struct {
	Class   string
	Message string
	// Help is produced by the audit plan itself and carries trusted markup.
	Help template.HTML
}

type htmlSection struct {
	Title string
	Items []htmlItem
}

type htmlPage struct {
	Report       *precheck.Report
	Verdict      string
	VerdictClass string
	Sections     []htmlSection
	IniHint      string
}

func (r *Reporter) renderHTML(report *precheck.Report) ([]byte, error) {
	page := htmlPage{
		Report:  report,
		Verdict: verdict(report),
		IniHint: "the php.ini loaded by your web server",
	}
	switch {
	case !report.FullySatisfied:
		page.VerdictClass = "error"
	case report.Summary.FailedRecommendations > 0:
		page.VerdictClass = "warning"
	default:
		page.VerdictClass = "ok"
	}

	for _, s := range r.sections(report) {
		hs := htmlSection{Title: s.title}
		for _, req := range s.requirements {
			item := htmlItem{Message: req.TestMessage(), Class: "passed"}
			if s.failed {
				item.Class = "recommendation"
				if req.Severity().IsMandatory() {
					item.Class = "mandatory"
				}
				item.Help = template.HTML(req.HelpHTML())
			}
			hs.Items = append(hs.Items, item)
		}
		page.Sections = append(page.Sections, hs)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.Bytes(), nil
}
