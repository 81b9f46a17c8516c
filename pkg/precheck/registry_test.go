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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(reqs []Requirement) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.TestMessage())
	}
	return out
}

func TestSeverityClassification(t *testing.T) {
	tests := []struct {
		severity       Severity
		mandatory      bool
		recommendation bool
		phpConfig      bool
	}{
		{SeverityMandatory, true, false, false},
		{SeverityPhpConfigMandatory, true, false, true},
		{SeverityRecommendation, false, true, false},
		{SeverityPhpConfigRecommendation, false, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.mandatory, tt.severity.IsMandatory())
			assert.Equal(t, tt.recommendation, tt.severity.IsRecommendation())
			assert.Equal(t, tt.phpConfig, tt.severity.IsPhpConfig())
		})
	}
}

func TestRegistry_Empty(t *testing.T) {
	reg := NewRegistry()

	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.Requirements())
	assert.Empty(t, reg.FailedMandatory())
	assert.Empty(t, reg.FailedRecommendations())
	assert.True(t, reg.IsFullySatisfied())
}

func TestRegistry_Single(t *testing.T) {
	t.Run("failed mandatory", func(t *testing.T) {
		reg := NewRegistry()
		reg.Require(false, "vendor must exist", "Run <strong>composer install</strong>.")

		require.Len(t, reg.FailedMandatory(), 1)
		assert.Empty(t, reg.FailedRecommendations())
		assert.False(t, reg.IsFullySatisfied())
	})

	t.Run("failed recommendation", func(t *testing.T) {
		reg := NewRegistry()
		reg.Recommend(false, "intl should be loaded", "Install intl.")

		assert.Empty(t, reg.FailedMandatory())
		require.Len(t, reg.FailedRecommendations(), 1)
		assert.True(t, reg.IsFullySatisfied())
	})

	t.Run("passed mandatory", func(t *testing.T) {
		reg := NewRegistry()
		reg.Require(true, "json_encode() must be available", "Install json.")

		assert.Empty(t, reg.FailedMandatory())
		assert.Len(t, reg.Passed(), 1)
		assert.True(t, reg.IsFullySatisfied())
	})
}

func TestRegistry_ManyMixed(t *testing.T) {
	reg := NewRegistry()
	reg.Check(false, SeverityMandatory, "m1", "")
	reg.Check(true, SeverityMandatory, "m2", "")
	reg.Check(false, SeverityRecommendation, "r1", "")
	reg.Check(false, SeverityPhpConfigMandatory, "pm1", "")
	reg.Check(true, SeverityPhpConfigRecommendation, "pr1", "")
	reg.Check(false, SeverityPhpConfigRecommendation, "pr2", "")
	reg.Check(false, SeverityMandatory, "m3", "")

	assert.Equal(t, 7, reg.Len())
	assert.Equal(t, []string{"m1", "pm1", "m3"}, messages(reg.FailedMandatory()))
	assert.Equal(t, []string{"r1", "pr2"}, messages(reg.FailedRecommendations()))
	assert.Equal(t, []string{"m2", "pr1"}, messages(reg.Passed()))
	assert.False(t, reg.IsFullySatisfied())
	assert.Equal(t, []string{"m1", "m2", "r1", "pm1", "pr1", "pr2", "m3"}, messages(reg.Requirements()))
}

func TestRegistry_RequirementsIsACopy(t *testing.T) {
	reg := NewRegistry()
	reg.Require(false, "a", "")

	reqs := reg.Requirements()
	reqs[0] = NewRequirement(true, SeverityMandatory, "b", "", "")

	assert.Equal(t, "a", reg.Requirements()[0].TestMessage())
	assert.False(t, reg.IsFullySatisfied())
}

func TestRequirement_HelpTextDefaultsToStrippedHTML(t *testing.T) {
	reg := NewRegistry()
	reg.Require(false, "cache dir must be writable",
		`Change the permissions of "<strong>var/cache/</strong>" so that the web server can write into it.`)
	reg.CheckWithText(false, SeverityMandatory, "custom", "<em>rich</em>", "plain variant")

	reqs := reg.Requirements()
	assert.Equal(t, `Change the permissions of "var/cache/" so that the web server can write into it.`, reqs[0].HelpText())
	assert.NotContains(t, reqs[0].HelpText(), "<")
	assert.Equal(t, "plain variant", reqs[1].HelpText())
	assert.Equal(t, "<em>rich</em>", reqs[1].HelpHTML())
}

func TestRequirement_JSONRoundTrip(t *testing.T) {
	req := NewRequirement(false, SeverityPhpConfigRecommendation, "msg", "<b>help</b>", "")
	req.directive = "short_open_tag"

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"directive":"short_open_tag"`)

	var decoded Requirement
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, req, decoded)
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"plain   text", "plain text"},
		{"<strong>bold</strong> &amp; more", "bold & more"},
		{`Install <a href="http://getcomposer.org/">composer</a>.`, "Install composer."},
		{"line<br/>break", "line break"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, StripMarkup(tt.in))
	}
}
