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

// Registry is an append-only, ordered collection of requirements.
//
// A Registry is not safe for concurrent use. Every audit owns its own.
type Registry struct {
	requirements []Requirement
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Check appends a requirement whose plain-text help is derived from helpHTML.
func (r *Registry) Check(ok bool, severity Severity, testMessage, helpHTML string) {
	r.add(NewRequirement(ok, severity, testMessage, helpHTML, ""))
}

// CheckWithText appends a requirement with an explicit plain-text help.
func (r *Registry) CheckWithText(ok bool, severity Severity, testMessage, helpHTML, helpText string) {
	r.add(NewRequirement(ok, severity, testMessage, helpHTML, helpText))
}

// Require appends a mandatory requirement.
func (r *Registry) Require(ok bool, testMessage, helpHTML string) {
	r.Check(ok, SeverityMandatory, testMessage, helpHTML)
}

// Recommend appends a recommendation.
func (r *Registry) Recommend(ok bool, testMessage, helpHTML string) {
	r.Check(ok, SeverityRecommendation, testMessage, helpHTML)
}

func (r *Registry) add(req Requirement) {
	r.requirements = append(r.requirements, req)
}

// Len returns the number of recorded requirements.
func (r *Registry) Len() int {
	return len(r.requirements)
}

// Requirements returns a copy of all requirements in insertion order.
func (r *Registry) Requirements() []Requirement {
	return append([]Requirement(nil), r.requirements...)
}

// FailedMandatory returns the unsatisfied mandatory requirements in insertion order.
func (r *Registry) FailedMandatory() []Requirement {
	return r.filter(func(req Requirement) bool {
		return !req.satisfied && req.severity.IsMandatory()
	})
}

// FailedRecommendations returns the unsatisfied recommendations in insertion order.
func (r *Registry) FailedRecommendations() []Requirement {
	return r.filter(func(req Requirement) bool {
		return !req.satisfied && req.severity.IsRecommendation()
	})
}

// Passed returns the satisfied requirements in insertion order.
func (r *Registry) Passed() []Requirement {
	return r.filter(func(req Requirement) bool {
		return req.satisfied
	})
}

// IsFullySatisfied reports whether no mandatory requirement failed.
func (r *Registry) IsFullySatisfied() bool {
	for _, req := range r.requirements {
		if !req.satisfied && req.severity.IsMandatory() {
			return false
		}
	}
	return true
}

func (r *Registry) filter(keep func(Requirement) bool) []Requirement {
	var out []Requirement
	for _, req := range r.requirements {
		if keep(req) {
			out = append(out, req)
		}
	}
	return out
}
