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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Summary counts the requirements of a report.
type Summary struct {
	Total                 int              `json:"total"`
	BySeverity            map[Severity]int `json:"by_severity"`
	Passed                int              `json:"passed"`
	FailedMandatory       int              `json:"failed_mandatory"`
	FailedRecommendations int              `json:"failed_recommendations"`
}

// Report is the complete result of an audit.
type Report struct {
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	Environment    string        `json:"environment,omitempty"`
	ProjectDir     string        `json:"project_dir,omitempty"`
	RuntimeVersion string        `json:"runtime_version,omitempty"`
	Requirements   []Requirement `json:"requirements"`
	Summary        Summary       `json:"summary"`
	FullySatisfied bool          `json:"fully_satisfied"`
	Errors         []string      `json:"errors,omitempty"`

	faults []error
}

// FailedMandatory returns the unsatisfied mandatory requirements in report order.
func (r *Report) FailedMandatory() []Requirement {
	return filterRequirements(r.Requirements, func(req Requirement) bool {
		return !req.Satisfied() && req.Severity().IsMandatory()
	})
}

// FailedRecommendations returns the unsatisfied recommendations in report order.
func (r *Report) FailedRecommendations() []Requirement {
	return filterRequirements(r.Requirements, func(req Requirement) bool {
		return !req.Satisfied() && req.Severity().IsRecommendation()
	})
}

// Passed returns the satisfied requirements in report order.
func (r *Report) Passed() []Requirement {
	return filterRequirements(r.Requirements, Requirement.Satisfied)
}

// Err returns the engine-level faults joined, or nil. Use errors.Is to look
// for a specific fault.
func (r *Report) Err() error {
	return errors.Join(r.faults...)
}

func filterRequirements(reqs []Requirement, keep func(Requirement) bool) []Requirement {
	var out []Requirement
	for _, req := range reqs {
		if keep(req) {
			out = append(out, req)
		}
	}
	return out
}

// Step is one stage of the audit plan. A step appends its requirements to the
// registry and returns an error only for faults the caller must be able to
// tell apart from failed requirements.
type Step interface {
	Name() string
	Apply(context.Context, *Registry) error
}

// StepFunc adapts a function to a Step.
type StepFunc struct {
	name string
	fn   func(context.Context, *Registry) error
}

// NewStepFunc creates a function backed step.
func NewStepFunc(name string, fn func(context.Context, *Registry) error) Step {
	sanitized := strings.TrimSpace(name)
	if sanitized == "" {
		panic("step name cannot be empty")
	}
	if fn == nil {
		panic("step func cannot be nil")
	}
	return &StepFunc{name: sanitized, fn: fn}
}

// Name returns the step name.
func (s *StepFunc) Name() string { return s.name }

// Apply runs the step.
func (s *StepFunc) Apply(ctx context.Context, reg *Registry) error {
	return s.fn(ctx, reg)
}

// Engine runs the steps of an audit one after another.
type Engine struct {
	steps  []Step
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for step progress and faults.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine constructs an engine with the given steps.
func NewEngine(steps []Step, opts ...EngineOption) *Engine {
	e := &Engine{
		steps:  append([]Step(nil), steps...),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends a step.
func (e *Engine) Register(step Step) {
	if step == nil {
		panic("step cannot be nil")
	}
	e.steps = append(e.steps, step)
}

// Steps returns a copy of the registered steps.
func (e *Engine) Steps() []Step {
	return append([]Step(nil), e.steps...)
}

// Run executes every step against reg and summarizes the result. The plan
// always runs to completion: a failing or panicking step is recorded as a
// fault and the next step runs.
func (e *Engine) Run(ctx context.Context, reg *Registry) *Report {
	if reg == nil {
		reg = NewRegistry()
	}
	report := &Report{StartedAt: time.Now()}

	for _, step := range e.steps {
		before := reg.Len()
		if err := e.apply(ctx, step, reg); err != nil {
			e.logger.Warn("audit step fault", "step", step.Name(), "error", err)
			report.faults = append(report.faults, fmt.Errorf("step %s: %w", step.Name(), err))
			report.Errors = append(report.Errors, fmt.Sprintf("step %s failed: %v", step.Name(), err))
		}
		e.logger.Debug("audit step done", "step", step.Name(), "requirements", reg.Len()-before)
	}

	report.Requirements = reg.Requirements()
	report.Summary = summarize(report.Requirements)
	report.FullySatisfied = reg.IsFullySatisfied()
	report.FinishedAt = time.Now()
	return report
}

func (e *Engine) apply(ctx context.Context, step Step, reg *Registry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.Apply(ctx, reg)
}

func summarize(reqs []Requirement) Summary {
	summary := Summary{Total: len(reqs), BySeverity: make(map[Severity]int)}
	for _, req := range reqs {
		summary.BySeverity[req.Severity()]++
		switch {
		case req.Satisfied():
			summary.Passed++
		case req.Severity().IsMandatory():
			summary.FailedMandatory++
		case req.Severity().IsRecommendation():
			summary.FailedRecommendations++
		}
	}
	return summary
}
