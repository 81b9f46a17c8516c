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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStructural = errors.New("structural fault")

func TestEngine_RunsAllStepsInOrder(t *testing.T) {
	steps := []Step{
		NewStepFunc("first", func(_ context.Context, reg *Registry) error {
			reg.Require(true, "a", "")
			return nil
		}),
		NewStepFunc("faulty", func(_ context.Context, reg *Registry) error {
			reg.Require(false, "b", "")
			return errStructural
		}),
		NewStepFunc("panicking", func(context.Context, *Registry) error {
			panic("boom")
		}),
		NewStepFunc("last", func(_ context.Context, reg *Registry) error {
			reg.Recommend(false, "c", "")
			return nil
		}),
	}

	report := NewEngine(steps).Run(context.Background(), NewRegistry())

	assert.Equal(t, []string{"a", "b", "c"}, messages(report.Requirements))
	assert.False(t, report.FullySatisfied)
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "faulty")
	assert.Contains(t, report.Errors[1], "boom")
	assert.ErrorIs(t, report.Err(), errStructural)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Passed)
	assert.Equal(t, 1, report.Summary.FailedMandatory)
	assert.Equal(t, 1, report.Summary.FailedRecommendations)
	assert.Equal(t, 2, report.Summary.BySeverity[SeverityMandatory])

	assert.Equal(t, []string{"b"}, messages(report.FailedMandatory()))
	assert.Equal(t, []string{"c"}, messages(report.FailedRecommendations()))
	assert.Equal(t, []string{"a"}, messages(report.Passed()))
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestEngine_CancelledContextStillCompletes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	step := NewStepFunc("count", func(_ context.Context, reg *Registry) error {
		calls++
		reg.Require(true, "ok", "")
		return nil
	})

	report := NewEngine([]Step{step, step}).Run(ctx, nil)
	assert.Equal(t, 2, calls)
	assert.True(t, report.FullySatisfied)
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Errors)
}

func TestEngine_Register(t *testing.T) {
	e := NewEngine(nil)
	e.Register(NewStepFunc("one", func(context.Context, *Registry) error { return nil }))

	require.Len(t, e.Steps(), 1)
	assert.Equal(t, "one", e.Steps()[0].Name())
	assert.Panics(t, func() { e.Register(nil) })
	assert.Panics(t, func() { NewStepFunc(" ", func(context.Context, *Registry) error { return nil }) })
	assert.Panics(t, func() { NewStepFunc("nil", nil) })
}
