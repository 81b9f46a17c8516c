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

package bytesize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		expected Size
	}{
		{"-1", Unbounded},
		{"  -1  ", Unbounded},
		{"128M", 134217728},
		{"128m", 134217728},
		{"16k", 16384},
		{"16K", 16384},
		{"1G", 1073741824},
		{"2048", 2048},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"12x", 12},
		{"1.5", 1},
		{"abc", 0},
		{"M", 0},
		{"-2", 0},
		{"-5M", 0},
		{"99999999999999999999G", Size(math.MaxInt64)},
		{"99999999999999999999", Size(math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.raw))
		})
	}
}

func TestParseGarbageNeverPanics(t *testing.T) {
	inputs := []string{"\x00", "--1", "+", "-", "k", "1e9", "0x10", "１２８M", "128MB"}
	for _, in := range inputs {
		require.NotPanics(t, func() { _ = Parse(in) }, "input %q", in)
	}
	// trailing "B" is not a recognised unit: the numeric prefix wins
	assert.Equal(t, Size(128), Parse("128MB"))
}

func TestUnboundedOrdering(t *testing.T) {
	finite := []Size{0, 1, MiB, GiB, Size(math.MaxInt64)}
	for _, s := range finite {
		assert.True(t, s.Less(Unbounded), "%d < unbounded", s)
		assert.False(t, Unbounded.Less(s), "unbounded < %d", s)
		assert.True(t, Unbounded.AtLeast(s))
	}
	assert.False(t, Unbounded.Less(Unbounded))
	assert.True(t, Unbounded.AtLeast(Unbounded))
}

func TestFiniteComparisons(t *testing.T) {
	assert.True(t, Parse("8M").Less(Parse("128M")))
	assert.False(t, Parse("128M").Less(Parse("128M")))
	assert.True(t, Parse("128M").AtLeast(128*MiB))
	assert.False(t, Parse("64M").AtLeast(128*MiB))
}

func TestBytesAndString(t *testing.T) {
	assert.Equal(t, int64(-1), Unbounded.Bytes())
	assert.Equal(t, int64(2048), Parse("2048").Bytes())
	assert.Equal(t, "unlimited", Unbounded.String())
	assert.Equal(t, "128 MiB", Parse("128M").String())
	assert.Equal(t, "16 KiB", Parse("16k").String())
}
