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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"7.2.8", "7.2.8", 0},
		{"7.1.0", "7.2.8", -1},
		{"10.2.7", "9.9.9", 1},
		{"7.4.1", "7.2.8", 1},
		{"1.0", "1.0.0", -1},
		{"1.0.0", "1.0", 1},
		{"1.0rc1", "1.0", -1},
		{"1.0RC1", "1.0beta2", 1},
		{"1.0-dev", "1.0alpha", -1},
		{"1.0pl1", "1.0", 1},
		{"5.7.0-log", "5.7.0", -1},
		{"5.7.22-log", "5.7.0", 1},
		{"10.3.5-MariaDB", "10.2.7", 1},
		{"007.2", "7.2", 0},
		{"", "", 0},
		{"", "1.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.expected, Compare(tt.b, tt.a))
		})
	}
}

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast("7.2.8", "7.2.8"))
	assert.False(t, AtLeast("7.1.0", "7.2.8"))
	assert.True(t, AtLeast("10.2.7", "9.9.9"))
	assert.True(t, AtLeast("8.0.30-0ubuntu0.22.04.1", "5.7.0"))
	assert.False(t, AtLeast("", "5.7.0"))
}

func TestIsDatabaseVersionSupported(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		expected  bool
	}{
		{"mariadb newer", "10.3.5-MariaDB", true},
		{"mariadb equal", "10.2.7-MariaDB-log", true},
		{"mariadb older", "10.1.48-MariaDB", false},
		{"mariadb lowercase marker", "10.4.0-mariadb", true},
		{"mariadb replication prefix with literal minimum", "5.5.5-10.2.7-MariaDB", true},
		{"mariadb replication prefix without literal minimum", "5.5.5-10.3.1-MariaDB", false},
		{"mysql too old", "5.6.9", false},
		{"mysql minimum", "5.7.0", true},
		{"mysql 8", "8.0.1", true},
		{"unmarked version compares against mysql minimum", "10.0.0", true},
		{"empty", "", false},
		{"whitespace", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDatabaseVersionSupported(tt.installed, "5.7.0", "10.2.7"))
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, ProductMariaDB, Detect("10.3.5-MariaDB"))
	assert.Equal(t, ProductMariaDB, Detect("10.3.5-MARIADB"))
	assert.Equal(t, ProductMySQL, Detect("8.0.1"))
	assert.Equal(t, ProductGeneric, Detect(""))
}
