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

// Package version compares dotted version strings the way package ecosystems
// do ("10.2.7" >= "9.9.9", "1.0RC1" < "1.0"), and knows that MySQL and MariaDB
// number their releases in different version spaces.
package version

import (
	"strings"
)

// Product identifies the version space a version string belongs to.
type Product string

const (
	ProductGeneric Product = "generic"
	ProductMySQL   Product = "mysql"
	ProductMariaDB Product = "mariadb"
)

// Detect tags a database server version string with its product.
// Anything that does not mention MariaDB is treated as MySQL.
func Detect(raw string) Product {
	if strings.TrimSpace(raw) == "" {
		return ProductGeneric
	}
	if strings.Contains(strings.ToLower(raw), "mariadb") {
		return ProductMariaDB
	}
	return ProductMySQL
}

// Compare returns -1, 0 or 1 when a is older than, equal to or newer than b.
func Compare(a, b string) int {
	pa := canonicalize(a)
	pb := canonicalize(b)

	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(pa) > len(pb):
		return compareRemainder(pa[len(pb)])
	case len(pb) > len(pa):
		return -compareRemainder(pb[len(pa)])
	default:
		return 0
	}
}

// AtLeast reports whether installed >= required. The bound is inclusive.
func AtLeast(installed, required string) bool {
	return Compare(installed, required) >= 0
}

// IsDatabaseVersionSupported checks a server version string against the
// minimum MySQL and MariaDB versions.
//
// MariaDB strings also pass when they contain minMariaDB literally: vendor
// builds report strings such as "5.5.5-10.2.7-MariaDB" that do not compare
// cleanly.
func IsDatabaseVersionSupported(installed, minMySQL, minMariaDB string) bool {
	if strings.TrimSpace(installed) == "" {
		return false
	}
	if Detect(installed) == ProductMariaDB {
		return strings.Contains(installed, minMariaDB) || AtLeast(installed, minMariaDB)
	}
	return AtLeast(installed, minMySQL)
}

// canonicalize splits a version into parts: "-", "_" and "+" act as ".", and
// every switch between digits and non-digits starts a new part.
func canonicalize(v string) []string {
	v = strings.TrimSpace(v)
	var (
		parts   []string
		current strings.Builder
		prev    byte
	)
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '.' || c == '-' || c == '_' || c == '+':
			flush()
			prev = 0
			continue
		case prev != 0 && isDigit(c) != isDigit(prev):
			flush()
		}
		current.WriteByte(c)
		prev = c
	}
	flush()
	return parts
}

func comparePart(a, b string) int {
	aNum, bNum := isNumeric(a), isNumeric(b)
	switch {
	case aNum && bNum:
		return compareNumbers(a, b)
	case aNum:
		return compareForms("#", b)
	case bNum:
		return compareForms(a, "#")
	default:
		return compareForms(a, b)
	}
}

// compareRemainder decides the order when the other version ran out of parts.
func compareRemainder(part string) int {
	if isNumeric(part) {
		return 1
	}
	return compareForms(part, "#")
}

func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a == b {
		return 0
	}
	// same length, so the byte order is the numeric order
	if a < b {
		return -1
	}
	return 1
}

var specialForms = []struct {
	prefix string
	rank   int
}{
	{"dev", 0},
	{"alpha", 1},
	{"a", 1},
	{"beta", 2},
	{"b", 2},
	{"RC", 3},
	{"rc", 3},
	{"#", 4},
	{"pl", 5},
	{"p", 5},
}

func formRank(form string) int {
	for _, sf := range specialForms {
		if strings.HasPrefix(form, sf.prefix) {
			return sf.rank
		}
	}
	return -1
}

func compareForms(a, b string) int {
	ra, rb := formRank(a), formRank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
