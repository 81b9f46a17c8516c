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

// Package bytesize parses php.ini style shorthand sizes such as "128M" or "-1".
package bytesize

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size is a byte count. The only negative value is Unbounded.
type Size int64

// Unbounded is the "no limit" size produced by the "-1" shorthand.
const Unbounded Size = -1

const (
	// KiB is 1024 bytes.
	KiB Size = 1 << 10
	// MiB is 1024 KiB.
	MiB Size = 1 << 20
	// GiB is 1024 MiB.
	GiB Size = 1 << 30
)

// Parse converts a shorthand size into a Size.
//
// Malformed input never fails: it degrades to a partial integer parse or 0.
func Parse(raw string) Size {
	value := strings.TrimSpace(raw)
	if value == "-1" {
		return Unbounded
	}
	if value == "" {
		return 0
	}
	if isDigits(value) {
		return clamp(leadingInt(value))
	}

	var multiplier int64
	switch value[len(value)-1] {
	case 'g', 'G':
		multiplier = int64(GiB)
	case 'm', 'M':
		multiplier = int64(MiB)
	case 'k', 'K':
		multiplier = int64(KiB)
	default:
		// unknown suffix, fall back to the unit-less parse of the whole value
		return clamp(leadingInt(value))
	}

	n := leadingInt(value[:len(value)-1])
	if n <= 0 {
		return 0
	}
	if n > math.MaxInt64/multiplier {
		return Size(math.MaxInt64)
	}
	return Size(n * multiplier)
}

// IsUnbounded reports whether s is the "no limit" size.
func (s Size) IsUnbounded() bool {
	return s < 0
}

// Bytes returns the finite byte count, or -1 for Unbounded.
func (s Size) Bytes() int64 {
	if s.IsUnbounded() {
		return -1
	}
	return int64(s)
}

// Less reports whether s is strictly smaller than other.
// Unbounded is larger than any finite size and not smaller than itself.
func (s Size) Less(other Size) bool {
	switch {
	case s.IsUnbounded():
		return false
	case other.IsUnbounded():
		return true
	default:
		return s < other
	}
}

// AtLeast reports whether s is greater than or equal to other.
func (s Size) AtLeast(other Size) bool {
	return !s.Less(other)
}

// String renders the size in IEC units, e.g. "128 MiB".
func (s Size) String() string {
	if s.IsUnbounded() {
		return "unlimited"
	}
	return humanize.IBytes(uint64(s))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// leadingInt mimics a permissive integer cast: optional sign, then as many
// digits as present. No digits yields 0. Values saturate instead of wrapping.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			n = math.MaxInt64
			break
		}
		n = n*10 + d
	}
	if negative {
		return -n
	}
	return n
}

func clamp(n int64) Size {
	if n < 0 {
		return 0
	}
	return Size(n)
}
