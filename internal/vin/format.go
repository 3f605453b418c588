// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vin

import "regexp"

// Alphabet is the character class of a VIN: digits and upper-case letters
// without I, O and Q.
const Alphabet = `A-HJ-NPR-Z0-9`

var wellFormed = regexp.MustCompile(`^[` + Alphabet + `]{17}$`)

// IsWellFormed reports whether v is exactly 17 characters of the VIN alphabet.
// It is a full-string match; v is expected to be normalized already.
func IsWellFormed(v string) bool {
	return len(v) == Length && wellFormed.MatchString(v)
}

// WMI returns the World Manufacturer Identifier (first three characters) of v,
// or "" when v is shorter than three characters.
func WMI(v string) string {
	if len(v) < 3 {
		return ""
	}
	return v[:3]
}

func inAlphabet(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return c != 'I' && c != 'O' && c != 'Q'
	case c >= 'a' && c <= 'z':
		return c != 'i' && c != 'o' && c != 'q'
	}
	return false
}
