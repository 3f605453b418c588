// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vin

// Plausibility thresholds for tokens pulled out of unstructured document text.
const (
	maxLetterRun    = 5 // a run of 6 or more letters rejects the token
	minWMILetters   = 2
	serialStart     = 6 // last 11 characters
	minSerialDigits = 4
)

// IsPlausible reports whether a raw document token looks enough like a VIN to
// be reported. It is looser than IsWellFormed plus a prefix check and exists
// to drop acronym runs and other incidental 17-character alphanumerics.
func IsPlausible(token string) bool {
	if len(token) != Length {
		return false
	}

	run := 0
	for i := 0; i < len(token); i++ {
		if isUpper(token[i]) {
			run++
			if run > maxLetterRun {
				return false
			}
		} else {
			run = 0
		}
	}

	letters := 0
	for i := 0; i < 3; i++ {
		if isUpper(token[i]) {
			letters++
		}
	}
	if letters < minWMILetters {
		return false
	}

	digits := 0
	for i := serialStart; i < len(token); i++ {
		if token[i] >= '0' && token[i] <= '9' {
			digits++
		}
	}
	return digits >= minSerialDigits
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
