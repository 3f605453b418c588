// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vin

// ScanCandidates strips all whitespace from text and returns, in order of
// appearance, every maximal run of VIN-alphabet characters that is exactly
// 17 characters long, upper-cased. Longer runs are not split into windows.
// Repeated tokens are returned as many times as they occur.
func ScanCandidates(text string) []string {
	s := Despace(text)

	var tokens []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && inAlphabet(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start == Length {
			tokens = append(tokens, Normalize(s[start:i]))
		}
		start = -1
	}
	return tokens
}
