// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package vin holds the string-level VIN primitives: normalization, format
// validation, the plausibility heuristic for raw document tokens, the
// whitespace-tolerant matcher and the candidate scanner.
package vin

import (
	"fmt"
	"strings"
)

// Length is the number of characters in a VIN.
const Length = 17

// stripper removes the characters that spreadsheet cells and copy/paste
// commonly inject into a VIN.
var stripper = strings.NewReplacer(" ", "", "\r", "", "\n", "", "\t", "")

// Normalize canonicalizes raw text into a comparable VIN token. It removes
// spaces, carriage returns, line feeds and tabs and upper-cases the rest.
// It never fails; garbage in yields garbage out for the validators to reject.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.ToUpper(stripper.Replace(raw))
}

// NormalizeCell normalizes an untyped spreadsheet cell value. Nil yields "".
func NormalizeCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return Normalize(v)
	case fmt.Stringer:
		return Normalize(v.String())
	default:
		return Normalize(fmt.Sprint(v))
	}
}

// NormalizeDocumentText collapses every whitespace run to a single space and
// upper-cases the result. Document text must pass through here before it is
// handed to ContainsVIN or ScanCandidates.
func NormalizeDocumentText(text string) string {
	return strings.ToUpper(strings.Join(strings.Fields(text), " "))
}

// Despace removes all whitespace from text.
func Despace(text string) string {
	return strings.Join(strings.Fields(text), "")
}
