// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vin

import (
	"regexp"
	"strings"
)

// gap is what PDF extraction may inject between two characters of a VIN
// printed across a line wrap or table cell boundary.
const gap = `\s*`

// Matcher finds one VIN in document text while tolerating whitespace between
// any two of its characters. A Matcher is safe for concurrent use.
type Matcher struct {
	regex *regexp.Regexp
}

// FlexiblePattern returns the case-insensitive pattern that matches v with
// zero or more whitespace characters between consecutive characters. Nothing
// is required before the first or after the last character.
func FlexiblePattern(v string) string {
	var sb strings.Builder
	sb.WriteString("(?i)")
	for i, r := range v {
		if i > 0 {
			sb.WriteString(gap)
		}
		sb.WriteString(regexp.QuoteMeta(string(r)))
	}
	return sb.String()
}

// NewMatcher compiles the flexible pattern for v once so it can be reused
// across many documents.
func NewMatcher(v string) *Matcher {
	m := &Matcher{}
	if v != "" {
		m.regex = regexp.MustCompile(FlexiblePattern(v))
	}
	return m
}

// In reports whether the VIN occurs anywhere in text.
func (m *Matcher) In(text string) bool {
	if m.regex == nil {
		return false
	}
	return m.regex.MatchString(text)
}

// ContainsVIN reports whether v occurs in text, allowing arbitrary whitespace
// between its characters. An empty v never matches.
func ContainsVIN(v, text string) bool {
	return NewMatcher(v).In(text)
}
