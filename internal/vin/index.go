// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package vin

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Index searches a document for many VINs in one pass. Removing all
// whitespace from the text and looking for contiguous occurrences accepts
// exactly what the flexible pattern accepts, so Index and Matcher agree.
type Index struct {
	vins    []string
	matcher *ahocorasick.Matcher
}

// NewIndex builds an Aho-Corasick automaton over vins. The slice order is the
// order Find reports hits in.
func NewIndex(vins []string) *Index {
	dict := make([]string, len(vins))
	for i, v := range vins {
		dict[i] = strings.ToUpper(v)
	}
	return &Index{
		vins:    append([]string(nil), vins...),
		matcher: ahocorasick.NewStringMatcher(dict),
	}
}

// Find returns the indexed VINs present in text, in index order.
func (x *Index) Find(text string) []string {
	if len(x.vins) == 0 || text == "" {
		return nil
	}

	hits := x.matcher.MatchThreadSafe([]byte(strings.ToUpper(Despace(text))))
	if len(hits) == 0 {
		return nil
	}

	seen := make([]bool, len(x.vins))
	for _, h := range hits {
		seen[h] = true
	}

	found := make([]string, 0, len(hits))
	for i, ok := range seen {
		if ok {
			found = append(found, x.vins[i])
		}
	}
	return found
}
