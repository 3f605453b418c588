// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package policy decides which well-formed VINs are accepted, based on their
// World Manufacturer Identifier (WMI) prefix.
package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"vin-reconcile/internal/vin"
)

// Kind selects how the prefix set of a run is obtained.
type Kind string

const (
	// FormatOnly accepts every well-formed VIN.
	FormatOnly Kind = "format"
	// LearnedPrefix accepts well-formed VINs whose WMI occurs among the
	// run's own well-formed reference VINs.
	LearnedPrefix Kind = "learned"
	// FixedPrefixList accepts well-formed VINs whose WMI is in a configured list.
	FixedPrefixList Kind = "fixed"
)

// ErrEmptyPrefixSet signals that learned mode found no reference VINs to
// learn from and fell back to format-only validation.
var ErrEmptyPrefixSet = errors.New("no reference VINs to learn prefixes from; falling back to format-only validation")

// Policy is the validation strategy of one reconciliation run.
type Policy struct {
	Kind     Kind
	Prefixes PrefixSet // only used by FixedPrefixList
}

// Format returns the format-only policy.
func Format() Policy {
	return Policy{Kind: FormatOnly}
}

// Learned returns the learned-prefix policy.
func Learned() Policy {
	return Policy{Kind: LearnedPrefix}
}

// Fixed returns an allow-list policy over prefixes.
func Fixed(prefixes PrefixSet) Policy {
	return Policy{Kind: FixedPrefixList, Prefixes: prefixes}
}

// Parse builds a Policy from its configuration name and, for the fixed kind,
// a comma separated prefix list.
func Parse(kind, prefixes string) (Policy, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", FormatOnly:
		return Format(), nil
	case LearnedPrefix:
		return Learned(), nil
	case FixedPrefixList:
		set, err := ParsePrefixList(prefixes)
		if err != nil {
			return Policy{}, err
		}
		if set.Len() == 0 {
			return Policy{}, fmt.Errorf("policy %q requires at least one prefix", FixedPrefixList)
		}
		return Fixed(set), nil
	default:
		return Policy{}, fmt.Errorf("unknown validation policy %q (want %s, %s or %s)", kind, FormatOnly, LearnedPrefix, FixedPrefixList)
	}
}

func (p Policy) String() string {
	if p.Kind == FixedPrefixList {
		return fmt.Sprintf("%s[%s]", p.Kind, strings.Join(p.Prefixes.Sorted(), ","))
	}
	if p.Kind == "" {
		return string(FormatOnly)
	}
	return string(p.Kind)
}

// Validator builds the validator for one run. reference holds the run's
// normalized reference cells; only the learned kind looks at it. The
// returned error is ErrEmptyPrefixSet when learned mode degraded to
// format-only checking and is meant as a warning.
func (p Policy) Validator(reference []string) (Validator, error) {
	switch p.Kind {
	case LearnedPrefix:
		set := LearnPrefixes(reference)
		if set.Len() == 0 {
			return Validator{}, ErrEmptyPrefixSet
		}
		return Validator{prefixes: set}, nil
	case FixedPrefixList:
		return Validator{prefixes: p.Prefixes}, nil
	default:
		return Validator{}, nil
	}
}

// Validator checks VINs against format and an optional prefix set. The zero
// value validates format only.
type Validator struct {
	prefixes PrefixSet
}

// Prefixes returns the set this validator applies.
func (v Validator) Prefixes() PrefixSet {
	return v.prefixes
}

// IsValid reports whether s is well-formed and, when a prefix set is
// present, starts with one of its prefixes.
func (v Validator) IsValid(s string) bool {
	if !vin.IsWellFormed(s) {
		return false
	}
	return v.prefixes.Len() == 0 || v.prefixes.Contains(vin.WMI(s))
}

// PrefixSet is an immutable set of 3-character WMI codes.
type PrefixSet struct {
	codes map[string]struct{}
}

// NewPrefixSet returns a set of the given codes, normalized.
func NewPrefixSet(codes ...string) PrefixSet {
	set := PrefixSet{codes: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		if c = vin.Normalize(c); c != "" {
			set.codes[c] = struct{}{}
		}
	}
	return set
}

// LearnPrefixes collects the WMI of every well-formed VIN in vins. Entries
// that are not well-formed are ignored.
func LearnPrefixes(vins []string) PrefixSet {
	set := PrefixSet{codes: make(map[string]struct{})}
	for _, v := range vins {
		if vin.IsWellFormed(v) {
			set.codes[vin.WMI(v)] = struct{}{}
		}
	}
	return set
}

// ParsePrefixList parses a comma or whitespace separated list of WMI codes.
func ParsePrefixList(list string) (PrefixSet, error) {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	for _, f := range fields {
		code := vin.Normalize(f)
		if len(code) != 3 || !vin.IsWellFormed(code+"00000000000000") {
			return PrefixSet{}, fmt.Errorf("invalid WMI prefix %q: want 3 characters of the VIN alphabet", f)
		}
	}
	return NewPrefixSet(fields...), nil
}

// Len returns the number of prefixes.
func (s PrefixSet) Len() int {
	return len(s.codes)
}

// Contains reports whether code is in the set.
func (s PrefixSet) Contains(code string) bool {
	_, ok := s.codes[code]
	return ok
}

// Sorted returns the prefixes in ascending order.
func (s PrefixSet) Sorted() []string {
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
