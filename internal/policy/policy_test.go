// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnPrefixes(t *testing.T) {
	set := LearnPrefixes([]string{"9G5AB12345678901C", "9G6XY98765432109D", "BADVIN123", ""})
	assert.Equal(t, []string{"9G5", "9G6"}, set.Sorted())
}

func TestLearnedValidator(t *testing.T) {
	v, err := Learned().Validator([]string{"9G5AB12345678901C", "9G6XY98765432109D"})
	require.NoError(t, err)

	assert.True(t, v.IsValid("9G5ZZ00000000000A"))
	assert.False(t, v.IsValid("ZZZAB12345678901C"))
	assert.False(t, v.IsValid("9G5AB1234"), "prefix alone is not enough")
}

func TestLearnedValidatorWithoutReferenceFallsBack(t *testing.T) {
	v, err := Learned().Validator([]string{"SHORT", ""})
	require.True(t, errors.Is(err, ErrEmptyPrefixSet))

	assert.Equal(t, 0, v.Prefixes().Len())
	assert.True(t, v.IsValid("ZZZAB12345678901C"), "format-only after fallback")
	assert.False(t, v.IsValid("ZZZ"))
}

func TestFixedValidator(t *testing.T) {
	set, err := ParsePrefixList("9G5, 9g6;1HG")
	require.NoError(t, err)

	v, err := Fixed(set).Validator([]string{"ZZZAB12345678901C"})
	require.NoError(t, err)

	assert.True(t, v.IsValid("1HGCM82633A123456"))
	assert.False(t, v.IsValid("ZZZAB12345678901C"), "reference content does not widen a fixed list")
}

func TestFormatOnlyValidator(t *testing.T) {
	v, err := Format().Validator(nil)
	require.NoError(t, err)
	assert.True(t, v.IsValid("ZZZAB12345678901C"))
	assert.False(t, v.IsValid("ZZZAB12345678901O"))
}

func TestValidatorsDoNotShareState(t *testing.T) {
	first, err := Learned().Validator([]string{"9G5AB12345678901C"})
	require.NoError(t, err)
	second, err := Learned().Validator([]string{"1HGCM82633A123456"})
	require.NoError(t, err)

	assert.True(t, first.IsValid("9G5AB12345678901C"))
	assert.False(t, first.IsValid("1HGCM82633A123456"))
	assert.True(t, second.IsValid("1HGCM82633A123456"))
	assert.False(t, second.IsValid("9G5AB12345678901C"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		prefixes string
		want     string
		wantErr  bool
	}{
		{"default", "", "", "format", false},
		{"format", "format", "", "format", false},
		{"learned", "Learned", "", "learned", false},
		{"fixed", "fixed", "9g6,9G5", "fixed[9G5,9G6]", false},
		{"fixed without prefixes", "fixed", "", "", true},
		{"bad prefix", "fixed", "9G", "", true},
		{"forbidden letter", "fixed", "9GO", "", true},
		{"unknown", "strict", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.kind, tt.prefixes)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}
