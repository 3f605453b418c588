// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "1.2.3"

	assert.Equal(t, "1.2.3", Short())
	assert.True(t, strings.HasPrefix(Info(), "vin-reconcile 1.2.3 (commit: "))
	assert.Contains(t, Info(), Platform)
}
