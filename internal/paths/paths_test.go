// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
}

func TestGetConfigDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if filepath.Separator == '/' {
		assert.Equal(t, filepath.Join(xdg, AppName), GetConfigDir())
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("report.xlsx"))

	err := ValidatePath("bad\x00name")
	var pve *PathValidationError
	assert.True(t, errors.As(err, &pve))
	assert.Contains(t, err.Error(), "null byte")
}
