// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration directory.
const AppName = "vin-reconcile"

// ConfigDirEnv overrides the configuration directory.
const ConfigDirEnv = "VIN_RECONCILE_CONFIG_DIR"

// GetConfigDir returns the vin-reconcile configuration directory
// ($XDG_CONFIG_HOME/vin-reconcile on Unix, %APPDATA%\vin-reconcile on Windows).
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+AppName)
}

// GetConfigFile returns the path to the user config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// ValidatePath rejects paths the filesystem cannot hold.
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}
	if len(path) > 32767 {
		return &PathValidationError{Path: path, Reason: "path exceeds maximum length of 32,767 characters"}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
