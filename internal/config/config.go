// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"vin-reconcile/internal/paths"
	"vin-reconcile/internal/policy"
	"vin-reconcile/internal/reconcile"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file's defaults.
const (
	EnvPolicy   = "VIN_RECONCILE_POLICY"
	EnvPrefixes = "VIN_RECONCILE_PREFIXES"
	EnvFormat   = "VIN_RECONCILE_FORMAT"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format            string `yaml:"format"`
		Policy            string `yaml:"policy"`
		Prefixes          string `yaml:"prefixes"`
		DocumentOnlyCheck string `yaml:"document_only_check"`
		Matcher           string `yaml:"matcher"`
		Workers           int    `yaml:"workers"`
		Suggest           bool   `yaml:"suggest"`
		Recursive         bool   `yaml:"recursive"`
		Verbose           bool   `yaml:"verbose"`
		Debug             bool   `yaml:"debug"`
		NoColor           bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Reference table layout
	Reference struct {
		Sheet     string `yaml:"sheet"`
		VINColumn int    `yaml:"vin_column"`
	} `yaml:"reference"`

	// PDF extraction settings
	Documents struct {
		ValidatePDF bool `yaml:"validate_pdf"`
		MaxPages    int  `yaml:"max_pages"`
	} `yaml:"documents"`

	// Profiles for different reconciliation scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a named set of settings layered over the defaults.
// Empty strings and zero numbers leave the default in place; booleans can
// only switch a feature on.
type Profile struct {
	Format            string `yaml:"format"`
	Policy            string `yaml:"policy"`
	Prefixes          string `yaml:"prefixes"`
	DocumentOnlyCheck string `yaml:"document_only_check"`
	Matcher           string `yaml:"matcher"`
	Workers           int    `yaml:"workers"`
	Suggest           bool   `yaml:"suggest"`
	Recursive         bool   `yaml:"recursive"`
	Verbose           bool   `yaml:"verbose"`
	Debug             bool   `yaml:"debug"`
	NoColor           bool   `yaml:"no_color"`
	Description       string `yaml:"description"`
}

// Default returns the built-in configuration.
func Default() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.Policy = string(policy.LearnedPrefix)
	config.Defaults.DocumentOnlyCheck = string(reconcile.CheckValidator)
	config.Defaults.Matcher = string(reconcile.MatchRegex)

	config.Reference.VINColumn = reconcile.DefaultVINColumn
	config.Documents.ValidatePDF = false

	config.Profiles["explore"] = Profile{
		DocumentOnlyCheck: string(reconcile.CheckPlausibility),
		Suggest:           true,
		Verbose:           true,
		Description:       "Looser document scan that also reports likely VIN typos",
	}
	config.Profiles["batch"] = Profile{
		Format:      "xlsx",
		Matcher:     string(reconcile.MatchIndexed),
		NoColor:     true,
		Description: "Large document sets: indexed matching and an Excel report",
	}

	return config
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads configFile, or the first file FindConfigFile
// locates, and falls back to the defaults when that fails. The returned
// config is always usable; a non-nil error says why the defaults were used.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// FindConfigFile looks for a config file in the working directory, then in
// the user configuration directory.
func FindConfigFile() string {
	for _, name := range []string{"vin-reconcile.yaml", "vin-reconcile.yml", ".vin-reconcile.yaml", ".vin-reconcile.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if standard := paths.GetConfigFile(); fileExists(standard) {
		return standard
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// LoadEnv reads KEY=value pairs from envFile into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", envFile, err)
	}
	return nil
}

// ApplyEnv overrides the effective settings with the VIN_RECONCILE_*
// variables that are set. It runs after the profile has been layered on.
func (p *Profile) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvPolicy); ok && v != "" {
		p.Policy = v
	}
	if v, ok := os.LookupEnv(EnvPrefixes); ok && v != "" {
		p.Prefixes = v
	}
	if v, ok := os.LookupEnv(EnvFormat); ok && v != "" {
		p.Format = v
	}
	return validateSettings("environment", p.Policy, p.Prefixes, p.DocumentOnlyCheck, p.Matcher, p.Workers)
}

// ListProfiles returns the profile names, sorted.
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a specific profile by name
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// Effective returns the defaults with the named profile layered on top.
// An empty name returns the defaults alone.
func (c *Config) Effective(profile string) (Profile, error) {
	d := c.Defaults
	eff := Profile{
		Format:            d.Format,
		Policy:            d.Policy,
		Prefixes:          d.Prefixes,
		DocumentOnlyCheck: d.DocumentOnlyCheck,
		Matcher:           d.Matcher,
		Workers:           d.Workers,
		Suggest:           d.Suggest,
		Recursive:         d.Recursive,
		Verbose:           d.Verbose,
		Debug:             d.Debug,
		NoColor:           d.NoColor,
	}
	if profile == "" {
		return eff, nil
	}

	p := c.GetProfile(profile)
	if p == nil {
		return Profile{}, fmt.Errorf("profile %q not found (available: %v)", profile, c.ListProfiles())
	}
	eff.Description = p.Description
	if p.Format != "" {
		eff.Format = p.Format
	}
	if p.Policy != "" {
		eff.Policy = p.Policy
	}
	if p.Prefixes != "" {
		eff.Prefixes = p.Prefixes
	}
	if p.DocumentOnlyCheck != "" {
		eff.DocumentOnlyCheck = p.DocumentOnlyCheck
	}
	if p.Matcher != "" {
		eff.Matcher = p.Matcher
	}
	if p.Workers != 0 {
		eff.Workers = p.Workers
	}
	eff.Suggest = eff.Suggest || p.Suggest
	eff.Recursive = eff.Recursive || p.Recursive
	eff.Verbose = eff.Verbose || p.Verbose
	eff.Debug = eff.Debug || p.Debug
	eff.NoColor = eff.NoColor || p.NoColor
	return eff, nil
}

// ValidateConfig checks every setting that has a closed set of values.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	d := config.Defaults
	if err := validateSettings("defaults", d.Policy, d.Prefixes, d.DocumentOnlyCheck, d.Matcher, d.Workers); err != nil {
		return err
	}
	if config.Reference.VINColumn < 0 {
		return fmt.Errorf("reference.vin_column must not be negative")
	}
	if config.Documents.MaxPages < 0 {
		return fmt.Errorf("documents.max_pages must not be negative")
	}

	for _, name := range config.ListProfiles() {
		p := config.Profiles[name]
		kind, prefixes := p.Policy, p.Prefixes
		if kind == "" {
			kind = d.Policy
		}
		if prefixes == "" {
			prefixes = d.Prefixes
		}
		if err := validateSettings("profile "+name, kind, prefixes, p.DocumentOnlyCheck, p.Matcher, p.Workers); err != nil {
			return err
		}
	}
	return nil
}

func validateSettings(scope, kind, prefixes, docCheck, matcher string, workers int) error {
	if _, err := policy.Parse(kind, prefixes); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}
	if _, err := reconcile.ParseDocumentOnlyCheck(docCheck); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}
	if _, err := reconcile.ParseMatchStrategy(matcher); err != nil {
		return fmt.Errorf("%s: %w", scope, err)
	}
	if workers < 0 {
		return fmt.Errorf("%s: workers must not be negative", scope)
	}
	return nil
}
