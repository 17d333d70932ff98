// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"labelscan/internal/paths"
	"labelscan/internal/position"
	"labelscan/internal/structured"
	"labelscan/internal/taxonomy"
	"labelscan/internal/values"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Defaults   Defaults           `yaml:"defaults"`
	Extraction Extraction         `yaml:"extraction"`
	Profiles   map[string]Profile `yaml:"profiles" validate:"dive"`
}

// Defaults holds output and runtime settings for the CLI.
type Defaults struct {
	Format   string `yaml:"format"`
	ShowText bool   `yaml:"show_text"`
	NoColor  bool   `yaml:"no_color"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level" validate:"omitempty,loglevel"`
	LogJSON  bool   `yaml:"log_json"`
	Workers  int    `yaml:"workers" validate:"gte=0"` // 0 means one per CPU
}

// Extraction tunes the structured extractor.
type Extraction struct {
	MaxValueLength int      `yaml:"max_value_length" validate:"gt=0"`
	AlignLookahead int      `yaml:"align_lookahead" validate:"gt=0"`
	Types          []string `yaml:"types"` // entity type names; empty means all
}

// Profile is a named override set. Zero fields leave the base value alone.
type Profile struct {
	Description    string   `yaml:"description"`
	Format         string   `yaml:"format"`
	ShowText       bool     `yaml:"show_text"`
	Types          []string `yaml:"types"`
	MaxValueLength int      `yaml:"max_value_length" validate:"gte=0"`
	Workers        int      `yaml:"workers" validate:"gte=0"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return validLogLevels[strings.ToLower(fl.Field().String())]
	})
	return v
}

// validationError turns the first struct validation failure into a message
// naming the YAML key, e.g. "extraction.max_value_length".
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "gt":
		return fmt.Errorf("%s must be greater than %s, got %v", key, fe.Param(), fe.Value())
	case "gte":
		return fmt.Errorf("%s cannot be less than %s, got %v", key, fe.Param(), fe.Value())
	case "loglevel":
		return fmt.Errorf("%s %q is not one of debug, info, warn, error", key, fe.Value())
	}
	return fmt.Errorf("%s failed %s validation", key, fe.Tag())
}

// Default returns the built-in configuration.
func Default() *Config {
	config := &Config{
		Defaults: Defaults{
			Format:   "text",
			LogLevel: "info",
		},
		Extraction: Extraction{
			MaxValueLength: values.DefaultMaxLength,
			AlignLookahead: position.DefaultLookahead,
		},
		Profiles: make(map[string]Profile),
	}

	config.Profiles["id-card"] = Profile{
		Description: "Driver's licenses and state ID cards",
		Types: []string{
			"NAME", "DATE_DOB", "DATE", "DRIVER_LICENSE", "DOCUMENT_ID",
			"ADDRESS", "ZIP", "PHYSICAL_DESC",
		},
	}
	config.Profiles["insurance"] = Profile{
		Description: "Health insurance and Medicare cards",
		Types: []string{
			"NAME", "NAME_PATIENT", "DATE_DOB", "HEALTH_PLAN_ID", "MEDICARE_ID",
			"ACCOUNT_NUMBER", "ID_NUMBER", "PHONE",
		},
	}

	return config
}

// LoadConfig loads configuration from the specified file path. An empty path
// returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath == "" {
		return config, nil
	}

	if err := paths.ValidatePath(configPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Fields absent from the file keep their defaults.
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

// FindConfigFile looks for a configuration file in the working directory and
// then in the labelscan config directory. It returns "" when none exists.
func FindConfigFile() string {
	for _, name := range []string{"labelscan.yaml", "labelscan.yml", ".labelscan.yaml", ".labelscan.yml"} {
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

// LoadConfigOrDefault loads configFile, or the file FindConfigFile reports
// when configFile is empty. Any failure yields the defaults plus the error so
// the caller can log it.
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

// ValidateConfig checks value ranges and entity type names.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := validate.Struct(config); err != nil {
		return validationError(err)
	}
	if _, err := ParseTypes(config.Extraction.Types); err != nil {
		return fmt.Errorf("extraction.types: %w", err)
	}

	for name, profile := range config.Profiles {
		if _, err := ParseTypes(profile.Types); err != nil {
			return fmt.Errorf("profile '%s': %w", name, err)
		}
	}

	return nil
}

// ListProfiles returns the available profile names in sorted order.
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile merges the named profile's non-zero fields into c.
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}

	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.ShowText {
		c.Defaults.ShowText = true
	}
	if profile.Workers > 0 {
		c.Defaults.Workers = profile.Workers
	}
	if profile.MaxValueLength > 0 {
		c.Extraction.MaxValueLength = profile.MaxValueLength
	}
	if len(profile.Types) > 0 {
		c.Extraction.Types = append([]string(nil), profile.Types...)
	}
	return nil
}

// ExtractionOptions converts the extraction section into extractor options.
// Logger and Observer are left for the caller.
func (c *Config) ExtractionOptions() (structured.Options, error) {
	types, err := ParseTypes(c.Extraction.Types)
	if err != nil {
		return structured.Options{}, err
	}
	return structured.Options{
		MaxValueLength: c.Extraction.MaxValueLength,
		AlignLookahead: c.Extraction.AlignLookahead,
		Types:          types,
	}, nil
}

// ParseTypes parses entity type names, ignoring blanks. Names are
// case-insensitive.
func ParseTypes(names []string) ([]taxonomy.EntityType, error) {
	var out []taxonomy.EntityType
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		t, err := taxonomy.ParseEntityType(name)
		if err != nil {
			return nil, err
		}
		if !t.Sensitive() {
			return nil, fmt.Errorf("entity type %q is never emitted", name)
		}
		out = append(out, t)
	}
	return out, nil
}
