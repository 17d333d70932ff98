// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suppressions hides known non-sensitive values, such as the
// specimen numbers printed on sample cards, from scan results. Rules store
// only hashes of the suppressed values.
package suppressions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"

	"labelscan/internal/detector"
	"labelscan/internal/paths"

	"gopkg.in/yaml.v3"
)

// SuppressionRule represents a single suppression rule
type SuppressionRule struct {
	ID         string     `yaml:"id"`
	Hash       string     `yaml:"hash"`
	EntityType string     `yaml:"entity_type"`
	Path       string     `yaml:"path,omitempty"` // doublestar glob; empty matches every document
	Reason     string     `yaml:"reason"`
	Enabled    bool       `yaml:"enabled"`
	CreatedBy  string     `yaml:"created_by,omitempty"`
	CreatedAt  time.Time  `yaml:"created_at"`
	ExpiresAt  *time.Time `yaml:"expires_at,omitempty"`
}

// Expired reports whether the rule has an expiry in the past.
func (r SuppressionRule) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// SuppressionConfig represents the suppression configuration file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// SuppressionManager handles finding suppressions
type SuppressionManager struct {
	configPath string
	config     *SuppressionConfig
	enabled    bool
	now        func() time.Time
}

// NewSuppressionManager loads rules from configPath, or from the default
// suppressions file when configPath is empty. A missing file yields an empty
// rule set; an unreadable or malformed one is an error.
func NewSuppressionManager(configPath string) (*SuppressionManager, error) {
	if configPath == "" {
		configPath = paths.GetSuppressionsFile()
	}

	manager := &SuppressionManager{
		configPath: configPath,
		config:     &SuppressionConfig{Version: "1.0"},
		enabled:    true,
		now:        time.Now,
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if errors.Is(err, os.ErrNotExist) {
		return manager, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read suppressions: %w", err)
	}
	if err := yaml.Unmarshal(data, manager.config); err != nil {
		return nil, fmt.Errorf("parse suppressions %s: %w", configPath, err)
	}
	return manager, nil
}

// normalizeValue makes hashing insensitive to case, spacing and Unicode
// composition.
func normalizeValue(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(norm.NFKC.String(value)), " "))
}

// matchesPath checks a pattern against the slash form of path and its base
// name.
func matchesPath(pattern, path string) bool {
	slashed := filepath.ToSlash(path)
	if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// FindingHash identifies a value of an entity type independently of the
// document and position it was found at.
func FindingHash(entityType, value string) string {
	valueHash := sha256.Sum256([]byte(normalizeValue(value)))
	sum := sha256.Sum256([]byte(entityType + "|" + fmt.Sprintf("%x", valueHash)))
	return fmt.Sprintf("%x", sum)
}

// IsSuppressed checks if a span found in document path should be suppressed
func (sm *SuppressionManager) IsSuppressed(path string, span detector.Span) (bool, *SuppressionRule) {
	if !sm.enabled || len(sm.config.Rules) == 0 {
		return false, nil
	}

	hash := FindingHash(span.EntityType, span.Text)
	now := sm.now()
	for i := range sm.config.Rules {
		rule := &sm.config.Rules[i]
		if rule.Hash != hash || !rule.Enabled || rule.Expired(now) {
			continue
		}
		if rule.Path != "" && !matchesPath(rule.Path, path) {
			continue
		}
		return true, rule
	}
	return false, nil
}

// Filter returns the spans that are not suppressed and how many were dropped.
func (sm *SuppressionManager) Filter(path string, spans []detector.Span) ([]detector.Span, int) {
	kept := spans[:0:0]
	for _, s := range spans {
		if ok, _ := sm.IsSuppressed(path, s); ok {
			continue
		}
		kept = append(kept, s)
	}
	return kept, len(spans) - len(kept)
}

// AddSuppression adds a rule for value and saves the file. pathGlob is
// matched against the document path and its base name and may be empty. expiresAt nil means the rule never expires.
func (sm *SuppressionManager) AddSuppression(entityType, value, pathGlob, reason, createdBy string, expiresAt *time.Time) (*SuppressionRule, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("suppression value cannot be empty")
	}
	if pathGlob != "" && !doublestar.ValidatePattern(pathGlob) {
		return nil, fmt.Errorf("invalid path pattern %q", pathGlob)
	}

	hash := FindingHash(entityType, value)
	for _, rule := range sm.config.Rules {
		if rule.Hash == hash && rule.Path == pathGlob {
			return nil, fmt.Errorf("suppression rule %s already exists for this value", rule.ID)
		}
	}

	maxID := 0
	for _, existing := range sm.config.Rules {
		var num int
		if _, err := fmt.Sscanf(existing.ID, "SUP-%08d", &num); err == nil && num > maxID {
			maxID = num
		}
	}

	rule := SuppressionRule{
		ID:         fmt.Sprintf("SUP-%08d", maxID+1),
		Hash:       hash,
		EntityType: entityType,
		Path:       pathGlob,
		Reason:     reason,
		Enabled:    true,
		CreatedBy:  createdBy,
		CreatedAt:  sm.now().UTC(),
		ExpiresAt:  expiresAt,
	}
	sm.config.Rules = append(sm.config.Rules, rule)
	if err := sm.saveConfig(); err != nil {
		return nil, err
	}
	return &rule, nil
}

// RemoveSuppression removes a suppression rule by ID
func (sm *SuppressionManager) RemoveSuppression(id string) error {
	for i, rule := range sm.config.Rules {
		if rule.ID == id {
			sm.config.Rules = append(sm.config.Rules[:i], sm.config.Rules[i+1:]...)
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("suppression rule with ID %s not found", id)
}

// ListSuppressions returns all suppression rules
func (sm *SuppressionManager) ListSuppressions() []SuppressionRule {
	return append([]SuppressionRule(nil), sm.config.Rules...)
}

// CleanupExpired removes expired suppression rules
func (sm *SuppressionManager) CleanupExpired() (int, error) {
	now := sm.now()
	active := sm.config.Rules[:0]
	for _, rule := range sm.config.Rules {
		if !rule.Expired(now) {
			active = append(active, rule)
		}
	}
	removed := len(sm.config.Rules) - len(active)
	sm.config.Rules = active

	if removed == 0 {
		return 0, nil
	}
	return removed, sm.saveConfig()
}

func (sm *SuppressionManager) saveConfig() error {
	data, err := yaml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("failed to marshal suppression config: %w", err)
	}

	if dir := filepath.Dir(sm.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(sm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	return nil
}

// SetEnabled turns matching on or off without touching the rules.
func (sm *SuppressionManager) SetEnabled(enabled bool) {
	sm.enabled = enabled
}

// IsEnabled returns whether suppression is enabled
func (sm *SuppressionManager) IsEnabled() bool {
	return sm.enabled
}

// GetConfigPath returns the configuration file path
func (sm *SuppressionManager) GetConfigPath() string {
	return sm.configPath
}
