// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
	if !cfg.Defaults.IncludeInfo {
		t.Error("expected include_info=true by default")
	}
	if len(cfg.Regions()) != 3 {
		t.Errorf("expected 3 default regions, got %d", len(cfg.Regions()))
	}
	if len(cfg.Formats) != 2 {
		t.Errorf("expected 2 default formats, got %d", len(cfg.Formats))
	}
	if cfg.Formats["format1"]["V1"] != 2 {
		t.Error("expected V1=2 in format1")
	}
	if cfg.Formats["format2"]["II"] != 2 {
		t.Error("expected II=2 in format2")
	}
}

func TestLoadConfig_RegionsSkipMalformedRows(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
redaction:
  regions:
    - [1, 2, 3, 4]
    - [1, 2, 3]
    - [5, 6, 7, 8, 9]
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regions := cfg.Regions()
	if len(regions) != 1 {
		t.Fatalf("expected 1 valid region, got %d", len(regions))
	}
	if regions[0].X1 != 3 || regions[0].Y1 != 4 {
		t.Errorf("unexpected region: %+v", regions[0])
	}
}

func TestLoadConfig_IncludeInfoDefaultSurvivesPartialFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
defaults:
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("expected format=json, got %q", cfg.Defaults.Format)
	}
	if !cfg.Defaults.IncludeInfo {
		t.Error("include_info default must survive a file that does not mention it")
	}
}

func TestLoadConfig_ExplicitIncludeInfoFalse(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
defaults:
  include_info: false
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.IncludeInfo {
		t.Error("explicit include_info=false must be honored")
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
	if len(cfg.Regions()) != 3 {
		t.Error("fallback config should carry the default region table")
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(configPath, []byte(":::invalid yaml:::"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := LoadConfigOrDefault(configPath)
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_FormatOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
formats:
  custom:
    I: 1
    II: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfg.Formats["custom"]; !ok {
		t.Fatal("expected custom format to be loaded")
	}
	if cfg.Formats["custom"]["II"] != 3 {
		t.Errorf("expected II=3 in custom format, got %d", cfg.Formats["custom"]["II"])
	}
}
