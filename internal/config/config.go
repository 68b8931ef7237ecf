// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"ecg-scrub/internal/pdftext"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. The redaction region
// table and the format templates live here rather than in code so alternate
// report layouts can be handled without a rebuild.
type Config struct {
	// Default settings
	Defaults struct {
		Format      string `yaml:"format"`
		Verbose     bool   `yaml:"verbose"`
		Debug       bool   `yaml:"debug"`
		NoColor     bool   `yaml:"no_color"`
		IncludeInfo bool   `yaml:"include_info"`
		OutputDir   string `yaml:"output_dir"`
	} `yaml:"defaults"`

	// Redaction region table and overlay placement
	Redaction struct {
		// Regions are 4-element rows (x1, y1, x2, y2) in reader space.
		// Rows of any other length are ignored.
		Regions [][]float64 `yaml:"regions"`
		Overlay struct {
			X        float64 `yaml:"x"`
			Y        float64 `yaml:"y"`
			FontSize float64 `yaml:"font_size"`
		} `yaml:"overlay"`
	} `yaml:"redaction"`

	// Formats maps a format name to its expected lead-label counts.
	Formats map[string]map[string]int `yaml:"formats"`
}

// Regions returns the configured redaction rectangles, skipping rows that
// are not exactly four numbers.
func (c *Config) Regions() []pdftext.Rect {
	var rects []pdftext.Rect
	for _, row := range c.Redaction.Regions {
		if len(row) != 4 {
			continue
		}
		rects = append(rects, pdftext.Rect{X0: row[0], Y0: row[1], X1: row[2], Y1: row[3]})
	}
	return rects
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Defaults.IncludeInfo = true
	config.Defaults.OutputDir = ""

	// Default redaction region table for the two supported report layouts
	config.Redaction.Regions = [][]float64{
		{39.2821, 7.81606, 95.3558, 107.861},
		{21.7321, 7.99649, 37.7421, 268.27},
		{568.015, 688.962, 584.025, 767.536},
	}
	config.Redaction.Overlay.X = 90
	config.Redaction.Overlay.Y = 784
	config.Redaction.Overlay.FontSize = 10

	// Default lead-label templates. V1 appears twice in both layouts (once
	// in the standard leads, once for the rhythm strip).
	config.Formats = map[string]map[string]int{
		"format1": {
			"I": 1, "II": 1, "III": 1,
			"V1": 2, "V2": 1, "V3": 1, "V4": 1, "V5": 1, "V6": 1,
			"aVR": 1, "aVL": 1, "aVF": 1,
		},
		"format2": {
			"I": 1, "II": 2, "III": 1,
			"V1": 2, "V2": 1, "V3": 1, "V4": 1, "V5": 2, "V6": 1,
			"aVR": 1, "aVL": 1, "aVF": 1,
		},
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore the default if not explicitly set in the config file. YAML
	// unmarshaling zeroes bool fields that are absent from the file.
	if !containsField(data, "defaults", "include_info") {
		config.Defaults.IncludeInfo = true
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize config.yaml
	if fileExists("config.yaml") {
		return "config.yaml"
	}

	// Project-specific config
	if fileExists(".ecg-scrub.yaml") {
		return ".ecg-scrub.yaml"
	}
	if fileExists(".ecg-scrub.yml") {
		return ".ecg-scrub.yml"
	}

	// Explicit override
	if dir := os.Getenv("ECG_SCRUB_CONFIG_DIR"); dir != "" {
		configFile := filepath.Join(dir, "config.yaml")
		if fileExists(configFile) {
			return configFile
		}
	}

	// XDG config directory
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "ecg-scrub", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it returns
// a default configuration. Callers should not crash on a missing/bad config
// file.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	err := yaml.Unmarshal(data, &yamlData)
	if err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		if next, ok := current[key].(map[string]interface{}); ok {
			current = next
		} else {
			return false
		}
	}
	return false
}
