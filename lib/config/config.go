// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/paramcron/lib/cron"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "PARAMCRON_CONFIG"

// Output formats accepted by the output setting.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputCBOR = "cbor"
)

// Outputs lists the accepted output formats.
var Outputs = []string{OutputText, OutputJSON, OutputCBOR}

// Config is the paramcron CLI configuration.
type Config struct {
	// Timezone is the zone for specifications without a "TZ=" line.
	// Empty means the system's local zone.
	Timezone string `yaml:"timezone"`

	// Locale is the BCP 47 tag that selects the message catalog.
	// Default: en
	Locale string `yaml:"locale"`

	// Catalogs are YAML message catalog files loaded in addition to
	// the built-in English one.
	Catalogs []string `yaml:"catalogs"`

	// JobsFile is the JSONC job definitions file used when --jobs is
	// not given.
	JobsFile string `yaml:"jobs_file"`

	// Output is the default output format: text, json or cbor.
	// Default: text
	Output string `yaml:"output"`

	// Strict makes check fail on warnings as well as errors.
	Strict bool `yaml:"strict"`
}

// Default returns the default configuration. It is the base the config
// file is loaded over, and the whole configuration when no file is
// given.
func Default() *Config {
	return &Config{
		Locale: "en",
		Output: OutputText,
	}
}

// Load loads configuration from the file named by PARAMCRON_CONFIG.
// It fails when the variable is not set; there is no discovery.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your paramcron.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The only
// expansion performed is ${HOME} and similar variables in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// Resolve loads the file named by path, else by PARAMCRON_CONFIG, else
// returns Default.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	return Default(), nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.JobsFile = expandVars(c.JobsFile, vars)
	for index, catalog := range c.Catalogs {
		c.Catalogs[index] = expandVars(catalog, vars)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Timezone != "" && !cron.ValidTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("timezone: unknown zone %q", c.Timezone))
	}

	if c.Locale == "" {
		errs = append(errs, fmt.Errorf("locale is required"))
	} else if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}

	if !slices.Contains(Outputs, c.Output) {
		errs = append(errs, fmt.Errorf("output must be one of: %v", Outputs))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Location returns the configured default zone, or nil when none is
// set.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}
	return cron.LoadTimezone(c.Timezone)
}
