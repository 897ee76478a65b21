package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l3aro/v2flow/pkg/cfg"
	"github.com/l3aro/v2flow/pkg/emit"
)

// Languages accepted by the language setting. An empty language selects the
// front end from each file's extension.
var Languages = []string{"v2", "go", "c"}

// Config holds all configuration for v2flow
type Config struct {
	// OutDir is where DOT, CSV and document files are written
	OutDir string `yaml:"out_dir" env:"V2FLOW_OUT_DIR"`

	// Format selects the CFG output: dot, json or msgpack
	Format string `yaml:"format" env:"V2FLOW_FORMAT"`

	// Language forces one front end for every input file
	Language string `yaml:"language" env:"V2FLOW_LANGUAGE"`

	// Workers bounds how many files are processed at once
	Workers int `yaml:"workers" env:"V2FLOW_WORKERS"`

	// Lowering limits
	MaxExprDepth  int `yaml:"max_expr_depth" env:"V2FLOW_MAX_EXPR_DEPTH"`
	MaxBlockLines int `yaml:"max_block_lines" env:"V2FLOW_MAX_BLOCK_LINES"`
	MaxLoopDepth  int `yaml:"max_loop_depth" env:"V2FLOW_MAX_LOOP_DEPTH"`

	// CallGraph enables the per-file call graph outputs
	CallGraph bool `yaml:"call_graph" env:"V2FLOW_CALL_GRAPH"`

	// Logging
	Verbose bool `yaml:"verbose" env:"V2FLOW_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	limits := cfg.DefaultLimits()
	return &Config{
		OutDir:        ".",
		Format:        string(emit.FormatDOT),
		Language:      "",
		Workers:       4,
		MaxExprDepth:  limits.MaxExprDepth,
		MaxBlockLines: limits.MaxBlockLines,
		MaxLoopDepth:  limits.MaxLoopDepth,
		CallGraph:     true,
		Verbose:       false,
	}
}

// GlobalConfigFilePath returns the global config file path (~/.v2flow/config.yaml)
func GlobalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".v2flow", "config.yaml")
	}
	return filepath.Join(home, ".v2flow", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.v2flow/config.yaml)
func ProjectConfigFilePath() string {
	return filepath.Join(".v2flow", "config.yaml")
}

// Load reads configuration in layers, each overriding the previous one:
// 1. Defaults
// 2. Global config (~/.v2flow/config.yaml)
// 3. Project-level config (./.v2flow/config.yaml)
// 4. Environment variables
func Load() (*Config, error) {
	c := DefaultConfig()

	for _, path := range []string{GlobalConfigFilePath(), ProjectConfigFilePath()} {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	c := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("V2FLOW_OUT_DIR"); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv("V2FLOW_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("V2FLOW_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("V2FLOW_WORKERS"); v != "" {
		if i := parseInt(v); i > 0 {
			c.Workers = i
		}
	}
	if v := os.Getenv("V2FLOW_MAX_EXPR_DEPTH"); v != "" {
		if i := parseInt(v); i > 0 {
			c.MaxExprDepth = i
		}
	}
	if v := os.Getenv("V2FLOW_MAX_BLOCK_LINES"); v != "" {
		if i := parseInt(v); i > 0 {
			c.MaxBlockLines = i
		}
	}
	if v := os.Getenv("V2FLOW_MAX_LOOP_DEPTH"); v != "" {
		if i := parseInt(v); i > 0 {
			c.MaxLoopDepth = i
		}
	}
	if v := os.Getenv("V2FLOW_CALL_GRAPH"); v != "" {
		c.CallGraph = parseBool(v)
	}
	if v := os.Getenv("V2FLOW_VERBOSE"); v != "" {
		c.Verbose = parseBool(v)
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("out_dir must not be empty")
	}
	if _, err := emit.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Language != "" && !isLanguage(c.Language) {
		return fmt.Errorf("invalid language: %s (must be one of %s)", c.Language, strings.Join(Languages, ", "))
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.MaxExprDepth <= 0 {
		return fmt.Errorf("max_expr_depth must be positive")
	}
	if c.MaxBlockLines <= 0 {
		return fmt.Errorf("max_block_lines must be positive")
	}
	if c.MaxLoopDepth <= 0 {
		return fmt.Errorf("max_loop_depth must be positive")
	}
	return nil
}

// Limits returns the lowering limits of the configuration.
func (c *Config) Limits() cfg.Limits {
	return cfg.Limits{
		MaxExprDepth:  c.MaxExprDepth,
		MaxBlockLines: c.MaxBlockLines,
		MaxLoopDepth:  c.MaxLoopDepth,
	}
}

// OutputFormat returns the parsed Format. Validate has already rejected
// unknown names, so the error is only reachable on unvalidated configs.
func (c *Config) OutputFormat() (emit.Format, error) {
	return emit.ParseFormat(c.Format)
}

func isLanguage(s string) bool {
	for _, l := range Languages {
		if l == s {
			return true
		}
	}
	return false
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}
