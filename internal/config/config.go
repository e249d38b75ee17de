// Package config provides configuration loading and validation for the feedback service.
// Values come from defaults, an optional YAML file, then environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/devlog-feedback/internal/llm"
	"github.com/jonathan/devlog-feedback/internal/logger"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	EnvLLMBaseURL = "LLM_BASE_URL"
	EnvLLMAPIKey  = "LLM_API_KEY"
	EnvLLMModel   = "LLM_MODEL"
	EnvLLMTimeout = "LLM_TIMEOUT"
	EnvPort       = "PORT"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
)

// Config is the full service configuration
type Config struct {
	Server  Server  `yaml:"server"`
	LLM     LLM     `yaml:"llm"`
	Logging Logging `yaml:"logging"`
}

// Server holds HTTP listener settings
type Server struct {
	Port int `yaml:"port"`
}

// LLM holds the live model-client settings. Leaving any of base_url, api_key
// or model empty selects the stub client.
type LLM struct {
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

// Duration is a timeout written either as a Go duration ("20s", "1m") or a bare number of seconds
type Duration time.Duration

// UnmarshalYAML accepts the same forms as the LLM_TIMEOUT environment variable
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timeout must be a scalar", value.Line)
	}
	parsed, err := parseTimeout(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid timeout %q: %w", value.Line, value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Logging holds logger settings
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		Server:  Server{Port: 8080},
		LLM:     LLM{Timeout: Duration(llm.DefaultTimeout)},
		Logging: Logging{Level: "info", Format: logger.FormatText},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return parse(data)
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration: defaults, then the YAML file at path
// when path is non-empty, then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields with non-empty environment values returned by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLLMBaseURL); ok {
		c.LLM.BaseURL = v
	}
	if v, ok := get(EnvLLMAPIKey); ok {
		c.LLM.APIKey = v
	}
	if v, ok := get(EnvLLMModel); ok {
		c.LLM.Model = v
	}
	if v, ok := get(EnvLLMTimeout); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvLLMTimeout, err)
		}
		c.LLM.Timeout = Duration(d)
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	return nil
}

// parseTimeout accepts a Go duration ("20s", "1m") or a bare number of seconds
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config error: 'logging.level': %w", err)
	}
	if c.Logging.Format != logger.FormatText && c.Logging.Format != logger.FormatJSON {
		return fmt.Errorf("config error: 'logging.format' must be %q or %q", logger.FormatText, logger.FormatJSON)
	}
	return nil
}

// LLMConfig returns the explicit configuration handed to llm.NewClient
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		BaseURL: c.LLM.BaseURL,
		APIKey:  c.LLM.APIKey,
		Model:   c.LLM.Model,
		Timeout: time.Duration(c.LLM.Timeout),
	}
}
