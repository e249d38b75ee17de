package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, Duration(20*time.Second), cfg.LLM.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.LLMConfig().IsLive())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
server:
  port: 9090
llm:
  base_url: https://llm.example.com
  api_key: sk-file
  model: gpt-4o-mini
  timeout: 45s
logging:
  format: json
`

	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://llm.example.com", cfg.LLM.BaseURL)
	assert.Equal(t, Duration(45*time.Second), cfg.LLM.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Unset values keep their defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.LLMConfig().IsLive())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(tmpFile, []byte("server: [unclosed"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.LLM.Model = "from-file"

	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvLLMBaseURL: "http://localhost:11434",
		EnvLLMAPIKey:  "sk-env",
		EnvLLMModel:   "",
		EnvLLMTimeout: "7.5",
		EnvPort:       "3000",
		EnvLogLevel:   "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, "from-file", cfg.LLM.Model, "empty env values must not override")
	assert.Equal(t, Duration(7500*time.Millisecond), cfg.LLM.Timeout)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnv_Errors(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{name: "bad timeout", env: map[string]string{EnvLLMTimeout: "soon"}, errMsg: EnvLLMTimeout},
		{name: "bad port", env: map[string]string{EnvPort: "eighty"}, errMsg: EnvPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseTimeout(t *testing.T) {
	d, err := parseTimeout("1m")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	d, err = parseTimeout("20")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, d)
}

func TestParse_TimeoutForms(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    time.Duration
		wantErr bool
	}{
		{name: "bare seconds", yaml: "llm:\n  timeout: 20\n", want: 20 * time.Second},
		{name: "fractional seconds", yaml: "llm:\n  timeout: 7.5\n", want: 7500 * time.Millisecond},
		{name: "quoted seconds", yaml: "llm:\n  timeout: \"30\"\n", want: 30 * time.Second},
		{name: "go duration", yaml: "llm:\n  timeout: 1m\n", want: time.Minute},
		{name: "not a duration", yaml: "llm:\n  timeout: soon\n", wantErr: true},
		{name: "not a scalar", yaml: "llm:\n  timeout: [20]\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parse([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "timeout")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Duration(tt.want), cfg.LLM.Timeout)
			assert.Equal(t, tt.want, cfg.LLMConfig().Timeout)
		})
	}
}

func TestTimeout_FileAndEnvAgree(t *testing.T) {
	fromFile, err := parse([]byte("llm:\n  timeout: 20\n"))
	require.NoError(t, err)

	fromEnv := Default()
	require.NoError(t, fromEnv.ApplyEnv(envMap(map[string]string{EnvLLMTimeout: "20"})))

	assert.Equal(t, fromEnv.LLM.Timeout, fromFile.LLM.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "negative port", mutate: func(c *Config) { c.Server.Port = -1 }, errMsg: "server.port"},
		{name: "zero timeout", mutate: func(c *Config) { c.LLM.Timeout = 0 }, errMsg: "llm.timeout"},
		{name: "unknown level", mutate: func(c *Config) { c.Logging.Level = "chatty" }, errMsg: "logging.level"},
		{name: "unknown format", mutate: func(c *Config) { c.Logging.Format = "xml" }, errMsg: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("llm:\n  model: file-model\n"), 0644))

	t.Setenv(EnvLLMModel, "env-model")
	t.Setenv(EnvLLMBaseURL, "")

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.LLM.Model)
	assert.Equal(t, "", cfg.LLM.BaseURL)
}

func TestLLMConfig(t *testing.T) {
	cfg := Default()
	cfg.LLM = LLM{BaseURL: "b", APIKey: "k", Model: "m", Timeout: Duration(time.Second)}

	lc := cfg.LLMConfig()
	assert.Equal(t, "b", lc.BaseURL)
	assert.Equal(t, "k", lc.APIKey)
	assert.Equal(t, "m", lc.Model)
	assert.Equal(t, time.Second, lc.Timeout)
	assert.True(t, lc.IsLive())
}
