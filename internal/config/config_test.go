package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DEBUG_LLM", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
provider:
  name: deepseek
  api_key: sk-from-file
  model: deepseek-chat
debug: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "deepseek", cfg.Provider.Name)
	assert.Equal(t, "sk-from-file", cfg.Provider.APIKey)
	assert.Equal(t, "deepseek-chat", cfg.Provider.Model)
	assert.True(t, cfg.Debug)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	path := writeConfigFile(t, `
provider:
  name: deepseek
  api_key: sk-from-file
`)
	t.Setenv("LLM_PROVIDER", "openrouter")
	t.Setenv("API_KEY", "sk-from-env")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", cfg.Provider.Name)
	assert.Equal(t, "sk-from-env", cfg.Provider.APIKey)
	assert.Equal(t, "sk-fallback", cfg.Provider.FallbackAPIKey)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_CustomProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "custom")
	t.Setenv("CUSTOM_API_BASE_URL", "https://llm.internal/v1")
	t.Setenv("CUSTOM_MODEL_NAME", "llama-3.1-8b")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Provider.Name)
	assert.Equal(t, "https://llm.internal/v1", cfg.Provider.CustomBaseURL)
	assert.Equal(t, "llama-3.1-8b", cfg.Provider.CustomModel)
}

func TestLoad_DebugFlag(t *testing.T) {
	t.Setenv("DEBUG_LLM", "true")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Config{Server: ServerConfig{Port: 0}}
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 3001
	assert.NoError(t, cfg.Validate())
}
