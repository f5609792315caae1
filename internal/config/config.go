package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultPort = 3001

// Config represents the application configuration. Values may come from an
// optional YAML file with environment variables layered on top; the
// environment always wins.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Debug    bool           `yaml:"debug"`
}

// ServerConfig defines listener configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ProviderConfig captures provider selection, credentials and overrides.
type ProviderConfig struct {
	// Name selects a provider preset; case-insensitive, empty means the
	// built-in default.
	Name string `yaml:"name"`
	// APIKey is the primary credential used against the selected provider.
	APIKey string `yaml:"api_key"`
	// FallbackAPIKey is the secondary credential for the capability-complete
	// default provider, used when the selected provider lacks speech
	// synthesis or transcription support.
	FallbackAPIKey string `yaml:"fallback_api_key"`
	// BaseURL overrides the provider's declared endpoint when non-empty.
	BaseURL string `yaml:"base_url"`
	// Model overrides the provider's default model when non-empty.
	Model string `yaml:"model"`
	// CustomBaseURL and CustomModel configure the "custom" provider variant.
	CustomBaseURL string `yaml:"custom_base_url"`
	CustomModel   string `yaml:"custom_model"`
	// AppURL identifies the deployment; some providers require it as a
	// referer header.
	AppURL string `yaml:"app_url"`
}

// Load reads the optional YAML file at path, applies environment overrides
// and validates the result. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Config{Server: ServerConfig{Port: defaultPort}}

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
		}
		if cfg.Server.Port == 0 {
			cfg.Server.Port = defaultPort
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfPresent := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	setIfPresent(&c.Provider.Name, "LLM_PROVIDER")
	setIfPresent(&c.Provider.APIKey, "API_KEY")
	setIfPresent(&c.Provider.FallbackAPIKey, "OPENAI_API_KEY")
	setIfPresent(&c.Provider.BaseURL, "API_BASE_URL")
	setIfPresent(&c.Provider.Model, "MODEL_NAME")
	setIfPresent(&c.Provider.CustomBaseURL, "CUSTOM_API_BASE_URL")
	setIfPresent(&c.Provider.CustomModel, "CUSTOM_MODEL_NAME")
	setIfPresent(&c.Provider.AppURL, "APP_URL")

	if v := strings.TrimSpace(os.Getenv("DEBUG_LLM")); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// Validate performs sanity checks on the configuration. Credential presence
// is deliberately not checked here: a missing credential surfaces as a
// configuration error at request time, mirroring the diagnostic endpoint.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}
	return nil
}
