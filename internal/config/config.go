// Package config loads deepagent.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full CLI configuration.
type Config struct {
	Agent     AgentConfig     `toml:"agent"`
	LLM       LLMConfig       `toml:"llm"`
	Storage   StorageConfig   `toml:"storage"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Limits    LimitsConfig    `toml:"limits"`
}

// AgentConfig identifies the agent.
type AgentConfig struct {
	Name string `toml:"name"`
}

// LLMConfig selects the model backing the agent.
type LLMConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	APIKeyEnv    string `toml:"api_key_env"`
	MaxTokens    int    `toml:"max_tokens"`
	BaseURL      string `toml:"base_url"`
	Thinking     string `toml:"thinking"` // auto|off|low|medium|high
	MaxRetries   int    `toml:"max_retries"`
	RetryBackoff string `toml:"retry_backoff"`
}

// StorageConfig controls where checkpoints and session logs live.
type StorageConfig struct {
	Path    string `toml:"path"`
	Persist bool   `toml:"persist"` // false = in-memory checkpoints only
}

// TelemetryConfig controls OTLP trace export.
type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"` // e.g. localhost:4317
	Protocol string `toml:"protocol"` // grpc (default) or http
}

// LimitsConfig bounds agent runs.
type LimitsConfig struct {
	MaxIterations int `toml:"max_iterations"`
}

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "deepagent.toml"

// New returns a config with defaults.
func New() *Config {
	return &Config{
		Agent: AgentConfig{
			Name: "deepagent",
		},
		LLM: LLMConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 64000,
		},
		Storage: StorageConfig{
			Path:    "~/.deepagents",
			Persist: true,
		},
		Telemetry: TelemetryConfig{
			Protocol: "noop",
		},
		Limits: LimitsConfig{
			MaxIterations: 100,
		},
	}
}

// LoadFile loads configuration from a TOML file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads deepagent.toml from the current directory, falling back
// to pure defaults when the file does not exist.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	path := filepath.Join(cwd, DefaultFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// GetAPIKey returns the API key from the configured environment variable,
// falling back to the provider's conventional variable.
func (c *Config) GetAPIKey(provider string) string {
	envVar := c.LLM.APIKeyEnv
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the conventional environment variable for a
// provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "google":
		return "GEMINI_API_KEY"
	case "mistral":
		return "MISTRAL_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	default:
		return ""
	}
}

// StoragePath expands a leading ~ in the storage path.
func (c *Config) StoragePath() string {
	path := c.Storage.Path
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}
