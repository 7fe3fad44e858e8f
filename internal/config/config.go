// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	LLM        LLMConfig       `yaml:"llm"`
	Insurer    InsurerConfig   `yaml:"insurer"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port          int   `yaml:"port"`
	MaxUploadMB   int64 `yaml:"max_upload_mb"`
	EnableMetrics bool  `yaml:"enable_metrics"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite
	Path   string `yaml:"path"`
}

type LLMConfig struct {
	Provider  string `yaml:"provider"` // cohere, openai, ollama, none
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	CohereURL string `yaml:"cohere_url"`
	OllamaURL string `yaml:"ollama_url"`
}

type InsurerConfig struct {
	// ClaimsEmail pre-fills the recipient of generated claim letters.
	ClaimsEmail string `yaml:"claims_email"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			MaxUploadMB:   25,
			EnableMetrics: true,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/claimpilot.db",
		},
		LLM: LLMConfig{
			Provider: "none",
			Model:    "command-r-plus",
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# ClaimPilot Configuration
# See documentation for all options

server:
  port: 8080
  max_upload_mb: 25
  enable_metrics: true

database:
  driver: sqlite
  path: ./data/claimpilot.db

llm:
  # Set to "none" to run fully offline with scripted assistant replies.
  provider: cohere  # cohere, openai, ollama, none
  model: command-r-plus
  api_key: ${COHERE_API_KEY}

  # For OpenAI:
  # provider: openai
  # model: gpt-4o-mini
  # api_key: ${OPENAI_API_KEY}

  # For Ollama (local):
  # provider: ollama
  # model: llama3
  # ollama_url: http://localhost:11434

insurer:
  # Pre-filled recipient for generated claim letters (optional).
  # claims_email: claims@insurancecompany.com

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max upload size: %d MB", c.Server.MaxUploadMB)
	}

	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	validProviders := map[string]bool{"cohere": true, "openai": true, "ollama": true, "none": true, "": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	// API-backed providers need a key; it is never embedded in source.
	switch c.LLM.Provider {
	case "cohere":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("Cohere API key is required")
		}
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("OpenAI API key is required")
		}
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
