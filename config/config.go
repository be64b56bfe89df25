// Package config loads system configuration from a YAML file with
// environment variable overrides. A .env file in the working directory is
// honored when present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLMConfig selects and authenticates the language model provider.
type LLMConfig struct {
	// Provider is "openai", "anthropic", "openrouter" or "mock".
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	// BaseURL overrides the provider endpoint. Used to front OpenRouter
	// through the openai client.
	BaseURL string `yaml:"base_url"`
}

// DatabaseConfig configures the optional Postgres backing store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// EvolutionConfig tunes the evolution agent.
type EvolutionConfig struct {
	AnalysisInterval time.Duration `yaml:"analysis_interval"`
}

// UnmarshalYAML accepts "30m"-style duration strings.
func (e *EvolutionConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		AnalysisInterval string `yaml:"analysis_interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.AnalysisInterval != "" {
		d, err := time.ParseDuration(raw.AnalysisInterval)
		if err != nil {
			return fmt.Errorf("parse analysis_interval: %w", err)
		}
		e.AnalysisInterval = d
	}
	return nil
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Config is the root configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Database  DatabaseConfig  `yaml:"database"`
	Workspace string          `yaml:"workspace"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the baseline configuration before file and env overlays.
func Default() Config {
	return Config{
		LLM:       LLMConfig{Provider: "mock"},
		Workspace: "workspace",
		Evolution: EvolutionConfig{AnalysisInterval: 30 * time.Minute},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from path (optional), then applies environment
// overrides. A missing file at the default path is not an error; a missing
// explicitly named file is.
func Load(path string) (Config, error) {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = "agenthub.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays AGENTHUB_* variables, plus OPENROUTER_API_KEY for
// compatibility with the original deployment.
func (c *Config) applyEnv() {
	setEnv(&c.LLM.Provider, "AGENTHUB_LLM_PROVIDER")
	setEnv(&c.LLM.APIKey, "AGENTHUB_LLM_API_KEY")
	setEnv(&c.LLM.Model, "AGENTHUB_LLM_MODEL")
	setEnv(&c.LLM.BaseURL, "AGENTHUB_LLM_BASE_URL")
	setEnv(&c.Database.DSN, "AGENTHUB_DATABASE_DSN")
	setEnv(&c.Workspace, "AGENTHUB_WORKSPACE")
	setEnv(&c.Log.Level, "AGENTHUB_LOG_LEVEL")
	setEnv(&c.Log.Format, "AGENTHUB_LOG_FORMAT")

	if c.LLM.APIKey == "" {
		if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}
	if v := os.Getenv("AGENTHUB_EVOLUTION_ANALYSIS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Evolution.AnalysisInterval = d
		}
	}
}

// Validate rejects configurations that cannot start: a real provider needs
// an API key.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "mock", "":
	case "openai", "anthropic", "openrouter":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm provider %q requires an API key", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Evolution.AnalysisInterval < 0 {
		return fmt.Errorf("evolution analysis interval must not be negative")
	}
	return nil
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
