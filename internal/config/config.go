package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for openclaw-kg.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Claude  ClaudeConfig  `mapstructure:"claude"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig holds on-disk knowledge graph settings.
type StoreConfig struct {
	Root     string `mapstructure:"root"`
	AuditLog string `mapstructure:"audit_log"`
	Locking  bool   `mapstructure:"locking"`
}

// ClaudeConfig holds Anthropic Claude API settings for fact capture.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// String returns a safe representation of ClaudeConfig with the API key masked.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s}", maskAPIKey(c.APIKey), c.Model)
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("store.root", filepath.Join(homeDir(), ".openclaw", "workspace", "kg"))
	v.SetDefault("store.audit_log", filepath.Join(homeDir(), ".openclaw", "logs", "kg.log"))
	v.SetDefault("store.locking", true)

	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".openclaw-kg"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("OPENCLAW_KG")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("claude.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("store.root", "OPENCLAW_KG_STORE_ROOT")
	_ = v.BindEnv("store.audit_log", "OPENCLAW_KG_AUDIT_LOG")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Store.Root == "" {
		return fmt.Errorf("store.root must not be empty")
	}
	if c.Store.AuditLog == "" {
		return fmt.Errorf("store.audit_log must not be empty")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
