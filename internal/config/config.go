// Package config loads the configuration of the hivemeta-server binary.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for hivemeta-server.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values for fields that support both.
// Bearer tokens are secrets and may also come from HIVEMETA_TOKENS only.
type Config struct {
	// Server configuration
	Address        string `yaml:"address" env:"HIVEMETA_ADDRESS" env-default:"127.0.0.1:50051"`
	LogLevel       string `yaml:"log_level" env:"HIVEMETA_LOG_LEVEL" env-default:"info"`
	MaxMessageSize int    `yaml:"max_message_size" env:"HIVEMETA_MAX_MESSAGE_SIZE" env-default:"16777216"`
	MaxOperations  int    `yaml:"max_operations" env:"HIVEMETA_MAX_OPERATIONS" env-default:"64"`

	// DuckDB database backing the catalog service
	DuckDB DuckDBConfig `yaml:"duckdb"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`
}

// DuckDBConfig holds the DuckDB connection settings.
type DuckDBConfig struct {
	// DSN is the database path. Empty opens an in-memory database.
	DSN string `yaml:"dsn" env:"HIVEMETA_DUCKDB_DSN" env-default:""`

	// Init statements run once after opening, e.g. ATTACH of further catalogs.
	Init []string `yaml:"init" env:"HIVEMETA_DUCKDB_INIT" env-separator:";"`
}

// AuthConfig holds bearer authentication settings.
// Authentication is disabled when no token is configured.
type AuthConfig struct {
	// TokensStr is a comma-separated list of token=identity pairs.
	TokensStr string `yaml:"-" env:"HIVEMETA_TOKENS"`

	// Tokens maps accepted bearer tokens to identities.
	Tokens map[string]string `yaml:"tokens"`
}

// Enabled reports whether any bearer token is configured.
func (a *AuthConfig) Enabled() bool {
	return len(a.Tokens) > 0
}

// Load reads configuration from the YAML file at path with environment variable
// overrides. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.parseComplexFields()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseComplexFields merges tokens from the environment into the YAML token map.
func (c *Config) parseComplexFields() {
	envTokens := parseTokens(c.Auth.TokensStr)
	if len(envTokens) == 0 {
		return
	}
	if c.Auth.Tokens == nil {
		c.Auth.Tokens = make(map[string]string, len(envTokens))
	}
	for token, identity := range envTokens {
		c.Auth.Tokens[token] = identity
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	if c.MaxMessageSize < 0 {
		return fmt.Errorf("max_message_size must not be negative, got %d", c.MaxMessageSize)
	}
	if c.MaxOperations < 0 {
		return fmt.Errorf("max_operations must not be negative, got %d", c.MaxOperations)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	for token := range c.Auth.Tokens {
		if token == "" {
			return fmt.Errorf("auth tokens must not be empty")
		}
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// parseTokens parses the tokens string into a map.
// Format: "token1=identity1,token2=identity2"
func parseTokens(value string) map[string]string {
	tokens := make(map[string]string)
	if value == "" {
		return tokens
	}

	for _, pair := range strings.Split(value, ",") {
		token, identity, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		tokens[strings.TrimSpace(token)] = strings.TrimSpace(identity)
	}
	return tokens
}
