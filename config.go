package queuetoken

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig
const EnvPrefix = "QUEUETOKEN_"

// Config holds the non-secret settings of a Codec. Secret keys are never part
// of the configuration; they are passed to Generate and Parse on every call.
type Config struct {
	// IdentifierPrefix is joined to generated token identifiers with "~"
	IdentifierPrefix string `yaml:"identifier_prefix" json:"identifier_prefix"`

	// DefaultValidity sets the expiry of new tokens relative to their issue
	// time. Zero means tokens never expire.
	DefaultValidity time.Duration `yaml:"default_validity" json:"default_validity"`

	// MaxTokenLength rejects longer token strings in Parse. Zero disables the check.
	MaxTokenLength int `yaml:"max_token_length" json:"max_token_length"`

	// Logger receives debug and warning events. Nil discards them.
	Logger *slog.Logger `yaml:"-" json:"-"`

	// Clock returns the issue time of new tokens. Nil uses time.Now.
	Clock func() time.Time `yaml:"-" json:"-"`

	// NewIdentifier returns the random part of new token identifiers. Nil
	// uses a UUID v4.
	NewIdentifier func() string `yaml:"-" json:"-"`
}

// envConfig is the subset of Config that can be set from the environment.
type envConfig struct {
	IdentifierPrefix string        `env:"IDENTIFIER_PREFIX"`
	DefaultValidity  time.Duration `env:"DEFAULT_VALIDITY"`
	MaxTokenLength   int           `env:"MAX_TOKEN_LENGTH"`
}

// DefaultConfig returns a configuration compatible with every existing issuer
// and verifier: no prefix, no expiry, no length limit.
func DefaultConfig() Config {
	return Config{
		IdentifierPrefix: "",
		DefaultValidity:  0,
		MaxTokenLength:   0,
		Logger:           nil,
		Clock:            nil,
		NewIdentifier:    nil,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	if strings.ContainsAny(c.IdentifierPrefix, ".~") {
		return fmt.Errorf("%w: identifier prefix must not contain '.' or '~'", ErrInvalidConfig)
	}

	if c.DefaultValidity < 0 {
		return fmt.Errorf("%w: default validity must not be negative", ErrInvalidConfig)
	}

	if c.MaxTokenLength < 0 {
		return fmt.Errorf("%w: max token length must not be negative", ErrInvalidConfig)
	}

	return nil
}

// LoadConfig starts from DefaultConfig, loads the given dotenv files (missing
// files are an error, no files means none are read) and applies QUEUETOKEN_*
// environment variables on top.
func LoadConfig(envFiles ...string) (Config, error) {
	cfg := DefaultConfig()

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return cfg, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	parsed := envConfig{
		IdentifierPrefix: cfg.IdentifierPrefix,
		DefaultValidity:  cfg.DefaultValidity,
		MaxTokenLength:   cfg.MaxTokenLength,
	}
	if err := env.ParseWithOptions(&parsed, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.IdentifierPrefix = parsed.IdentifierPrefix
	cfg.DefaultValidity = parsed.DefaultValidity
	cfg.MaxTokenLength = parsed.MaxTokenLength

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration file. Durations are written as Go
// duration strings such as "20m".
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 - config file path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
