package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the process-level knobs read from the environment once at
// startup. Provider API keys are not here; they go through llm/keys with
// its tiered resolution.
type Settings struct {
	// DefaultProvider names the preferred provider when the caller does not
	// choose one. Honored only when that provider also has a credential.
	DefaultProvider string `env:"DEFAULT_PROVIDER"`

	// SecretsFile points at the mounted TOML secrets store consulted before
	// environment variables.
	SecretsFile string `env:"MEDDIAG_SECRETS_FILE"`

	// LogLevel is the zap level name ("debug", "info", ...). Empty means
	// the host application's default.
	LogLevel string `env:"MEDDIAG_LOG_LEVEL"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings from environment: %w", err)
	}
	return s, nil
}
