package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML overrides file. It never carries credentials —
// those resolve through llm/keys — only per-provider tweaks and custom
// OpenAI-compatible endpoints to register at startup.
//
//	providers:
//	  openai:
//	    model: gpt-4o-mini
//	  azure:
//	    timeout: 90s
//	custom:
//	  local_ollama:
//	    name: Local Ollama
//	    base_url: http://localhost:11434/v1
//	    default_model: llama3
type File struct {
	// Providers maps built-in provider ids to their overrides.
	Providers map[string]ProviderOverride `yaml:"providers"`

	// Custom maps caller-chosen ids to OpenAI-compatible endpoint
	// definitions registered dynamically.
	Custom map[string]CustomProvider `yaml:"custom"`

	// DefaultProvider overrides Settings.DefaultProvider when set.
	DefaultProvider string `yaml:"default_provider"`
}

// ProviderOverride adjusts a built-in provider's construction defaults.
type ProviderOverride struct {
	BaseURL string            `yaml:"base_url"`
	Model   string            `yaml:"model"`
	Timeout string            `yaml:"timeout"` // Go duration string
	Headers map[string]string `yaml:"headers"`
}

// CustomProvider defines an OpenAI-compatible endpoint added at runtime.
type CustomProvider struct {
	Name         string            `yaml:"name"`
	BaseURL      string            `yaml:"base_url"`
	DefaultModel string            `yaml:"default_model"`
	Headers      map[string]string `yaml:"headers"`
}

// LoadFile reads and validates the overrides file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for id, c := range f.Custom {
		if c.BaseURL == "" {
			return nil, fmt.Errorf("custom provider %q: base_url is required", id)
		}
	}
	return &f, nil
}
