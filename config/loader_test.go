package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
default_provider: groq
providers:
  openai:
    model: gpt-4o-mini
  azure:
    timeout: 90s
custom:
  local_ollama:
    name: Local Ollama
    base_url: http://localhost:11434/v1
    default_model: llama3
    headers:
      X-Extra: "1"
`)
	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "groq", f.DefaultProvider)
	assert.Equal(t, "gpt-4o-mini", f.Providers["openai"].Model)
	assert.Equal(t, "90s", f.Providers["azure"].Timeout)

	c := f.Custom["local_ollama"]
	assert.Equal(t, "Local Ollama", c.Name)
	assert.Equal(t, "http://localhost:11434/v1", c.BaseURL)
	assert.Equal(t, "llama3", c.DefaultModel)
	assert.Equal(t, "1", c.Headers["X-Extra"])
}

func TestLoadFileCustomWithoutBaseURL(t *testing.T) {
	path := writeConfig(t, `
custom:
  broken:
    name: Broken
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, "{not yaml: [")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("DEFAULT_PROVIDER", "anthropic")
	t.Setenv("MEDDIAG_SECRETS_FILE", "/run/secrets/llm.toml")
	t.Setenv("MEDDIAG_LOG_LEVEL", "debug")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", s.DefaultProvider)
	assert.Equal(t, "/run/secrets/llm.toml", s.SecretsFile)
	assert.Equal(t, "debug", s.LogLevel)
}
