package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestResolveSessionBeatsEnvironment(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"OPENAI_API_KEY": "sk-from-env",
	})))
	r.Set("openai", "sk-from-session", "")

	c, src := r.Resolve("openai")
	assert.Equal(t, SourceSession, src)
	assert.Equal(t, "sk-from-session", c.APIKey)

	r.Clear("openai")
	c, src = r.Resolve("openai")
	assert.Equal(t, SourceEnv, src)
	assert.Equal(t, "sk-from-env", c.APIKey)
}

func TestResolveSecretsBeatsEnvironment(t *testing.T) {
	r := NewResolver(nil,
		WithSecrets(map[string]string{"COHERE_API_KEY": "from-secrets"}),
		WithEnvLookup(envFrom(map[string]string{"COHERE_API_KEY": "from-env"})),
	)
	c, src := r.Resolve("cohere")
	assert.Equal(t, SourceSecrets, src)
	assert.Equal(t, "from-secrets", c.APIKey)
}

func TestResolveUnconfigured(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(nil)))
	_, src := r.Resolve("openai")
	assert.Equal(t, SourceNotSet, src)
}

func TestResolveAzureRequiresBothPartsFromOneTier(t *testing.T) {
	// key in env, endpoint only in secrets: no single tier satisfies the
	// credential, so it does not resolve
	r := NewResolver(nil,
		WithSecrets(map[string]string{"AZURE_OPENAI_ENDPOINT": "https://r.openai.azure.com"}),
		WithEnvLookup(envFrom(map[string]string{"AZURE_OPENAI_KEY": "azkey"})),
	)
	_, src := r.Resolve("azure")
	assert.Equal(t, SourceNotSet, src)

	// both parts in env resolves
	r = NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"AZURE_OPENAI_KEY":      "azkey",
		"AZURE_OPENAI_ENDPOINT": "https://r.openai.azure.com",
	})))
	c, src := r.Resolve("azure")
	assert.Equal(t, SourceEnv, src)
	assert.Equal(t, "https://r.openai.azure.com", c.Endpoint)
}

func TestResolveAzureSessionNeedsEndpoint(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(nil)))
	r.Set("azure", "azkey", "")
	_, src := r.Resolve("azure")
	assert.Equal(t, SourceNotSet, src)

	r.Set("azure", "azkey", "https://r.openai.azure.com")
	c, src := r.Resolve("azure")
	assert.Equal(t, SourceSession, src)
	assert.Equal(t, "azkey", c.APIKey)
}

func TestSetIgnoresBlankKey(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"GROQ_API_KEY": "gsk_env",
	})))
	r.Set("groq", "   ", "")
	c, src := r.Resolve("groq")
	assert.Equal(t, SourceEnv, src)
	assert.Equal(t, "gsk_env", c.APIKey)
}

func TestResolveCustomProviderSessionOnly(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"CUSTOM_OLLAMA_API_KEY": "ignored",
	})))
	_, src := r.Resolve("custom_ollama")
	assert.Equal(t, SourceNotSet, src)

	r.Set("custom_ollama", "local-key", "")
	c, src := r.Resolve("custom_ollama")
	assert.Equal(t, SourceSession, src)
	assert.Equal(t, "local-key", c.APIKey)
}

func TestConfiguredMasksKeys(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"OPENAI_API_KEY": "sk-abcdefghijklmnop",
	})))
	r.Set("custom_local", "local-key-123", "")

	got := r.Configured()
	require.Contains(t, got, "openai")
	assert.Equal(t, SourceEnv, got["openai"].Source)
	assert.NotContains(t, got["openai"].MaskedKey, "abcdefghijkl")
	assert.Equal(t, "sk-a...mnop", got["openai"].MaskedKey)

	require.Contains(t, got, "custom_local")
	assert.Equal(t, SourceSession, got["custom_local"].Source)
}

func TestDefaultProvider(t *testing.T) {
	// nothing configured: the zero-key fallback
	r := NewResolver(nil, WithEnvLookup(envFrom(nil)))
	assert.Equal(t, "gemini", r.DefaultProvider(""))
	assert.Equal(t, "gemini", r.DefaultProvider("openai"))

	// preferred wins when it resolves
	r = NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"OPENAI_API_KEY": "sk-x",
		"GROQ_API_KEY":   "gsk_x",
	})))
	assert.Equal(t, "groq", r.DefaultProvider("groq"))

	// otherwise the first configured provider in catalog order
	assert.Equal(t, "openai", r.DefaultProvider(""))
	assert.Equal(t, "openai", r.DefaultProvider("cohere"))
}

func TestExportEnv(t *testing.T) {
	r := NewResolver(nil, WithEnvLookup(envFrom(map[string]string{
		"COHERE_API_KEY": "env-only-not-exported",
	})))
	r.Set("openai", "sk-session", "")
	r.Set("azure", "azkey", "https://r.openai.azure.com")
	r.Set("custom_ollama", "local", "")

	out := r.ExportEnv()
	assert.Contains(t, out, "OPENAI_API_KEY=sk-session")
	assert.Contains(t, out, "AZURE_OPENAI_KEY=azkey")
	assert.Contains(t, out, "AZURE_OPENAI_ENDPOINT=https://r.openai.azure.com")
	assert.Contains(t, out, "CUSTOM_OLLAMA_API_KEY=local")
	// lower tiers are already durable
	assert.NotContains(t, out, "env-only-not-exported")
}
