package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSecretsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")
	content := `
OPENAI_API_KEY = "sk-from-toml"
AZURE_OPENAI_KEY = "azkey"
AZURE_OPENAI_ENDPOINT = "https://r.openai.azure.com"
SOME_NUMBER = 42
EMPTY = ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := LoadSecretsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-toml", got["OPENAI_API_KEY"])
	assert.Equal(t, "azkey", got["AZURE_OPENAI_KEY"])
	assert.Equal(t, "https://r.openai.azure.com", got["AZURE_OPENAI_ENDPOINT"])
	// non-string and empty values are skipped
	assert.NotContains(t, got, "SOME_NUMBER")
	assert.NotContains(t, got, "EMPTY")
}

func TestLoadSecretsFileMissing(t *testing.T) {
	_, err := LoadSecretsFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadSecretsFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not == toml"), 0o600))
	_, err := LoadSecretsFile(path)
	assert.Error(t, err)
}

func TestWithSecretsFileFeedsResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")
	require.NoError(t, os.WriteFile(path, []byte(`GROQ_API_KEY = "gsk_toml"`), 0o600))

	r := NewResolver(nil,
		WithSecretsFile(path),
		WithEnvLookup(func(string) (string, bool) { return "", false }),
	)
	c, src := r.Resolve("groq")
	assert.Equal(t, SourceSecrets, src)
	assert.Equal(t, "gsk_toml", c.APIKey)
}

func TestWithSecretsFileMissingIsNotFatal(t *testing.T) {
	r := NewResolver(nil,
		WithSecretsFile(filepath.Join(t.TempDir(), "absent.toml")),
		WithEnvLookup(func(string) (string, bool) { return "", false }),
	)
	_, src := r.Resolve("openai")
	assert.Equal(t, SourceNotSet, src)
}
