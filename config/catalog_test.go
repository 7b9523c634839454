package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec(t *testing.T) {
	s, ok := Spec("azure")
	require.True(t, ok)
	assert.True(t, s.RequiresEndpoint)
	assert.Equal(t, "AZURE_OPENAI_KEY", s.EnvKey)
	assert.Equal(t, "AZURE_OPENAI_ENDPOINT", s.EnvEndpoint)

	_, ok = Spec("custom_whatever")
	assert.False(t, ok)
}

func TestCatalogShape(t *testing.T) {
	specs := Providers()
	require.Len(t, specs, 8)
	seen := map[string]bool{}
	for _, s := range specs {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.DisplayName, s.ID)
		assert.NotEmpty(t, s.EnvKey, s.ID)
		assert.NotEmpty(t, s.DefaultModel, s.ID)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		// only two-part credentials carry a second variable
		assert.Equal(t, s.RequiresEndpoint, s.EnvEndpoint != "", s.ID)
	}
	// azure is the only two-part credential
	assert.True(t, seen["azure"])
}

func TestProvidersReturnsCopy(t *testing.T) {
	first := Providers()
	first[0].ID = "mutated"
	assert.NotEqual(t, "mutated", Providers()[0].ID)
}
