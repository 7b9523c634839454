package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers"
)

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New("azkey", "", nil)
	require.Error(t, err)
	assert.True(t, llm.IsCode(err, llm.ErrAuthentication))
}

func TestGenerateAddressesDeployment(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		json.NewEncoder(w).Encode(providers.ChatCompletionResponse{
			Choices: []providers.Choice{{
				FinishReason: "stop",
				Message:      providers.ResponseMessage{Content: "from azure"},
			}},
			Usage: &providers.Usage{PromptTokens: 8, CompletionTokens: 4},
		})
	}))
	defer srv.Close()

	a, err := New("azkey", srv.URL, nil)
	require.NoError(t, err)

	req := llm.NewRequest("hello")
	req.Model = "gpt-4o"
	resp, err := a.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions", gotPath)
	assert.Equal(t, "api-version=2024-02-15-preview", gotQuery)
	assert.Equal(t, "azkey", gotKey)

	assert.Equal(t, "from azure", resp.Text)
	assert.Equal(t, "azure", resp.Provider)
	assert.Equal(t, 8, resp.InputTokens)
	assert.Equal(t, 4, resp.OutputTokens)
	// gpt-4o: 8/1000*0.005 + 4/1000*0.015
	assert.InDelta(t, 0.0001, resp.Cost, 1e-12)
	assert.Equal(t, "2024-02-15-preview", resp.Metadata["api_version"])
}

func TestGenerateEndpointOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(providers.ChatCompletionResponse{
			Choices: []providers.Choice{{Message: providers.ResponseMessage{Content: "ok"}}},
		})
	}))
	defer srv.Close()

	a, err := New("azkey", "https://unreachable.invalid", nil)
	require.NoError(t, err)

	ctx := llm.WithCredentialOverride(context.Background(), llm.CredentialOverride{
		APIKey:   "other-key",
		Endpoint: srv.URL,
	})
	resp, err := a.Generate(ctx, llm.NewRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

func TestCapabilitiesByDeployment(t *testing.T) {
	a, err := New("azkey", "https://r.openai.azure.com", nil)
	require.NoError(t, err)

	assert.True(t, a.Capabilities("gpt-4o").Vision)
	assert.False(t, a.Capabilities("gpt-35-turbo").Vision)
	assert.Equal(t, 8192, a.Capabilities("gpt-4").MaxTokens)
	// unknown deployments get the permissive default
	assert.Equal(t, llm.DefaultCapabilities(), a.Capabilities("my-private-deployment"))
	assert.Equal(t, models, a.Models())
}
