package openrouter

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
	"github.com/meddiag/llmadapter/llm/providers/openaicompat"
)

func TestTable(t *testing.T) {
	a := New("sk-or-test", nil)
	assert.Equal(t, "openrouter", a.Name())
	assert.Equal(t, models, a.Models())

	for _, m := range []string{"openai/gpt-4o", "anthropic/claude-3.5-sonnet", "google/gemini-pro-1.5"} {
		assert.True(t, a.Capabilities(m).Vision, m)
	}
	for _, m := range []string{"meta-llama/llama-3.1-70b-instruct", "mistralai/mistral-large", "anthropic/claude-3-haiku"} {
		assert.False(t, a.Capabilities(m).Vision, m)
	}

	// aggregator pricing varies per route, so the table carries zero
	caps := a.Capabilities("openai/gpt-4o")
	assert.Zero(t, caps.InputCostPer1K)
	assert.Zero(t, caps.OutputCostPer1K)
	assert.Equal(t, 8192, caps.MaxTokens)
}

func TestAttributionHeaders(t *testing.T) {
	var gotReferer, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		json.NewEncoder(w).Encode(providers.ChatCompletionResponse{
			Choices: []providers.Choice{{Message: providers.ResponseMessage{Content: "routed"}}},
			Usage:   &providers.Usage{PromptTokens: 1, CompletionTokens: 1},
		})
	}))
	defer srv.Close()

	// rebuild against the stub keeping the production headers
	a := openaicompat.New(openaicompat.Config{
		ProviderName: "openrouter",
		APIKey:       "sk-or-test",
		BaseURL:      srv.URL,
		DefaultModel: DefaultModel,
		Table:        Table,
		Models:       models,
		ExtraHeaders: attributionHeaders,
	}, nil)
	resp, err := a.Generate(context.Background(), llm.NewRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "routed", resp.Text)
	assert.NotEmpty(t, gotReferer)
	assert.Equal(t, "MedDiag", gotTitle)
}
