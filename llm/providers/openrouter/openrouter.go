// Package openrouter adapts the OpenRouter aggregator, an OpenAI-compatible
// gateway to models from many labs under one credential.
package openrouter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers/openaicompat"
)

const (
	providerName = "openrouter"
	baseURL      = "https://openrouter.ai/api/v1"

	// DefaultModel is used when a request names no model.
	DefaultModel = "google/gemini-2.0-flash-exp:free"
)

var models = []string{
	"google/gemini-2.0-flash-exp:free",
	"google/gemini-pro-1.5",
	"google/gemini-flash-1.5",
	"openai/gpt-4o",
	"openai/gpt-4-turbo",
	"openai/gpt-3.5-turbo",
	"anthropic/claude-3.5-sonnet",
	"anthropic/claude-3-opus",
	"anthropic/claude-3-haiku",
	"meta-llama/llama-3.1-405b-instruct",
	"meta-llama/llama-3.1-70b-instruct",
	"mistralai/mistral-large",
	"mistralai/mixtral-8x7b-instruct",
}

// visionModels are the routed models known to accept images. Matched by
// substring so versioned variants route the same way.
var visionModels = []string{
	"google/gemini-2.0-flash-exp:free",
	"google/gemini-pro-1.5",
	"google/gemini-flash-1.5",
	"openai/gpt-4o",
	"openai/gpt-4-turbo",
	"anthropic/claude-3.5-sonnet",
	"anthropic/claude-3-opus",
}

func describe(model string) llm.Capabilities {
	vision := false
	for _, vm := range visionModels {
		if strings.Contains(model, vm) {
			vision = true
			break
		}
	}
	// Per-model pricing varies by route; OpenRouter reports actual cost on
	// its own dashboard, so the table carries zero.
	return llm.Capabilities{
		Vision:          vision,
		Streaming:       true,
		FunctionCalling: true,
		SystemPrompt:    true,
		MaxTokens:       8192,
	}
}

// Table is the OpenRouter capability table. Every model, listed or not,
// goes through the same descriptor function: the routed namespace is
// open-ended.
var Table = llm.NewCapabilityTable(providerName, models, nil).WithFallback(describe)

// attributionHeaders identify the calling application to the aggregator.
var attributionHeaders = map[string]string{
	"HTTP-Referer": "https://github.com/meddiag/llmadapter",
	"X-Title":      "MedDiag",
}

// New returns the OpenRouter adapter.
func New(apiKey string, logger *zap.Logger) *openaicompat.Adapter {
	return openaicompat.New(openaicompat.Config{
		ProviderName: providerName,
		APIKey:       apiKey,
		BaseURL:      baseURL,
		DefaultModel: DefaultModel,
		Table:        Table,
		Models:       models,
		ExtraHeaders: attributionHeaders,
	}, logger)
}
