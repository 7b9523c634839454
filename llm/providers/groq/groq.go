// Package groq adapts the Groq API, an OpenAI-compatible endpoint serving
// Llama, Mixtral and Gemma models.
package groq

import (
	"strings"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers/openaicompat"
)

const (
	providerName = "groq"
	baseURL      = "https://api.groq.com/openai/v1"

	// DefaultModel is used when a request names no model.
	DefaultModel = "llama-3.3-70b-versatile"
)

var models = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-70b-versatile",
	"llama-3.1-8b-instant",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
	"llama-3.2-90b-vision-preview",
	"llama-3.2-11b-vision-preview",
}

var capabilities = map[string]llm.Capabilities{
	"llama-3.3-70b-versatile": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.00059, OutputCostPer1K: 0.00079,
	},
	"llama-3.1-70b-versatile": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.00059, OutputCostPer1K: 0.00079,
	},
	"llama-3.1-8b-instant": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.00005, OutputCostPer1K: 0.00008,
	},
	"mixtral-8x7b-32768": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 32768, InputCostPer1K: 0.00024, OutputCostPer1K: 0.00024,
	},
	"gemma2-9b-it": {
		Streaming: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.0002, OutputCostPer1K: 0.0002,
	},
	"llama-3.2-90b-vision-preview": {
		Vision: true, Streaming: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.0009, OutputCostPer1K: 0.0009,
	},
	"llama-3.2-11b-vision-preview": {
		Vision: true, Streaming: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.00018, OutputCostPer1K: 0.00018,
	},
}

// Table is the Groq capability table. Unknown models get a streaming
// text-only descriptor, with vision inferred from the "-vision-" naming
// convention Groq uses for its preview models.
var Table = llm.NewCapabilityTable(providerName, models, capabilities).
	WithFallback(func(model string) llm.Capabilities {
		return llm.Capabilities{
			Vision:       strings.Contains(model, "-vision-"),
			Streaming:    true,
			SystemPrompt: true,
			MaxTokens:    8192,
		}
	})

// New returns the Groq adapter.
func New(apiKey string, logger *zap.Logger) *openaicompat.Adapter {
	return openaicompat.New(openaicompat.Config{
		ProviderName: providerName,
		APIKey:       apiKey,
		BaseURL:      baseURL,
		DefaultModel: DefaultModel,
		Table:        Table,
		Models:       models,
	}, logger)
}
