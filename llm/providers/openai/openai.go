// Package openai adapts the OpenAI chat-completions API.
package openai

import (
	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers/openaicompat"
)

const (
	providerName = "openai"
	baseURL      = "https://api.openai.com/v1"

	// DefaultModel is used when a request names no model.
	DefaultModel = "gpt-4o"
)

var models = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4-turbo",
	"gpt-4-vision-preview",
	"gpt-4",
	"gpt-3.5-turbo",
}

var capabilities = map[string]llm.Capabilities{
	"gpt-4o": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.005, OutputCostPer1K: 0.015,
	},
	"gpt-4o-mini": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 16384, InputCostPer1K: 0.00015, OutputCostPer1K: 0.0006,
	},
	"gpt-4-turbo": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.01, OutputCostPer1K: 0.03,
	},
	"gpt-4-vision-preview": {
		Vision: true, Streaming: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.01, OutputCostPer1K: 0.03,
	},
	"gpt-4": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.03, OutputCostPer1K: 0.06,
	},
	"gpt-3.5-turbo": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.0005, OutputCostPer1K: 0.0015,
	},
}

// Table is the OpenAI capability table.
var Table = llm.NewCapabilityTable(providerName, models, capabilities)

// New returns the OpenAI adapter.
func New(apiKey string, logger *zap.Logger) *openaicompat.Adapter {
	return openaicompat.New(openaicompat.Config{
		ProviderName: providerName,
		APIKey:       apiKey,
		BaseURL:      baseURL,
		DefaultModel: DefaultModel,
		ImageDetail:  "high",
		Table:        Table,
		Models:       models,
	}, logger)
}
