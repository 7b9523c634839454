// Package llmadapter provides a top-level convenience entry point for
// talking to any supported LLM provider through one interface.
//
// Usage:
//
//	import "github.com/meddiag/llmadapter"
//
//	a, err := llmadapter.New("openai", "sk-...")
//	resp, err := a.Generate(ctx, llmadapter.NewRequest("prompt"))
//
// This is a thin wrapper around [factory.Default] and the llm package; use
// those directly when you need a resolver, custom endpoints or metrics.
package llmadapter

import (
	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/factory"
	"github.com/meddiag/llmadapter/llm/keys"
)

// Re-export the envelope types so simple callers never import llm/.

// Request is the standardized generation request.
type Request = llm.Request

// Response is the standardized generation result.
type Response = llm.Response

// Adapter is the uniform provider contract.
type Adapter = llm.Adapter

// NewRequest builds a Request with the standard defaults.
var NewRequest = llm.NewRequest

// New creates an adapter for a built-in provider id with a plain API key.
// Azure needs an endpoint too; use NewWithEndpoint for it.
func New(provider, apiKey string) (llm.Adapter, error) {
	return NewWithEndpoint(provider, apiKey, "")
}

// NewWithEndpoint creates an adapter for providers whose credential has two
// parts (Azure key + resource endpoint).
func NewWithEndpoint(provider, apiKey, endpoint string) (llm.Adapter, error) {
	return factory.Default(zap.NewNop()).Create(provider, keys.Credential{
		APIKey:   apiKey,
		Endpoint: endpoint,
	})
}

// NewFromEnvironment creates an adapter resolving its credential from the
// standard environment variables (OPENAI_API_KEY, ...).
func NewFromEnvironment(provider string) (llm.Adapter, error) {
	return factory.Default(zap.NewNop()).CreateFromResolver(provider, keys.NewResolver(nil))
}
