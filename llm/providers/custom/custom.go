// Package custom adapts any user-supplied OpenAI-compatible endpoint:
// local runtimes (Ollama, LM Studio), alternative clouds (Together,
// Fireworks) or self-hosted gateways.
package custom

import (
	"time"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers/openaicompat"
)

// Config describes one user-registered endpoint.
type Config struct {
	// ProviderName is the registered id, e.g. "custom_ollama".
	ProviderName string

	// BaseURL is the endpoint root including any version prefix. Required.
	BaseURL string

	// APIKey may be empty for unauthenticated local endpoints.
	APIKey string

	// DefaultModel is returned by Models() when the endpoint does not
	// implement model listing.
	DefaultModel string

	// Headers are extra headers sent with every request.
	Headers map[string]string

	// Timeout bounds each HTTP attempt. Defaults to 30s.
	Timeout time.Duration
}

// describe assumes a permissive endpoint: the caller knows their own
// deployment, and a wrong vision assumption surfaces as a vendor error
// rather than a pre-flight rejection.
func describe(string) llm.Capabilities {
	return llm.Capabilities{
		Vision:          true,
		Streaming:       true,
		FunctionCalling: true,
		SystemPrompt:    true,
		MaxTokens:       4096,
	}
}

// New returns an adapter for the endpoint. Models() is discovered from the
// endpoint's /models listing, falling back to cfg.DefaultModel.
func New(cfg Config, logger *zap.Logger) *openaicompat.Adapter {
	table := llm.NewCapabilityTable(cfg.ProviderName, nil, nil).WithFallback(describe)
	return openaicompat.New(openaicompat.Config{
		ProviderName:           cfg.ProviderName,
		APIKey:                 cfg.APIKey,
		BaseURL:                cfg.BaseURL,
		DefaultModel:           cfg.DefaultModel,
		Timeout:                cfg.Timeout,
		ExtraHeaders:           cfg.Headers,
		Table:                  table,
		IncludeBaseURLMetadata: true,
	}, logger)
}
