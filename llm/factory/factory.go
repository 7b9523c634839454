package factory

import (
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/keys"
	"github.com/meddiag/llmadapter/llm/providers/anthropic"
	"github.com/meddiag/llmadapter/llm/providers/azure"
	"github.com/meddiag/llmadapter/llm/providers/cohere"
	"github.com/meddiag/llmadapter/llm/providers/custom"
	"github.com/meddiag/llmadapter/llm/providers/gemini"
	"github.com/meddiag/llmadapter/llm/providers/groq"
	"github.com/meddiag/llmadapter/llm/providers/huggingface"
	"github.com/meddiag/llmadapter/llm/providers/openai"
	"github.com/meddiag/llmadapter/llm/providers/openrouter"
)

// Default returns a registry with every built-in provider registered.
func Default(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register("openai", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return openai.New(cred.APIKey, log), nil
	})
	r.Register("anthropic", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return anthropic.New(cred.APIKey, log), nil
	})
	r.Register("gemini", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return gemini.New(cred.APIKey, log), nil
	})
	r.Register("cohere", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return cohere.New(cred.APIKey, log), nil
	})
	r.Register("openrouter", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return openrouter.New(cred.APIKey, log), nil
	})
	r.Register("azure", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return azure.New(cred.APIKey, cred.Endpoint, log)
	})
	r.Register("huggingface", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return huggingface.New(cred.APIKey, log), nil
	})
	r.Register("groq", func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return groq.New(cred.APIKey, log), nil
	})
	return r
}

// CustomConfig describes a runtime-registered OpenAI-compatible endpoint.
type CustomConfig struct {
	// Name is the user-facing label; the registered id is derived from it
	// by CustomProviderID.
	Name string

	// BaseURL is required; there is no sensible default for a custom
	// endpoint.
	BaseURL string

	// DefaultModel is served by Models() when the endpoint does not list
	// models.
	DefaultModel string

	// Headers are extra headers for every request.
	Headers map[string]string

	// Timeout bounds each HTTP attempt; zero means the shared default.
	Timeout time.Duration
}

// RegisterCustom registers a custom endpoint and returns its provider id.
func (r *Registry) RegisterCustom(cfg CustomConfig) (string, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return "", &llm.Error{
			Code:    llm.ErrInvalidRequest,
			Message: "custom provider requires a base URL",
		}
	}
	id := CustomProviderID(cfg.Name)
	r.Register(id, func(cred keys.Credential, log *zap.Logger) (llm.Adapter, error) {
		return custom.New(custom.Config{
			ProviderName: id,
			BaseURL:      cfg.BaseURL,
			APIKey:       cred.APIKey,
			DefaultModel: cfg.DefaultModel,
			Headers:      cfg.Headers,
			Timeout:      cfg.Timeout,
		}, log), nil
	})
	return id, nil
}

// CustomProviderID derives the registry id for a custom provider name:
// lowercased, runs of non-alphanumerics collapsed to single underscores,
// prefixed with "custom_". An empty name yields "custom_provider".
func CustomProviderID(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	id := strings.TrimRight(b.String(), "_")
	if id == "" {
		id = "provider"
	}
	return "custom_" + id
}
