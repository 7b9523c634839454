// Package config holds the static provider catalog, process settings, and
// the optional YAML overrides file. It contains data only; construction
// logic lives in llm/factory and credential lookup in llm/keys.
package config

// ProviderSpec describes one built-in provider: how its credential is named
// in the environment, whether it needs an endpoint besides the key, and its
// default model.
type ProviderSpec struct {
	ID               string
	DisplayName      string
	EnvKey           string // environment variable carrying the API key
	EnvEndpoint      string // second variable for two-part credentials, "" otherwise
	DefaultModel     string
	RequiresEndpoint bool
	KeyPrefix        string // expected key prefix for format validation, "" = none
}

// catalog lists the built-in providers in display order. Custom providers
// are registered at runtime and are not part of the catalog.
var catalog = []ProviderSpec{
	{ID: "openai", DisplayName: "OpenAI", EnvKey: "OPENAI_API_KEY", DefaultModel: "gpt-4o", KeyPrefix: "sk-"},
	{ID: "anthropic", DisplayName: "Anthropic (Claude)", EnvKey: "ANTHROPIC_API_KEY", DefaultModel: "claude-3-5-sonnet-20241022", KeyPrefix: "sk-ant-"},
	{ID: "gemini", DisplayName: "Google Gemini", EnvKey: "GEMINI_API_KEY", DefaultModel: "gemini-2.0-flash-exp", KeyPrefix: "AIza"},
	{ID: "cohere", DisplayName: "Cohere", EnvKey: "COHERE_API_KEY", DefaultModel: "command-r-plus"},
	{ID: "openrouter", DisplayName: "OpenRouter (Multi-Model)", EnvKey: "OPENROUTER_API_KEY", DefaultModel: "google/gemini-2.0-flash-exp:free", KeyPrefix: "sk-or-"},
	{ID: "azure", DisplayName: "Azure OpenAI", EnvKey: "AZURE_OPENAI_KEY", EnvEndpoint: "AZURE_OPENAI_ENDPOINT", DefaultModel: "gpt-4o", RequiresEndpoint: true},
	{ID: "huggingface", DisplayName: "Hugging Face", EnvKey: "HUGGINGFACE_API_KEY", DefaultModel: "meta-llama/Meta-Llama-3-8B-Instruct", KeyPrefix: "hf_"},
	{ID: "groq", DisplayName: "Groq (Ultra-Fast)", EnvKey: "GROQ_API_KEY", DefaultModel: "llama-3.3-70b-versatile", KeyPrefix: "gsk_"},
}

// Providers returns the catalog in display order.
func Providers() []ProviderSpec {
	out := make([]ProviderSpec, len(catalog))
	copy(out, catalog)
	return out
}

// Spec returns the catalog entry for a provider id.
func Spec(id string) (ProviderSpec, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return ProviderSpec{}, false
}
