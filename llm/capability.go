package llm

import "fmt"

// Capabilities describes what a (provider, model) pair supports and costs.
// Immutable; constructed from the static per-provider tables.
type Capabilities struct {
	Vision          bool    `json:"vision"`
	Streaming       bool    `json:"streaming"`
	FunctionCalling bool    `json:"function_calling"`
	SystemPrompt    bool    `json:"system_prompt"`
	MaxTokens       int     `json:"max_tokens"`
	InputCostPer1K  float64 `json:"input_cost_per_1k"`  // USD per 1000 input tokens
	OutputCostPer1K float64 `json:"output_cost_per_1k"` // USD per 1000 output tokens
}

// DefaultCapabilities is the permissive fallback for models absent from a
// capability table: text-only, 4096 output tokens, zero cost.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		SystemPrompt: true,
		MaxTokens:    4096,
	}
}

// CapabilityTable is a provider's static (model -> Capabilities) mapping.
// Read-only after construction; the sole source of truth for validation and
// cost calculation.
type CapabilityTable struct {
	provider string
	models   []string
	entries  map[string]Capabilities
	fallback func(model string) Capabilities
}

// NewCapabilityTable builds a table from an ordered model list and its
// capability entries. Entries must have MaxTokens > 0 and non-negative
// costs; a violation is a programming error in the static tables and panics.
func NewCapabilityTable(provider string, models []string, entries map[string]Capabilities) *CapabilityTable {
	for model, c := range entries {
		if c.MaxTokens <= 0 {
			panic(fmt.Sprintf("capability table %s: model %s has max_tokens %d", provider, model, c.MaxTokens))
		}
		if c.InputCostPer1K < 0 || c.OutputCostPer1K < 0 {
			panic(fmt.Sprintf("capability table %s: model %s has negative cost", provider, model))
		}
	}
	return &CapabilityTable{
		provider: provider,
		models:   models,
		entries:  entries,
	}
}

// WithFallback replaces the default-descriptor fallback for unknown models.
// Used by providers whose model namespace is open-ended (Groq vision
// previews, custom endpoints).
func (t *CapabilityTable) WithFallback(fn func(model string) Capabilities) *CapabilityTable {
	t.fallback = fn
	return t
}

// Provider returns the provider id the table belongs to.
func (t *CapabilityTable) Provider() string { return t.provider }

// Models returns a copy of the ordered model list.
func (t *CapabilityTable) Models() []string {
	out := make([]string, len(t.models))
	copy(out, t.models)
	return out
}

// Lookup returns the capability descriptor for a model. Total function:
// unknown models fall back to the table's fallback descriptor, never an
// error.
func (t *CapabilityTable) Lookup(model string) Capabilities {
	if c, ok := t.entries[model]; ok {
		return c
	}
	if t.fallback != nil {
		return t.fallback(model)
	}
	return DefaultCapabilities()
}
