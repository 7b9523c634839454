package llm

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"
)

// Request is the standardized generation request accepted by every Adapter.
// The caller owns it exclusively; after creation the only permitted mutation
// is the downward MaxTokens clamp applied by ValidateRequest.
type Request struct {
	// TraceID correlates the request across logs and metrics.
	TraceID string `json:"trace_id,omitempty"`

	// Prompt is the user prompt. Required, non-empty.
	Prompt string `json:"prompt"`

	// Images are optional in-memory bitmaps attached to the prompt, in order.
	// The resolved model must support vision or the request is rejected
	// before any network call.
	Images []image.Image `json:"-"`

	// Temperature is passed through to the vendor unvalidated; out-of-range
	// values surface as vendor errors.
	Temperature float32 `json:"temperature,omitempty"`

	// MaxTokens is the requested output ceiling. Values above the model's
	// capability ceiling are clamped, not rejected.
	MaxTokens int `json:"max_tokens,omitempty"`

	// SystemPrompt is optional. Vendors without a native system slot fold it
	// into the prompt text.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model overrides the adapter's default model when non-empty.
	Model string `json:"model,omitempty"`

	// Stream requests streaming delivery where the model supports it.
	// Carried as metadata; the adapters in this module deliver complete
	// responses.
	Stream bool `json:"stream,omitempty"`
}

// NewRequest builds a Request with a fresh trace id and the historical
// defaults (temperature 0.1, 4000 output tokens).
func NewRequest(prompt string) *Request {
	return &Request{
		TraceID:     uuid.NewString(),
		Prompt:      prompt,
		Temperature: 0.1,
		MaxTokens:   4000,
	}
}

// Response is the standardized generation result. It is created once per
// successful call and owned by the caller afterwards.
type Response struct {
	// Text is the generated completion.
	Text string `json:"text"`

	// Provider is the id of the adapter that produced the response.
	Provider string `json:"provider"`

	// Model is the resolved model identifier.
	Model string `json:"model"`

	// Latency is wall-clock time measured strictly around the retry-wrapped
	// network call, including backoff sleeps.
	Latency time.Duration `json:"latency"`

	// InputTokens and OutputTokens are vendor-reported where available,
	// otherwise estimated (see ApproxTokens).
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Cost in USD, derived from the capability table prices.
	Cost float64 `json:"cost"`

	// Metadata preserves provider-specific fields (finish/stop reason, ...).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Adapter is the uniform contract implemented once per vendor. Instances own
// their vendor HTTP client exclusively and hold no other mutable state, so a
// single instance is safe for sequential reuse within a session.
type Adapter interface {
	// Name returns the provider id (e.g. "openai", "anthropic").
	Name() string

	// Models returns the ordered list of known model identifiers. Built-in
	// vendors serve a static list; custom endpoints may discover models from
	// the vendor and fall back to their default model on failure.
	Models() []string

	// Capabilities returns the capability descriptor for a model. Total:
	// unknown models yield the table's fallback descriptor.
	Capabilities(model string) Capabilities

	// Generate performs a synchronous completion. It blocks until the vendor
	// responds or retries are exhausted; failures are *Error values from the
	// shared taxonomy.
	Generate(ctx context.Context, req *Request) (*Response, error)
}
