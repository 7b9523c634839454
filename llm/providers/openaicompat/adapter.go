package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/internal/tlsutil"
	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers"
	"github.com/meddiag/llmadapter/llm/retry"
)

// Config parameterizes an OpenAI-compatible adapter.
type Config struct {
	// ProviderName is the adapter id ("openai", "groq", "custom_local", ...).
	ProviderName string

	// APIKey authenticates every request unless overridden per call via
	// llm.WithCredentialOverride.
	APIKey string

	// BaseURL includes the API version prefix, e.g.
	// "https://api.openai.com/v1".
	BaseURL string

	// DefaultModel is used when the request names no model.
	DefaultModel string

	// Timeout bounds each HTTP attempt. Defaults to 30s.
	Timeout time.Duration

	// CompletionsPath and ModelsPath default to "/chat/completions" and
	// "/models".
	CompletionsPath string
	ModelsPath      string

	// ExtraHeaders are added to every request (OpenRouter attribution,
	// custom endpoint headers).
	ExtraHeaders map[string]string

	// ImageDetail is the resolution hint attached to image parts ("high"
	// for OpenAI; empty omits the field).
	ImageDetail string

	// Table is the provider's capability table. Required.
	Table *llm.CapabilityTable

	// Models is the static model list. When nil, Models() queries the
	// endpoint and falls back to DefaultModel on failure (custom
	// endpoints).
	Models []string

	// Policy overrides the default retry policy.
	Policy *retry.Policy

	// IncludeBaseURLMetadata adds the base URL to response metadata so
	// callers can tell custom endpoints apart.
	IncludeBaseURLMetadata bool
}

// Adapter implements llm.Adapter for the OpenAI chat-completions dialect.
type Adapter struct {
	cfg     Config
	client  *http.Client
	logger  *zap.Logger
	retryer *retry.Retryer
}

// New builds an Adapter. The capability table must be set; everything else
// has defaults.
func New(cfg Config, logger *zap.Logger) *Adapter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CompletionsPath == "" {
		cfg.CompletionsPath = "/chat/completions"
	}
	if cfg.ModelsPath == "" {
		cfg.ModelsPath = "/models"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		cfg:     cfg,
		client:  tlsutil.Client(cfg.Timeout),
		logger:  logger,
		retryer: retry.New(cfg.Policy, logger),
	}
}

func (a *Adapter) Name() string { return a.cfg.ProviderName }

// Models returns the static catalog when one is configured. Custom
// endpoints discover models from GET {base}/models and fall back to the
// configured default model when the listing call fails.
func (a *Adapter) Models() []string {
	if a.cfg.Models != nil {
		out := make([]string, len(a.cfg.Models))
		copy(out, a.cfg.Models)
		return out
	}
	ids, err := a.listRemoteModels()
	if err != nil || len(ids) == 0 {
		return []string{a.cfg.DefaultModel}
	}
	return ids
}

func (a *Adapter) Capabilities(model string) llm.Capabilities {
	return a.cfg.Table.Lookup(model)
}

// Generate implements the standard pipeline: validate, translate, call
// through the retry wrapper, account tokens and cost.
func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	model := a.resolveModel(req)
	caps := a.cfg.Table.Lookup(model)
	if err := llm.ValidateRequest(req, model, a.Name(), caps, a.logger); err != nil {
		return nil, err
	}

	msgs, err := providers.BuildChatMessages(req, a.cfg.ImageDetail)
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: a.Name()}
	}
	payload, err := json.Marshal(providers.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: a.Name()}
	}
	apiKey := a.resolveAPIKey(ctx)

	start := time.Now()
	wire, err := retry.DoTyped(a.retryer, ctx, func() (*providers.ChatCompletionResponse, error) {
		return a.doCall(ctx, payload, apiKey)
	})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	if len(wire.Choices) == 0 {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: "vendor returned no choices", Provider: a.Name()}
	}
	text := wire.Choices[0].Message.Content
	inTok, outTok := providers.TokenCounts(wire.Usage, model, req.Prompt, text)

	metadata := map[string]any{
		"finish_reason": wire.Choices[0].FinishReason,
	}
	if wire.ID != "" {
		metadata["id"] = wire.ID
	}
	if a.cfg.IncludeBaseURLMetadata {
		metadata["base_url"] = a.cfg.BaseURL
	}

	return &llm.Response{
		Text:         text,
		Provider:     a.Name(),
		Model:        model,
		Latency:      latency,
		InputTokens:  inTok,
		OutputTokens: outTok,
		Cost:         llm.CalculateCost(inTok, outTok, caps),
		Metadata:     metadata,
	}, nil
}

func (a *Adapter) resolveModel(req *llm.Request) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	return a.cfg.DefaultModel
}

func (a *Adapter) resolveAPIKey(ctx context.Context) string {
	if c, ok := llm.CredentialOverrideFromContext(ctx); ok {
		if k := strings.TrimSpace(c.APIKey); k != "" {
			return k
		}
	}
	return a.cfg.APIKey
}

func (a *Adapter) endpoint(path string) string {
	return strings.TrimRight(a.cfg.BaseURL, "/") + path
}

func (a *Adapter) applyHeaders(httpReq *http.Request, apiKey string) {
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range a.cfg.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}
}

// doCall performs one HTTP attempt and normalizes its failure modes.
func (a *Adapter) doCall(ctx context.Context, payload []byte, apiKey string) (*providers.ChatCompletionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint(a.cfg.CompletionsPath), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	a.applyHeaders(httpReq, apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, providers.NetworkError(err, a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(resp.Body)
		return nil, providers.MapHTTPError(resp.StatusCode, msg, a.Name())
	}

	var wire providers.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: err.Error(), Retryable: true, Provider: a.Name()}
	}
	return &wire, nil
}

func (a *Adapter) listRemoteModels() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint(a.cfg.ModelsPath), nil)
	if err != nil {
		return nil, err
	}
	a.applyHeaders(httpReq, a.cfg.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model listing failed: status=%d", resp.StatusCode)
	}

	var list providers.ModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
