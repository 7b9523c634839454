// Package gemini adapts the Google Generative Language API. Gemini takes
// content parts with inline base64 image data (no data URI envelope), has no
// dedicated system role on this route, and sometimes omits token accounting.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/internal/tlsutil"
	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers"
	"github.com/meddiag/llmadapter/llm/retry"
	"github.com/meddiag/llmadapter/llm/vision"
)

const (
	providerName = "gemini"

	// DefaultModel is used when a request names no model.
	DefaultModel = "gemini-2.0-flash-exp"
)

// baseURL is a var so tests can point the adapter at a stub server.
var baseURL = "https://generativelanguage.googleapis.com/v1beta"

var models = []string{
	"gemini-2.0-flash-exp",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

var capabilities = map[string]llm.Capabilities{
	"gemini-2.0-flash-exp": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, // free tier, zero cost
	},
	"gemini-1.5-pro": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.00125, OutputCostPer1K: 0.005,
	},
	"gemini-1.5-flash": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.000075, OutputCostPer1K: 0.0003,
	},
	"gemini-1.5-flash-8b": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.0000375, OutputCostPer1K: 0.00015,
	},
}

// Table is the Gemini capability table.
var Table = llm.NewCapabilityTable(providerName, models, capabilities)

// generateContent wire types.

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

// Adapter implements llm.Adapter for Gemini models.
type Adapter struct {
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	retryer *retry.Retryer
}

// New returns the Gemini adapter.
func New(apiKey string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		apiKey:  apiKey,
		client:  tlsutil.Client(30 * time.Second),
		logger:  logger,
		retryer: retry.New(nil, logger),
	}
}

func (a *Adapter) Name() string { return providerName }

func (a *Adapter) Models() []string { return Table.Models() }

func (a *Adapter) Capabilities(model string) llm.Capabilities {
	return Table.Lookup(model)
}

// Generate calls models/{model}:generateContent. The system prompt is
// folded into the user text since this route has no system role; token
// counts fall back to the heuristic when usageMetadata is absent.
func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	model := DefaultModel
	if req != nil && req.Model != "" {
		model = req.Model
	}
	caps := Table.Lookup(model)
	if err := llm.ValidateRequest(req, model, providerName, caps, a.logger); err != nil {
		return nil, err
	}

	parts := make([]part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		b64, err := vision.Base64PNG(img)
		if err != nil {
			return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
		}
		parts = append(parts, part{InlineData: &inlineData{MimeType: "image/png", Data: b64}})
	}
	text := req.Prompt
	if req.SystemPrompt != "" {
		text = req.SystemPrompt + "\n\n" + req.Prompt
	}
	parts = append(parts, part{Text: text})

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
	}
	apiKey := a.resolveAPIKey(ctx)
	callURL := fmt.Sprintf("%s/models/%s:generateContent", baseURL, url.PathEscape(model))

	start := time.Now()
	wire, err := retry.DoTyped(a.retryer, ctx, func() (*generateResponse, error) {
		return a.doCall(ctx, callURL, payload, apiKey)
	})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	if len(wire.Candidates) == 0 || len(wire.Candidates[0].Content.Parts) == 0 {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: "vendor returned no candidates", Provider: providerName}
	}
	answer := wire.Candidates[0].Content.Parts[0].Text

	var inTok, outTok int
	if wire.UsageMetadata != nil {
		inTok, outTok = wire.UsageMetadata.PromptTokenCount, wire.UsageMetadata.CandidatesTokenCount
	} else {
		inTok, outTok = llm.ApproxTokens(text), llm.ApproxTokens(answer)
	}

	return &llm.Response{
		Text:         answer,
		Provider:     providerName,
		Model:        model,
		Latency:      latency,
		InputTokens:  inTok,
		OutputTokens: outTok,
		Cost:         llm.CalculateCost(inTok, outTok, caps),
		Metadata: map[string]any{
			"finish_reason": wire.Candidates[0].FinishReason,
		},
	}, nil
}

func (a *Adapter) resolveAPIKey(ctx context.Context) string {
	if c, ok := llm.CredentialOverrideFromContext(ctx); ok && c.APIKey != "" {
		return c.APIKey
	}
	return a.apiKey
}

func (a *Adapter) doCall(ctx context.Context, callURL string, payload []byte, apiKey string) (*generateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, providers.NetworkError(err, providerName)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := providers.ReadErrorMessage(resp.Body)
		return nil, providers.MapHTTPError(resp.StatusCode, msg, providerName)
	}

	var wire generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: err.Error(), Retryable: true, Provider: providerName}
	}
	return &wire, nil
}
