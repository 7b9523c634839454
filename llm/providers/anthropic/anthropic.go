// Package anthropic adapts the Anthropic Messages API. Claude speaks its
// own dialect: a top-level system field, content blocks instead of message
// parts, and base64 source blocks for images.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/internal/tlsutil"
	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers"
	"github.com/meddiag/llmadapter/llm/retry"
	"github.com/meddiag/llmadapter/llm/vision"
)

const (
	providerName     = "anthropic"
	anthropicVersion = "2023-06-01"

	// DefaultModel is used when a request names no model.
	DefaultModel = "claude-3-5-sonnet-20241022"
)

// messagesURL is a var so tests can point the adapter at a stub server.
var messagesURL = "https://api.anthropic.com/v1/messages"

var models = []string{
	"claude-3-5-sonnet-20241022",
	"claude-3-opus-20240229",
	"claude-3-sonnet-20240229",
	"claude-3-haiku-20240307",
}

var capabilities = map[string]llm.Capabilities{
	"claude-3-5-sonnet-20241022": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.003, OutputCostPer1K: 0.015,
	},
	"claude-3-opus-20240229": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.015, OutputCostPer1K: 0.075,
	},
	"claude-3-sonnet-20240229": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.003, OutputCostPer1K: 0.015,
	},
	"claude-3-haiku-20240307": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.00025, OutputCostPer1K: 0.00125,
	},
}

// Table is the Anthropic capability table.
var Table = llm.NewCapabilityTable(providerName, models, capabilities)

// Messages API wire types.

type contentBlock struct {
	Type   string       `json:"type"` // "text" or "image"
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float32        `json:"temperature,omitempty"`
	System      string         `json:"system,omitempty"`
	Messages    []messageParam `json:"messages"`
}

type messageParam struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	StopReason string         `json:"stop_reason"`
	Content    []contentBlock `json:"content"`
	Usage      *messagesUsage `json:"usage,omitempty"`
}

type messagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Adapter implements llm.Adapter for Claude models.
type Adapter struct {
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	retryer *retry.Retryer
}

// New returns the Anthropic adapter. Opus generations are slow, so the
// client timeout is wider than the other vendors'.
func New(apiKey string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		apiKey:  apiKey,
		client:  tlsutil.Client(60 * time.Second),
		logger:  logger,
		retryer: retry.New(nil, logger),
	}
}

func (a *Adapter) Name() string { return providerName }

func (a *Adapter) Models() []string { return Table.Models() }

func (a *Adapter) Capabilities(model string) llm.Capabilities {
	return Table.Lookup(model)
}

// Generate calls the Messages API: images as base64 source blocks ahead of
// the text block, system prompt in the top-level field.
func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	model := DefaultModel
	if req != nil && req.Model != "" {
		model = req.Model
	}
	caps := Table.Lookup(model)
	if err := llm.ValidateRequest(req, model, providerName, caps, a.logger); err != nil {
		return nil, err
	}

	blocks := make([]contentBlock, 0, len(req.Images)+1)
	for _, img := range req.Images {
		b64, err := vision.Base64PNG(img)
		if err != nil {
			return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
		}
		blocks = append(blocks, contentBlock{
			Type:   "image",
			Source: &imageSource{Type: "base64", MediaType: "image/png", Data: b64},
		})
	}
	blocks = append(blocks, contentBlock{Type: "text", Text: req.Prompt})

	payload, err := json.Marshal(messagesRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages:    []messageParam{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
	}
	apiKey := a.resolveAPIKey(ctx)

	start := time.Now()
	wire, err := retry.DoTyped(a.retryer, ctx, func() (*messagesResponse, error) {
		return a.doCall(ctx, payload, apiKey)
	})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	if len(wire.Content) == 0 {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: "vendor returned no content blocks", Provider: providerName}
	}
	text := wire.Content[0].Text

	var inTok, outTok int
	if wire.Usage != nil {
		inTok, outTok = wire.Usage.InputTokens, wire.Usage.OutputTokens
	} else {
		counter := llm.CounterForModel(model)
		inTok, outTok = counter.Count(req.Prompt), counter.Count(text)
	}

	return &llm.Response{
		Text:         text,
		Provider:     providerName,
		Model:        model,
		Latency:      latency,
		InputTokens:  inTok,
		OutputTokens: outTok,
		Cost:         llm.CalculateCost(inTok, outTok, caps),
		Metadata: map[string]any{
			"stop_reason": wire.StopReason,
		},
	}, nil
}

func (a *Adapter) resolveAPIKey(ctx context.Context) string {
	if c, ok := llm.CredentialOverrideFromContext(ctx); ok && c.APIKey != "" {
		return c.APIKey
	}
	return a.apiKey
}

func (a *Adapter) doCall(ctx context.Context, payload []byte, apiKey string) (*messagesResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, messagesURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
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

	var wire messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: err.Error(), Retryable: true, Provider: providerName}
	}
	return &wire, nil
}
