// Package cohere adapts the Cohere chat API. Command models are text-only
// here; the capability tables say so and validation rejects image requests
// before any network traffic.
package cohere

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
)

const (
	providerName = "cohere"

	// DefaultModel is used when a request names no model.
	DefaultModel = "command-r-plus"
)

// chatURL is a var so tests can point the adapter at a stub server.
var chatURL = "https://api.cohere.com/v1/chat"

var models = []string{
	"command-r-plus",
	"command-r",
	"command",
	"command-light",
}

var capabilities = map[string]llm.Capabilities{
	"command-r-plus": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.003, OutputCostPer1K: 0.015,
	},
	"command-r": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.0005, OutputCostPer1K: 0.0015,
	},
	"command": {
		Streaming: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.001, OutputCostPer1K: 0.002,
	},
	"command-light": {
		Streaming: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.0003, OutputCostPer1K: 0.0006,
	},
}

// Table is the Cohere capability table.
var Table = llm.NewCapabilityTable(providerName, models, capabilities)

// v1/chat wire types.

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Text         string    `json:"text"`
	FinishReason string    `json:"finish_reason"`
	Meta         *chatMeta `json:"meta,omitempty"`
}

type chatMeta struct {
	Tokens *chatTokens `json:"tokens,omitempty"`
}

type chatTokens struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Adapter implements llm.Adapter for Cohere command models.
type Adapter struct {
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	retryer *retry.Retryer
}

// New returns the Cohere adapter.
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

// Generate calls v1/chat. Cohere takes a single message string, so the
// system prompt is folded ahead of the user prompt.
func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	model := DefaultModel
	if req != nil && req.Model != "" {
		model = req.Model
	}
	caps := Table.Lookup(model)
	if err := llm.ValidateRequest(req, model, providerName, caps, a.logger); err != nil {
		return nil, err
	}

	message := req.Prompt
	if req.SystemPrompt != "" {
		message = req.SystemPrompt + "\n\n" + message
	}
	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Message:     message,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
	}
	apiKey := a.resolveAPIKey(ctx)

	start := time.Now()
	wire, err := retry.DoTyped(a.retryer, ctx, func() (*chatResponse, error) {
		return a.doCall(ctx, payload, apiKey)
	})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	var inTok, outTok int
	if wire.Meta != nil && wire.Meta.Tokens != nil {
		inTok, outTok = wire.Meta.Tokens.InputTokens, wire.Meta.Tokens.OutputTokens
	} else {
		inTok, outTok = llm.ApproxTokens(message), llm.ApproxTokens(wire.Text)
	}

	return &llm.Response{
		Text:         wire.Text,
		Provider:     providerName,
		Model:        model,
		Latency:      latency,
		InputTokens:  inTok,
		OutputTokens: outTok,
		Cost:         llm.CalculateCost(inTok, outTok, caps),
		Metadata: map[string]any{
			"finish_reason": wire.FinishReason,
		},
	}, nil
}

func (a *Adapter) resolveAPIKey(ctx context.Context) string {
	if c, ok := llm.CredentialOverrideFromContext(ctx); ok && c.APIKey != "" {
		return c.APIKey
	}
	return a.apiKey
}

func (a *Adapter) doCall(ctx context.Context, payload []byte, apiKey string) (*chatResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
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

	var wire chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: err.Error(), Retryable: true, Provider: providerName}
	}
	return &wire, nil
}
