// Package azure adapts Azure OpenAI deployments. The wire dialect is the
// OpenAI one, but requests address a deployment name under the customer's
// own endpoint and authenticate with an api-key header, so it does not ride
// the shared openaicompat base.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meddiag/llmadapter/internal/tlsutil"
	"github.com/meddiag/llmadapter/llm"
	"github.com/meddiag/llmadapter/llm/providers"
	"github.com/meddiag/llmadapter/llm/retry"
)

const (
	providerName = "azure"
	apiVersion   = "2024-02-15-preview"

	// DefaultModel is the deployment name used when a request names none.
	DefaultModel = "gpt-4o"
)

// Deployment names, not model ids: Azure customers name their own
// deployments, and these are the conventional ones.
var models = []string{
	"gpt-4o",
	"gpt-4-turbo",
	"gpt-4-vision",
	"gpt-4",
	"gpt-35-turbo",
}

var capabilities = map[string]llm.Capabilities{
	"gpt-4o": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.005, OutputCostPer1K: 0.015,
	},
	"gpt-4-turbo": {
		Vision: true, Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.01, OutputCostPer1K: 0.03,
	},
	"gpt-4-vision": {
		Vision: true, Streaming: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.01, OutputCostPer1K: 0.03,
	},
	"gpt-4": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 8192, InputCostPer1K: 0.03, OutputCostPer1K: 0.06,
	},
	"gpt-35-turbo": {
		Streaming: true, FunctionCalling: true, SystemPrompt: true,
		MaxTokens: 4096, InputCostPer1K: 0.0005, OutputCostPer1K: 0.0015,
	},
}

// Table is the Azure OpenAI capability table, keyed by deployment name.
var Table = llm.NewCapabilityTable(providerName, models, capabilities)

// Adapter implements llm.Adapter against one Azure OpenAI resource.
type Adapter struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	retryer  *retry.Retryer
}

// New builds the adapter. Both the key and the resource endpoint are
// required; Azure credentials are unusable in halves.
func New(apiKey, endpoint string, logger *zap.Logger) (*Adapter, error) {
	if endpoint == "" {
		return nil, &llm.Error{
			Code:     llm.ErrAuthentication,
			Message:  "azure openai endpoint is required",
			Provider: providerName,
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   tlsutil.Client(30 * time.Second),
		logger:   logger,
		retryer:  retry.New(nil, logger),
	}, nil
}

func (a *Adapter) Name() string { return providerName }

func (a *Adapter) Models() []string { return Table.Models() }

func (a *Adapter) Capabilities(model string) llm.Capabilities {
	return Table.Lookup(model)
}

// Generate calls the deployment's chat-completions route.
func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	deployment := DefaultModel
	if req != nil && req.Model != "" {
		deployment = req.Model
	}
	caps := Table.Lookup(deployment)
	if err := llm.ValidateRequest(req, deployment, providerName, caps, a.logger); err != nil {
		return nil, err
	}

	msgs, err := providers.BuildChatMessages(req, "high")
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
	}
	// Azure takes the deployment from the URL; the body's model field is
	// ignored but kept for dialect compatibility.
	payload, err := json.Marshal(providers.ChatCompletionRequest{
		Model:       deployment,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
	}
	apiKey, endpoint := a.resolveCredentials(ctx)
	callURL := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		endpoint, url.PathEscape(deployment), apiVersion)

	start := time.Now()
	wire, err := retry.DoTyped(a.retryer, ctx, func() (*providers.ChatCompletionResponse, error) {
		return a.doCall(ctx, callURL, payload, apiKey)
	})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	if len(wire.Choices) == 0 {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: "vendor returned no choices", Provider: providerName}
	}
	text := wire.Choices[0].Message.Content
	inTok, outTok := providers.TokenCounts(wire.Usage, deployment, req.Prompt, text)

	return &llm.Response{
		Text:         text,
		Provider:     providerName,
		Model:        deployment,
		Latency:      latency,
		InputTokens:  inTok,
		OutputTokens: outTok,
		Cost:         llm.CalculateCost(inTok, outTok, caps),
		Metadata: map[string]any{
			"finish_reason": wire.Choices[0].FinishReason,
			"api_version":   apiVersion,
		},
	}, nil
}

func (a *Adapter) resolveCredentials(ctx context.Context) (apiKey, endpoint string) {
	apiKey, endpoint = a.apiKey, a.endpoint
	if c, ok := llm.CredentialOverrideFromContext(ctx); ok {
		if c.APIKey != "" {
			apiKey = c.APIKey
		}
		if c.Endpoint != "" {
			endpoint = strings.TrimRight(c.Endpoint, "/")
		}
	}
	return apiKey, endpoint
}

func (a *Adapter) doCall(ctx context.Context, callURL string, payload []byte, apiKey string) (*providers.ChatCompletionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("api-key", apiKey)
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

	var wire providers.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: err.Error(), Retryable: true, Provider: providerName}
	}
	return &wire, nil
}
