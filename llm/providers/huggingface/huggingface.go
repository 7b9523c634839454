// Package huggingface adapts the Hugging Face Inference API text-generation
// route. The hosted models are text-only and report no token accounting, so
// counts come from the word heuristic.
package huggingface

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
	providerName = "huggingface"

	// DefaultModel is used when a request names no model.
	DefaultModel = "meta-llama/Meta-Llama-3-8B-Instruct"
)

// baseURL is a var so tests can point the adapter at a stub server.
var baseURL = "https://api-inference.huggingface.co/models"

var models = []string{
	"meta-llama/Meta-Llama-3-8B-Instruct",
	"meta-llama/Meta-Llama-3-70B-Instruct",
	"mistralai/Mistral-7B-Instruct-v0.2",
	"mistralai/Mixtral-8x7B-Instruct-v0.1",
	"google/gemma-7b-it",
	"microsoft/Phi-3-mini-4k-instruct",
}

// describe covers every hosted model with one descriptor: text-only
// streaming with the free-tier zero cost.
func describe(string) llm.Capabilities {
	return llm.Capabilities{
		Streaming:    true,
		SystemPrompt: true,
		MaxTokens:    4096,
	}
}

// Table is the Hugging Face capability table. The hub namespace is
// open-ended, so the same descriptor serves listed and unlisted models.
var Table = llm.NewCapabilityTable(providerName, models, nil).WithFallback(describe)

// Inference API wire types.

type generateParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generated struct {
	GeneratedText string `json:"generated_text"`
}

// Adapter implements llm.Adapter for Inference API models.
type Adapter struct {
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	retryer *retry.Retryer
}

// New returns the Hugging Face adapter.
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

// Generate calls models/{model}. The system prompt is folded into a
// "System: ...\n\nUser: ..." preamble; the response is the bare
// continuation (return_full_text=false).
func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	model := DefaultModel
	if req != nil && req.Model != "" {
		model = req.Model
	}
	caps := Table.Lookup(model)
	if err := llm.ValidateRequest(req, model, providerName, caps, a.logger); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = fmt.Sprintf("System: %s\n\nUser: %s", req.SystemPrompt, req.Prompt)
	}
	payload, err := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens: req.MaxTokens,
			Temperature:  req.Temperature,
		},
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: err.Error(), Provider: providerName}
	}
	apiKey := a.resolveAPIKey(ctx)
	callURL := baseURL + "/" + urlEscapeModel(model)

	start := time.Now()
	wire, err := retry.DoTyped(a.retryer, ctx, func() ([]generated, error) {
		return a.doCall(ctx, callURL, payload, apiKey)
	})
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	if len(wire) == 0 {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: "vendor returned no generations", Provider: providerName}
	}
	text := wire[0].GeneratedText

	inTok, outTok := llm.ApproxTokens(prompt), llm.ApproxTokens(text)

	return &llm.Response{
		Text:         text,
		Provider:     providerName,
		Model:        model,
		Latency:      latency,
		InputTokens:  inTok,
		OutputTokens: outTok,
		Cost:         llm.CalculateCost(inTok, outTok, caps),
		Metadata:     map[string]any{},
	}, nil
}

// urlEscapeModel escapes the segments of an org/model id while keeping the
// separating slash.
func urlEscapeModel(model string) string {
	segs := strings.Split(model, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func (a *Adapter) resolveAPIKey(ctx context.Context) string {
	if c, ok := llm.CredentialOverrideFromContext(ctx); ok && c.APIKey != "" {
		return c.APIKey
	}
	return a.apiKey
}

func (a *Adapter) doCall(ctx context.Context, callURL string, payload []byte, apiKey string) ([]generated, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, bytes.NewReader(payload))
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

	// The route answers with a one-element array of generations.
	var wire []generated
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &llm.Error{Code: llm.ErrVendor, Message: err.Error(), Retryable: true, Provider: providerName}
	}
	return wire, nil
}
