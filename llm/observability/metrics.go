// Package observability decorates adapters with OpenTelemetry metrics.
// Only the metric API is used here; wiring an SDK and exporter is the host
// application's concern, and without one the instruments are no-ops.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/meddiag/llmadapter/llm"
)

const meterName = "github.com/meddiag/llmadapter"

// Metrics holds the instruments shared by every instrumented adapter.
type Metrics struct {
	requests  metric.Int64Counter
	duration  metric.Float64Histogram
	tokensIn  metric.Int64Counter
	tokensOut metric.Int64Counter
	cost      metric.Float64Counter
}

// NewMetrics creates the instruments on the given provider, or on the
// global one when nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("llm.requests",
		metric.WithDescription("Completed generation requests by provider, model and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("llm.request.duration",
		metric.WithDescription("Generation latency including retries"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	tokensIn, err := meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Input tokens consumed"))
	if err != nil {
		return nil, fmt.Errorf("create input token counter: %w", err)
	}
	tokensOut, err := meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Output tokens produced"))
	if err != nil {
		return nil, fmt.Errorf("create output token counter: %w", err)
	}
	cost, err := meter.Float64Counter("llm.cost",
		metric.WithDescription("Estimated spend in USD"),
		metric.WithUnit("{USD}"))
	if err != nil {
		return nil, fmt.Errorf("create cost counter: %w", err)
	}

	return &Metrics{
		requests:  requests,
		duration:  duration,
		tokensIn:  tokensIn,
		tokensOut: tokensOut,
		cost:      cost,
	}, nil
}

// Instrument wraps an adapter so every Generate call records request count,
// latency, token throughput and cost. Name, Models and Capabilities pass
// through untouched.
func Instrument(a llm.Adapter, m *Metrics) llm.Adapter {
	if m == nil {
		return a
	}
	return &instrumented{inner: a, metrics: m}
}

type instrumented struct {
	inner   llm.Adapter
	metrics *Metrics
}

func (i *instrumented) Name() string { return i.inner.Name() }

func (i *instrumented) Models() []string { return i.inner.Models() }

func (i *instrumented) Capabilities(model string) llm.Capabilities {
	return i.inner.Capabilities(model)
}

func (i *instrumented) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	resp, err := i.inner.Generate(ctx, req)

	attrs := []attribute.KeyValue{
		attribute.String("provider", i.inner.Name()),
		attribute.String("outcome", outcome(err)),
	}
	if resp != nil {
		attrs = append(attrs, attribute.String("model", resp.Model))
	} else if req != nil && req.Model != "" {
		attrs = append(attrs, attribute.String("model", req.Model))
	}
	set := metric.WithAttributes(attrs...)

	i.metrics.requests.Add(ctx, 1, set)
	if resp != nil {
		i.metrics.duration.Record(ctx, resp.Latency.Seconds(), set)
		i.metrics.tokensIn.Add(ctx, int64(resp.InputTokens), set)
		i.metrics.tokensOut.Add(ctx, int64(resp.OutputTokens), set)
		i.metrics.cost.Add(ctx, resp.Cost, set)
	}
	return resp, err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if le, ok := err.(*llm.Error); ok {
		return string(le.Code)
	}
	return "error"
}
