// Package metrics records Prometheus metrics for LLM gateway calls. When a
// gateway omits token usage, counts are estimated with a tiktoken codec so
// the token counters stay meaningful across providers.
package metrics

import (
	"context"
	"time"

	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tiktoken-go/tokenizer"
)

// Recorder holds the metric vectors for one gateway provider.
type Recorder struct {
	provider        string
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	codec           tokenizer.Codec
}

// NewRecorder registers the LLM metrics with registerer. Every server run
// carries its own registry so repeated startups in one process never collide
// on registration.
func NewRecorder(registerer prometheus.Registerer, provider string) *Recorder {
	factory := promauto.With(registerer)

	// The exact encoding barely matters for estimation, GPT-4 is close
	// enough for all the gateways we talk to. A nil codec falls back to a
	// character count heuristic.
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		codec = nil
	}

	return &Recorder{
		provider: provider,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by provider, model, and outcome",
			},
			[]string{"provider", "model", "outcome"},
		),
		tokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total number of tokens used in LLM requests",
			},
			[]string{"provider", "model", "kind", "source"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
			},
			[]string{"provider", "model", "outcome"},
		),
		codec: codec,
	}
}

// Middleware returns metrics middleware backed by the recorder.
func Middleware(recorder *Recorder) ai.Middleware {
	return func(next ai.Client) ai.Client {
		return ai.WrapClient(
			func(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
				start := time.Now()
				resp, err := next.Complete(ctx, req)
				recorder.observe(next.ModelName(), req, resp, err, time.Since(start))
				return resp, err
			},
			next.ModelName,
		)
	}
}

func (r *Recorder) observe(model string, req ai.CompletionRequest, resp ai.CompletionResponse, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = aierrors.TypeOf(err).String()
	}

	r.requestsTotal.WithLabelValues(r.provider, model, outcome).Inc()
	r.requestDuration.WithLabelValues(r.provider, model, outcome).Observe(duration.Seconds())

	if err != nil {
		return
	}

	usage := resp.Usage
	source := "reported"
	if usage.TotalTokens == 0 {
		source = "estimated"
		for _, message := range req.Messages {
			usage.PromptTokens += r.countTokens(message.Content)
		}
		usage.CompletionTokens = r.countTokens(resp.Content)
	}

	r.tokensTotal.WithLabelValues(r.provider, model, "prompt", source).Add(float64(usage.PromptTokens))
	r.tokensTotal.WithLabelValues(r.provider, model, "completion", source).Add(float64(usage.CompletionTokens))
}

func (r *Recorder) countTokens(text string) int {
	if r.codec == nil {
		return len(text) / 4
	}

	count, err := r.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}

	return count
}
