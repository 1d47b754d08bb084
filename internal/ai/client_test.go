package ai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/ai/aierrors"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ai.Config
	}{
		{
			name: "missing model",
			cfg:  ai.Config{Provider: ai.ProviderOpenRouter, APIKey: "key"},
		},
		{
			name: "missing API key",
			cfg:  ai.Config{Provider: ai.ProviderOpenRouter, Model: "google/gemini-2.0-flash-001"},
		},
		{
			name: "unknown provider",
			cfg:  ai.Config{Provider: "sibyl", Model: "oracle-1", APIKey: "key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ai.NewClient(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.True(t, aierrors.Is(err, aierrors.TypeConfig), "want config error, got %v", err)
		})
	}
}

func TestNewClient_openAICompatible(t *testing.T) {
	t.Parallel()

	for _, provider := range []string{ai.ProviderOpenRouter, ai.ProviderOpenAI} {
		client, err := ai.NewClient(context.Background(), ai.Config{
			Provider: provider,
			Model:    "google/gemini-2.0-flash-001",
			APIKey:   "test-key",
		})
		require.NoError(t, err)
		assert.Equal(t, "google/gemini-2.0-flash-001", client.ModelName())
	}
}

// newGatewayClient points an OpenAI-compatible client at a test server.
func newGatewayClient(t *testing.T, handler http.HandlerFunc) ai.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ai.NewClient(context.Background(), ai.Config{
		Provider: ai.ProviderOpenRouter,
		Model:    "test-model",
		APIKey:   "test-key",
		BaseURL:  server.URL + "/v1",
	})
	require.NoError(t, err)

	return client
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	var gotRequest openai.ChatCompletionRequest
	client := newGatewayClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		resp := openai.ChatCompletionResponse{
			ID:    "cmpl-1",
			Model: "test-model",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    "assistant",
					Content: "  Solid answer with concrete examples.  ",
				},
			}},
			Usage: openai.Usage{PromptTokens: 42, CompletionTokens: 10, TotalTokens: 52},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	resp, err := client.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{
			ai.System("You are an interviewer."),
			ai.User("Evaluate my answer."),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Solid answer with concrete examples.", resp.Content)
	assert.Equal(t, 52, resp.Usage.TotalTokens)

	// Defaults fill in when the request leaves them zero.
	assert.Equal(t, ai.DefaultMaxTokens, gotRequest.MaxTokens)
	assert.InDelta(t, ai.DefaultTemperature, gotRequest.Temperature, 0.001)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
}

func TestClient_Complete_rateLimited(t *testing.T) {
	t.Parallel()

	client := newGatewayClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded","type":"rate_limit_exceeded"}}`)
	})

	_, err := client.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{ai.User("hello")},
	})
	require.Error(t, err)
	assert.True(t, aierrors.Is(err, aierrors.TypeQuota), "want quota error, got %v", err)
	assert.True(t, aierrors.IsRetryable(err))
}

func TestClient_Complete_emptyContent(t *testing.T) {
	t.Parallel()

	client := newGatewayClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","choices":[{"message":{"role":"assistant","content":"  "}}]}`)
	})

	_, err := client.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{ai.User("hello")},
	})
	require.Error(t, err)
	assert.True(t, aierrors.Is(err, aierrors.TypeEmptyResponse), "want empty response error, got %v", err)
	assert.False(t, aierrors.IsRetryable(err))
}

func TestChain(t *testing.T) {
	t.Parallel()

	base := ai.WrapClient(
		func(_ context.Context, _ ai.CompletionRequest) (ai.CompletionResponse, error) {
			return ai.CompletionResponse{Content: "base"}, nil
		},
		func() string { return "base-model" },
	)

	tag := func(name string) ai.Middleware {
		return func(next ai.Client) ai.Client {
			return ai.WrapClient(
				func(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
					resp, err := next.Complete(ctx, req)
					resp.Content = name + ">" + resp.Content
					return resp, err
				},
				next.ModelName,
			)
		}
	}

	chained := ai.Chain(base, tag("outer"), tag("inner"))

	resp, err := chained.Complete(context.Background(), ai.CompletionRequest{})
	require.NoError(t, err)
	// The first middleware wraps outermost, so its tag is applied last.
	assert.Equal(t, "outer>inner>base", resp.Content)
	assert.Equal(t, "base-model", chained.ModelName())
}
