// Package ai abstracts the hosted LLM gateways behind a single Client
// interface. Provider selection happens once at startup; everything else in
// the application talks to the interface and stays provider agnostic.
package ai

import (
	"context"
	"fmt"

	"github.com/myrjola/hotseat/internal/ai/aierrors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

func System(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message      { return Message{Role: RoleUser, Content: content} }
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Defaults applied when a request leaves the field at zero.
const (
	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.8
)

// CompletionRequest is a single-turn completion. Zero MaxTokens and
// Temperature mean the defaults above; a literal zero temperature is not
// expressible, which none of our prompts need.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

func (r CompletionRequest) withDefaults() CompletionRequest {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}

	if r.Temperature <= 0 {
		r.Temperature = DefaultTemperature
	}

	return r
}

// Usage is the token accounting reported by the gateway. All zero when the
// gateway omits it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type CompletionResponse struct {
	Content string
	Usage   Usage
}

// Client is a connection to one LLM gateway.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	ModelName() string
}

// Supported providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGoogleAI   = "googleai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures the gateway.
type Config struct {
	// Provider is one of the Provider constants.
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the endpoint of OpenAI-compatible providers. Leave
	// empty for the provider's default.
	BaseURL string
}

// NewClient builds the raw gateway client for cfg. Middleware like retry and
// metrics is layered on top with Chain.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.Model == "" {
		return nil, aierrors.New(aierrors.TypeConfig, "LLM model is not set")
	}

	if cfg.APIKey == "" {
		return nil, aierrors.New(aierrors.TypeConfig, fmt.Sprintf("API key for LLM provider %q is not set", cfg.Provider))
	}

	switch cfg.Provider {
	case ProviderOpenRouter:
		if cfg.BaseURL == "" {
			cfg.BaseURL = openRouterBaseURL
		}
		return newOpenAIClient(cfg), nil
	case ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	case ProviderAnthropic:
		return newAnthropicClient(cfg), nil
	case ProviderGoogleAI:
		return newGoogleAIClient(ctx, cfg)
	default:
		return nil, aierrors.New(aierrors.TypeConfig, fmt.Sprintf("unknown LLM provider %q", cfg.Provider))
	}
}
