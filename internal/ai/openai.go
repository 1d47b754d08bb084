package ai

import (
	"context"
	"strings"

	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"github.com/myrjola/hotseat/internal/errors"
	openai "github.com/sashabaranov/go-openai"
)

// openAIClient talks to OpenAI and OpenAI-compatible gateways such as
// OpenRouter. Only the base URL differs between them.
type openAIClient struct {
	client *openai.Client
	model  string
}

func newOpenAIClient(cfg Config) *openAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (c *openAIClient) ModelName() string {
	return c.model
}

func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	req = req.withDefaults()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, message := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	completion, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return CompletionResponse{}, classifyOpenAIError(err)
	}

	if len(completion.Choices) == 0 {
		return CompletionResponse{}, aierrors.New(aierrors.TypeEmptyResponse, "gateway returned no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return CompletionResponse{}, aierrors.New(aierrors.TypeEmptyResponse, "gateway returned empty content")
	}

	return CompletionResponse{
		Content: content,
		Usage: Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
	}, nil
}

// classifyOpenAIError prefers the HTTP status the SDK reports over string
// pattern matching.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return aierrors.FromStatusCode(apiErr.HTTPStatusCode, err)
	}

	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) {
		return aierrors.FromStatusCode(requestErr.HTTPStatusCode, err)
	}

	return aierrors.Classify(err)
}
