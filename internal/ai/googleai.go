package ai

import (
	"context"
	"strings"

	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"google.golang.org/genai"
)

type googleAIClient struct {
	client *genai.Client
	model  string
}

func newGoogleAIClient(ctx context.Context, cfg Config) (*googleAIClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, aierrors.WithCause(aierrors.TypeConfig, err, "create Gemini client")
	}

	return &googleAIClient{client: client, model: cfg.Model}, nil
}

func (c *googleAIClient) ModelName() string {
	return c.model
}

func (c *googleAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	req = req.withDefaults()

	contents, system := splitForGemini(req.Messages)
	if len(contents) == 0 {
		return CompletionResponse{}, aierrors.New(aierrors.TypeBadPrompt, "conversation has no user messages")
	}

	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return CompletionResponse{}, aierrors.Classify(err)
	}

	if result == nil {
		return CompletionResponse{}, aierrors.New(aierrors.TypeEmptyResponse, "gateway returned no response")
	}

	content := strings.TrimSpace(result.Text())
	if content == "" {
		return CompletionResponse{}, aierrors.New(aierrors.TypeEmptyResponse, "gateway returned empty content")
	}

	var usage Usage
	if result.UsageMetadata != nil {
		usage = Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return CompletionResponse{Content: content, Usage: usage}, nil
}

// splitForGemini converts messages to Gemini content, pulling system messages
// into the separate system instruction. Gemini names the assistant role
// "model".
func splitForGemini(messages []Message) ([]*genai.Content, string) {
	var systemParts []string
	var contents []*genai.Content

	for _, message := range messages {
		if message.Role == RoleSystem {
			systemParts = append(systemParts, message.Content)
			continue
		}

		role := "user"
		if message.Role == RoleAssistant {
			role = "model"
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: message.Content}},
		})
	}

	return contents, strings.Join(systemParts, "\n\n")
}
