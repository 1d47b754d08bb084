package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/myrjola/hotseat/internal/ai/aierrors"
)

type anthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

func newAnthropicClient(cfg Config) *anthropicClient {
	return &anthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  anthropic.Model(cfg.Model),
	}
}

func (c *anthropicClient) ModelName() string {
	return string(c.model)
}

func (c *anthropicClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	req = req.withDefaults()

	system, turns, err := splitForAnthropic(req.Messages)
	if err != nil {
		return CompletionResponse{}, err
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		Messages:    turns,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system, Type: "text"}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, aierrors.Classify(err)
	}

	if resp == nil || len(resp.Content) == 0 {
		return CompletionResponse{}, aierrors.New(aierrors.TypeEmptyResponse, "gateway returned no content blocks")
	}

	var text strings.Builder
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	content := strings.TrimSpace(text.String())
	if content == "" {
		return CompletionResponse{}, aierrors.New(aierrors.TypeEmptyResponse, "gateway returned empty content")
	}

	promptTokens := int(resp.Usage.InputTokens)
	completionTokens := int(resp.Usage.OutputTokens)

	return CompletionResponse{
		Content: content,
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

func anthropicTurn(role Role, content string) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRole(role),
		Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(content)},
	}
}

// splitForAnthropic extracts system messages into the top-level system
// parameter and merges consecutive user messages, since the Anthropic API
// requires strict user/assistant alternation starting with a user turn.
func splitForAnthropic(messages []Message) (string, []anthropic.MessageParam, error) {
	var systemParts []string
	var turns []anthropic.MessageParam
	var pendingUser []string

	flushUser := func() {
		if len(pendingUser) == 0 {
			return
		}
		turns = append(turns, anthropicTurn(RoleUser, strings.Join(pendingUser, "\n\n")))
		pendingUser = nil
	}

	for _, message := range messages {
		switch message.Role {
		case RoleSystem:
			systemParts = append(systemParts, message.Content)
		case RoleAssistant:
			if len(turns) == 0 && len(pendingUser) == 0 {
				return "", nil, aierrors.New(aierrors.TypeBadPrompt, "conversation must start with a user message")
			}
			flushUser()
			turns = append(turns, anthropicTurn(RoleAssistant, message.Content))
		default:
			pendingUser = append(pendingUser, message.Content)
		}
	}

	flushUser()

	if len(turns) == 0 {
		return "", nil, aierrors.New(aierrors.TypeBadPrompt, "conversation has no user messages")
	}

	if turns[len(turns)-1].Role != anthropic.MessageParamRole(RoleUser) {
		return "", nil, aierrors.New(aierrors.TypeBadPrompt, "conversation must end with a user message")
	}

	return strings.Join(systemParts, "\n\n"), turns, nil
}
