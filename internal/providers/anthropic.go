package providers

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/selimbz/eventra/internal/coordinator"
)

// AnthropicClient implements coordinator.Generator via the Anthropic SDK.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic-backed generator.
func NewAnthropicClient(apiKey, modelName string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is empty")
	}
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  modelName,
	}, nil
}

// Generate implements coordinator.Generator.
func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt string, history []coordinator.ChatMessage) (string, error) {
	systemParts := []anthropic.MessageSystemPart{{
		Type: "text",
		Text: systemPrompt,
	}}

	var msgs []anthropic.Message
	for _, msg := range history {
		switch msg.Role {
		case coordinator.RoleSystem:
			// History-level system notes fold into the system block.
			systemParts = append(systemParts, anthropic.MessageSystemPart{
				Type: "text",
				Text: msg.Content,
			})
		case coordinator.RoleUser:
			msgs = append(msgs, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		case coordinator.RoleAssistant:
			if msg.Content == "" {
				continue
			}
			msgs = append(msgs, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		}
	}

	// Anthropic rejects conversations that do not start with a user turn.
	if len(msgs) == 0 || msgs[0].Role != anthropic.RoleUser {
		msgs = append([]anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent("Hello")},
		}}, msgs...)
	}

	temperature := float32(0.2)
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    msgs,
		MaxTokens:   4096,
		Temperature: &temperature,
		MultiSystem: systemParts,
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		httpStatus, retryAfter := extractErrorMetadata(err)
		return "", coordinator.WrapProviderError(err, httpStatus, retryAfter)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	return text, nil
}
