package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/selimbz/eventra/internal/coordinator"
)

// OpenAIClient implements coordinator.Generator via the OpenAI chat API.
// A base URL override makes it work with any OpenAI-compatible endpoint
// (Kimi, Gemini's compat layer, LM Studio).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI-backed generator.
func NewOpenAIClient(apiKey, modelName, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is empty")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}, nil
}

// Generate implements coordinator.Generator.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt string, history []coordinator.ChatMessage) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, msg := range history {
		switch msg.Role {
		case coordinator.RoleSystem:
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: msg.Content,
			})
		case coordinator.RoleUser:
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case coordinator.RoleAssistant:
			if msg.Content == "" {
				continue
			}
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Content,
			})
		}
	}

	temperature := float32(0.2)
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: &temperature,
	})
	if err != nil {
		httpStatus, retryAfter := extractErrorMetadata(err)
		return "", coordinator.WrapProviderError(err, httpStatus, retryAfter)
	}

	if len(resp.Choices) == 0 {
		return "", coordinator.WrapProviderError(fmt.Errorf("no completion choices returned"), 0, "")
	}
	return resp.Choices[0].Message.Content, nil
}

// extractErrorMetadata pulls an HTTP status and Retry-After hint out of a
// provider error string. Both SDKs flatten response metadata into the error
// message, so string inspection is the common denominator.
func extractErrorMetadata(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	errStr := err.Error()
	var httpStatus int
	var retryAfter string

	switch {
	case strings.Contains(errStr, "429"):
		httpStatus = http.StatusTooManyRequests
	case strings.Contains(errStr, "500"):
		httpStatus = http.StatusInternalServerError
	case strings.Contains(errStr, "502"):
		httpStatus = http.StatusBadGateway
	case strings.Contains(errStr, "503"):
		httpStatus = http.StatusServiceUnavailable
	case strings.Contains(errStr, "504"):
		httpStatus = http.StatusGatewayTimeout
	case strings.Contains(errStr, "401"):
		httpStatus = http.StatusUnauthorized
	case strings.Contains(errStr, "403"):
		httpStatus = http.StatusForbidden
	case strings.Contains(errStr, "402"):
		httpStatus = http.StatusPaymentRequired
	case strings.Contains(errStr, "400"):
		httpStatus = http.StatusBadRequest
	}

	if idx := strings.Index(strings.ToLower(errStr), "retry-after"); idx != -1 {
		remaining := strings.TrimLeft(errStr[idx+len("retry-after"):], ": ")
		fields := strings.Fields(remaining)
		if len(fields) > 0 {
			retryAfter = strings.Trim(fields[0], ",;")
		}
	}

	return httpStatus, retryAfter
}
