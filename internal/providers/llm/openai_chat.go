package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
)

// OpenAIChat serves any OpenAI-compatible chat endpoint through eino.
type OpenAIChat struct {
	model *openai.ChatModel
}

func NewOpenAIChat(ctx context.Context, apiKey, baseURL, modelName string) (*OpenAIChat, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &OpenAIChat{model: m}, nil
}

func (o *OpenAIChat) Close() error { return nil }

func (o *OpenAIChat) Complete(ctx context.Context, msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return "", errors.New("no messages to send")
	}
	resp, err := o.model.Generate(ctx, toSchemaMessages(msgs))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errors.New("openai returned empty response")
	}
	return resp.Content, nil
}

func toSchemaMessages(msgs []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		var role schema.RoleType
		switch m.Role {
		case RoleSystem:
			role = schema.System
		case RoleAssistant:
			role = schema.Assistant
		default:
			role = schema.User
		}
		out = append(out, &schema.Message{Role: role, Content: m.Content})
	}
	return out
}
