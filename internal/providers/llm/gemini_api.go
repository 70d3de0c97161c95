package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiAPI talks to the Gemini developer API with an API key.
type GeminiAPI struct {
	client    *genai.Client
	modelName string
}

func NewGeminiAPI(ctx context.Context, apiKey, modelName string) (*GeminiAPI, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if modelName = strings.TrimSpace(modelName); modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiAPI{client: client, modelName: modelName}, nil
}

// Close is a no-op; the genai client holds no closable resources.
func (g *GeminiAPI) Close() error { return nil }

func (g *GeminiAPI) Complete(ctx context.Context, msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return "", errors.New("no messages to send")
	}
	system, rest := splitSystem(msgs)
	rest = geminiTurns(rest)

	var cfg *genai.GenerateContentConfig
	if len(system) > 0 {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
			},
		}
	}

	contents := make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		contents = append(contents, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return out, nil
}
