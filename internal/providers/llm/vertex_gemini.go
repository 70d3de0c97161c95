package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	if projectID == "" {
		return nil, errors.New("vertex project id is required")
	}
	if location == "" {
		location = "us-central1"
	}
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

// Complete builds a fresh model per call so concurrent requests never share a
// system instruction.
func (v *VertexGemini) Complete(ctx context.Context, msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return "", errors.New("no messages to send")
	}
	system, rest := splitSystem(msgs)
	rest = geminiTurns(rest)

	m := v.client.GenerativeModel(v.modelName)
	if len(system) > 0 {
		m.SystemInstruction = &vertexgenai.Content{
			Parts: []vertexgenai.Part{vertexgenai.Text(strings.Join(system, "\n\n"))},
		}
	}

	cs := m.StartChat()
	for _, msg := range rest[:len(rest)-1] {
		cs.History = append(cs.History, &vertexgenai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)},
		})
	}

	var b strings.Builder
	it := cs.SendMessageStream(ctx, vertexgenai.Text(rest[len(rest)-1].Content))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", err
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					b.WriteString(string(t))
				}
			}
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("vertex returned empty response")
	}
	return out, nil
}
