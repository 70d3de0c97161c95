package llm

import (
	"context"
	"fmt"
	"strings"
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

// Completer sends an ordered conversation to a model and returns the full reply text.
// Implementations impose no timeout of their own; callers bound ctx.
type Completer interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
	Close() error
}

type Config struct {
	Provider       string // vertex | gemini | openai
	Model          string
	VertexProject  string
	VertexLocation string
	GeminiAPIKey   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
}

func New(ctx context.Context, cfg Config) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "vertex":
		return NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.Model)
	case "gemini":
		return NewGeminiAPI(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "openai":
		return NewOpenAIChat(ctx, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// splitSystem separates leading system messages from the conversation. Gemini
// backends need at least one user turn, so a system-only conversation is
// returned as a single user turn instead.
func splitSystem(msgs []Message) (system []string, rest []Message) {
	i := 0
	for i < len(msgs) && msgs[i].Role == RoleSystem {
		system = append(system, msgs[i].Content)
		i++
	}
	rest = msgs[i:]
	if len(rest) == 0 && len(system) > 0 {
		return nil, []Message{{Role: RoleUser, Content: strings.Join(system, "\n\n")}}
	}
	return system, rest
}

// openingTurn stands in for the user turn Gemini expects before the first model turn.
const openingTurn = "Please begin."

// geminiTurns reshapes the non-system conversation into strictly alternating
// user/model turns that start and end with a user turn. Consecutive messages
// that map to the same role, such as a candidate answer followed by a trailing
// system instruction, are joined into one turn.
func geminiTurns(rest []Message) []Message {
	out := make([]Message, 0, len(rest)+1)
	for _, m := range rest {
		role := RoleUser
		if m.Role == RoleAssistant {
			role = RoleAssistant
		}
		if len(out) == 0 && role == RoleAssistant {
			out = append(out, Message{Role: RoleUser, Content: openingTurn})
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, Message{Role: role, Content: m.Content})
	}
	if len(out) == 0 || out[len(out)-1].Role != RoleUser {
		out = append(out, Message{Role: RoleUser, Content: openingTurn})
	}
	return out
}

// geminiRole maps roles onto the two roles Gemini accepts in contents.
func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}
