package llmjson

import (
	"fmt"
	"strings"
)

// ChatTurn is the reply contract for one interview turn.
type ChatTurn struct {
	Message    string `json:"message"`
	IsFinished bool   `json:"isFinished"`
}

func (t ChatTurn) Validate() error {
	if strings.TrimSpace(t.Message) == "" {
		return fmt.Errorf("%w: message is empty", ErrInvalidShape)
	}
	return nil
}

// Evaluation is the reply contract for the final report.
type Evaluation struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

func (e Evaluation) Validate() error {
	if e.Score < 0 || e.Score > 100 {
		return fmt.Errorf("%w: score %d outside 0-100", ErrInvalidShape, e.Score)
	}
	if strings.TrimSpace(e.Summary) == "" {
		return fmt.Errorf("%w: summary is empty", ErrInvalidShape)
	}
	return nil
}

// chatTurnWire tells an absent or null isFinished apart from false.
type chatTurnWire struct {
	Message    string `json:"message"`
	IsFinished *bool  `json:"isFinished"`
}

func ParseChatTurn(raw string) (*ChatTurn, error) {
	var w chatTurnWire
	if err := Decode(raw, &w); err != nil {
		return nil, err
	}
	if w.IsFinished == nil {
		return nil, fmt.Errorf("%w: isFinished is missing", ErrInvalidShape)
	}
	t := ChatTurn{Message: w.Message, IsFinished: *w.IsFinished}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func ParseEvaluation(raw string) (*Evaluation, error) {
	var e Evaluation
	if err := Decode(raw, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
