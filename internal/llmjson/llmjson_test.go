package llmjson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "padded", raw: "  \n{\"a\":1}\n ", want: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "upper tag", raw: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "untagged fence", raw: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fence without newline", raw: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "unterminated fence", raw: "```json\n{\"a\":1}", want: `{"a":1}`},
		{name: "text before fence untouched", raw: "Sure! ```json {} ```", want: "Sure! ```json {} ```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw))
		})
	}
}

func TestFencedAndBareDecodeIdentically(t *testing.T) {
	bare := `{"message":"Great, can you describe a project?","isFinished":false}`
	fenced := "```json\n" + bare + "\n```"

	a, err := ParseChatTurn(bare)
	require.NoError(t, err)
	b, err := ParseChatTurn(fenced)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "Great, can you describe a project?", b.Message)
	assert.False(t, b.IsFinished)
}

func TestDecodeInvalidJSONIsTagged(t *testing.T) {
	for _, raw := range []string{"", "Hello there", "```json\n{\"message\": \n```", "{'message': 'x'}"} {
		var turn ChatTurn
		err := Decode(raw, &turn)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrInvalidJSON), raw)
		assert.False(t, errors.Is(err, ErrInvalidShape), raw)
	}
}

func TestDecodeDoesNotCoerce(t *testing.T) {
	var turn ChatTurn
	err := Decode(`{"message":"hi","isFinished":"true"}`, &turn)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestParseChatTurnShape(t *testing.T) {
	_, err := ParseChatTurn(`{"isFinished":true}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidShape)

	turn, err := ParseChatTurn(`{"message":"Thanks, that's all.","isFinished":true}`)
	require.NoError(t, err)
	assert.True(t, turn.IsFinished)
}

func TestParseChatTurnRequiresIsFinished(t *testing.T) {
	for _, raw := range []string{
		`{"message":"Next question?"}`,
		`{"message":"Next question?","isFinished":null}`,
	} {
		_, err := ParseChatTurn(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidShape)
		assert.Contains(t, err.Error(), "isFinished")
	}

	turn, err := ParseChatTurn(`{"message":"Next question?","isFinished":false}`)
	require.NoError(t, err)
	assert.False(t, turn.IsFinished)
}

func TestParseEvaluation(t *testing.T) {
	ev, err := ParseEvaluation("```json\n{\"score\":82,\"summary\":\"Solid technical depth, weak communication.\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, 82, ev.Score)
	assert.Equal(t, "Solid technical depth, weak communication.", ev.Summary)

	_, err = ParseEvaluation(`{"score":101,"summary":"x"}`)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = ParseEvaluation(`{"score":-1,"summary":"x"}`)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = ParseEvaluation(`{"score":50,"summary":"  "}`)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = ParseEvaluation(`{"score":82.5,"summary":"x"}`)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}
