// Package llmjson extracts strict JSON contracts from free-text completion replies.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidJSON means the reply could not be decoded at all.
	ErrInvalidJSON = errors.New("AI returned invalid JSON")
	// ErrInvalidShape means the reply decoded but broke the field contract.
	ErrInvalidShape = errors.New("AI response does not match contract")
)

const fence = "```"

// Clean trims raw and strips one surrounding markdown code fence, optionally tagged json.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = strings.TrimPrefix(s, fence)
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// Decode cleans raw and unmarshals it into dst. Types are not coerced.
func Decode(raw string, dst any) error {
	cleaned := Clean(raw)
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}
