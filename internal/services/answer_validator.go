package services

import (
	"strings"

	"github.com/itnxhuy1806/socket-game-be/internal/config"
)

// AnswerValidator sanitizes submitted answer text before it is recorded.
type AnswerValidator struct {
	maxLength int
}

func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{maxLength: config.MaxAnswerLength}
}

// Sanitize trims the answer and rejects oversized or control-character input.
// Rejection is reported to the caller, never to the client.
func (v *AnswerValidator) Sanitize(answer string) (string, bool) {
	answer = strings.TrimSpace(answer)

	if len(answer) > v.maxLength {
		return "", false
	}

	for _, r := range answer {
		if (r < 32 && r != '\n' && r != '\t') || r == 127 {
			return "", false
		}
	}

	return answer, true
}
