package security

import (
	"github.com/coder/websocket"

	"github.com/itnxhuy1806/socket-game-be/internal/models"
)

// WebSocket message type validation
var validMessageTypes = map[string]bool{
	models.MsgTypeSendQuestion: true,
	models.MsgTypeResetRoom:    true,
	models.MsgTypeSendAnswer:   true,
	models.MsgTypeUpdateUsers:  true,
}

// IsValidMessageType checks if a WebSocket message type is valid
func IsValidMessageType(msgType string) bool {
	return validMessageTypes[msgType]
}

// OriginValidator validates WebSocket connection origins
type OriginValidator struct {
	allowedPatterns []string
}

// NewOriginValidator creates a new origin validator
func NewOriginValidator(patterns []string) *OriginValidator {
	return &OriginValidator{
		allowedPatterns: patterns,
	}
}

// AcceptOptions returns websocket.AcceptOptions with the configured origin patterns
func (ov *OriginValidator) AcceptOptions() *websocket.AcceptOptions {
	return &websocket.AcceptOptions{
		OriginPatterns: ov.allowedPatterns,
	}
}
