package models

import "encoding/json"

// WSMessage is the envelope for frames sent to clients.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// InboundMessage is the envelope as read off the wire. Payload decoding is
// deferred until the type is known.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client → Server message types
const (
	MsgTypeSendQuestion = "SendQuestion"
	MsgTypeResetRoom    = "ResetRoom"
	MsgTypeSendAnswer   = "sendAnswer" // lower-case kept for client compatibility
	MsgTypeUpdateUsers  = "UpdateUsers"
)

// Server → Client message types. MsgTypeUpdateUsers is used in both directions:
// as a request it asks for a roster refresh, as a response it carries the roster.
const (
	MsgTypeUpdateQuestion = "UpdateQuestion"
	MsgTypeUpdateRoom     = "UpdateRoom"
	MsgTypeError          = "error"
)

// Inbound payloads.

type SendQuestionPayload struct {
	Question Question `json:"question"`
}

type SendAnswerPayload struct {
	Name   string `json:"name"`
	Answer string `json:"answer"`
}

// Outbound payloads.

type QuestionPayload struct {
	Question *Question `json:"question"`
}

type RosterPayload struct {
	Users []Participant `json:"users"`
}
