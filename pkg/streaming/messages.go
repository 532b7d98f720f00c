// Package streaming defines the messages exchanged over the live map
// WebSocket.
package streaming

import (
	"encoding/json"
	"fmt"
)

// Message types.
const (
	// server → client
	TypeState = "state"
	TypeDelta = "delta"
	TypeError = "error"
	TypeAck   = "ack"

	// client → server
	TypeEvent = "event"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is the server's acknowledgement of a client event.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the command being acknowledged
}

// ErrorPayload reports a rejected client event.
type ErrorPayload struct {
	Command string `json:"command,omitempty"`
	Error   string `json:"error"`
}

// Encode wraps payload in an envelope of the given type.
func Encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Payload: raw})
}

// Ack encodes an acknowledgement for command.
func Ack(command string) ([]byte, error) {
	return json.Marshal(AckMessage{Type: TypeAck, For: command})
}
