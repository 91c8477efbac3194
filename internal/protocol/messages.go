package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/hersh/blockfall/internal/game"
)

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Client messages
	MsgAssignID MessageType = "assign_id"
	MsgSnapshot MessageType = "snapshot"
	MsgGameOver MessageType = "game_over"
	MsgError    MessageType = "error"

	// Client -> Server messages
	MsgNewGame MessageType = "new_game"
	MsgIntent  MessageType = "intent"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// RawEnvelope is an Envelope whose payload has not been decoded yet.
type RawEnvelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses one wire message, leaving the payload raw.
func Decode(data []byte) (RawEnvelope, error) {
	var env RawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// Into decodes the payload into target.
func (e RawEnvelope) Into(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return fmt.Errorf("%s: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("%s payload: %w", e.Type, err)
	}
	return nil
}

// --- Server -> Client payloads ---

// AssignIDPayload is sent when a client first connects.
type AssignIDPayload struct {
	SessionID string `json:"session_id"`
}

// SnapshotPayload carries the session's game state after a frame that
// changed it.
type SnapshotPayload struct {
	Snapshot game.Snapshot `json:"snapshot"`
}

// GameOverPayload is sent once when the session's game tops out.
type GameOverPayload struct {
	Score int `json:"score"`
	Lines int `json:"lines"`
}

// ErrorPayload reports a rejected client message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// --- Client -> Server payloads ---

// IntentPayload forwards one player intent.
type IntentPayload struct {
	Intent game.Intent `json:"intent"`
}

// NewGamePayload restarts the session's game.
type NewGamePayload struct{}
