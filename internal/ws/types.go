package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeMove         MessageType = "move"
	MessageTypeUndo         MessageType = "undo"
	MessageTypeRedo         MessageType = "redo"
	MessageTypeReset        MessageType = "reset"
	MessageTypeEngineMove   MessageType = "engineMove"
	MessageTypeCancelEngine MessageType = "cancelEngine"
	MessageTypeOrientation  MessageType = "orientation"
	MessageTypeLegalMoves   MessageType = "legalMoves"

	// server -> client
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SquarePayload carries a square for legalMoves requests, e.g. {"square":"e2"}.
type SquarePayload struct {
	Square string `json:"square"`
}

type OrientationPayload struct {
	Orientation string `json:"orientation"`
}

type EngineMovePayload struct {
	BudgetMs int `json:"budgetMs"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
