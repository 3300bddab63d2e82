package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// UpdatesChannel is the Redis pub/sub channel carrying WSMessage payloads.
	UpdatesChannel = "chat_updates"
	// ArchiveQueue is the Redis list drained by the archive workers.
	ArchiveQueue = "queue:chat-archive"
)

// Exchange records one send attempt: the user message and, on success, the model reply.
type Exchange struct {
	ID            uuid.UUID `json:"id"`
	UserMessage   string    `json:"user_message"`
	Reply         string    `json:"reply"`
	Status        string    `json:"status"` // "success" | "failed"
	ErrorMessage  *string   `json:"error_message,omitempty"`
	HistoryLength int       `json:"history_length"`
	RetryCount    int       `json:"retry_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"` // "history" | "exchange" | "reset"
	Payload interface{} `json:"payload"`
}

type ResetEvent struct {
	ResetAt time.Time `json:"reset_at"`
	History []Turn    `json:"history"`
}

func NewHistoryMessage(history []Turn) WSMessage {
	return WSMessage{Type: "history", Payload: HistoryResponse{History: history, Status: StatusSuccess}}
}

func NewExchangeMessage(ex Exchange) WSMessage {
	return WSMessage{Type: "exchange", Payload: ex}
}

func NewResetMessage(at time.Time, history []Turn) WSMessage {
	return WSMessage{Type: "reset", Payload: ResetEvent{ResetAt: at, History: history}}
}
