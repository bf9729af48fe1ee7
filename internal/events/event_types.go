package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketsChanged        EventType = "tickets_changed"
	EventSessionsChanged       EventType = "sessions_changed"
	EventMessagesChanged       EventType = "messages_changed"
	EventAgentsChanged         EventType = "agents_changed"
	EventTagsChanged           EventType = "tags_changed"
	EventCurrentSessionChanged EventType = "current_session_changed"
	EventConnectionStatus      EventType = "connection_status"
	EventChatMessageReceived   EventType = "chat_message_received"
)

// Event is a notification published on the dispatcher.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// CollectionChangedPayload describes a store mutation.
type CollectionChangedPayload struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Count int    `json:"count"`
}

// CurrentSessionChangedPayload payload.
type CurrentSessionChangedPayload struct {
	SessionID  string `json:"session_id"`
	Generation uint64 `json:"generation"`
}

// ConnectionState is the realtime channel state shown by the status badge.
type ConnectionState string

const (
	ConnectionConnecting   ConnectionState = "connecting"
	ConnectionConnected    ConnectionState = "connected"
	ConnectionDisconnected ConnectionState = "disconnected"
	ConnectionReconnecting ConnectionState = "reconnecting"
)

// ConnectionStatusPayload payload.
type ConnectionStatusPayload struct {
	State  ConnectionState `json:"state"`
	Reason string          `json:"reason,omitempty"`
}

// ChatMessageReceivedPayload payload.
type ChatMessageReceivedPayload struct {
	Message domain.ChatMessage `json:"message"`
}
