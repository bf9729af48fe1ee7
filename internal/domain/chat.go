package domain

import "time"

// ChatSessionStatus represents where a live-chat session sits in the queue.
type ChatSessionStatus string

const (
	ChatSessionQueued   ChatSessionStatus = "queue"
	ChatSessionActive   ChatSessionStatus = "active"
	ChatSessionPending  ChatSessionStatus = "pending"
	ChatSessionResolved ChatSessionStatus = "resolved"
)

// ChatSession is a live-chat conversation handled by an agent.
type ChatSession struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Platform     string            `json:"platform"`
	Status       ChatSessionStatus `json:"status"`
	AgentID      *string           `json:"agent_id,omitempty"`
	TicketID     *string           `json:"ticket_id,omitempty"`
	LastMessage  string            `json:"last_message"`
	UnreadCount  int               `json:"unread_count"`
	StartedAt    time.Time         `json:"started_at"`
	EndedAt      *time.Time        `json:"ended_at,omitempty"`
}

// Key returns the store identity of the session.
func (s ChatSession) Key() string { return s.ID }

// MessageSender indicates who authored a chat message.
type MessageSender string

const (
	SenderCustomer MessageSender = "customer"
	SenderAgent    MessageSender = "agent"
	SenderBot      MessageSender = "bot"
	SenderSystem   MessageSender = "system"
)

// ChatMessage is one entry of a chat session transcript.
type ChatMessage struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Sender    MessageSender `json:"sender"`
	SenderID  *string       `json:"sender_id,omitempty"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

// Key returns the store identity of the message.
func (m ChatMessage) Key() string { return m.ID }

// AgentAvailability is the presence state of an agent.
type AgentAvailability string

const (
	AgentOnline  AgentAvailability = "online"
	AgentAway    AgentAvailability = "away"
	AgentBusy    AgentAvailability = "busy"
	AgentOffline AgentAvailability = "offline"
)

// AgentStatus reports an agent's presence and current load.
type AgentStatus struct {
	AgentID        string            `json:"agent_id"`
	Name           string            `json:"name"`
	Status         AgentAvailability `json:"status"`
	ActiveSessions int               `json:"active_sessions"`
	MaxSessions    int               `json:"max_sessions"`
	LastSeenAt     *time.Time        `json:"last_seen_at,omitempty"`
}

// Key returns the store identity of the agent status.
func (a AgentStatus) Key() string { return a.AgentID }

// ChatTag labels a chat session.
type ChatTag struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the store identity of the tag.
func (t ChatTag) Key() string { return t.ID }
