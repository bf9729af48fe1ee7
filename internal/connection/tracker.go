package connection

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/store"
)

// Status is the latest realtime state.
type Status struct {
	State  events.ConnectionState `json:"state"`
	Reason string                 `json:"reason,omitempty"`
	Since  time.Time              `json:"since"`
}

// Tracker remembers the last published connection status.
type Tracker struct {
	mu     sync.RWMutex
	status Status
}

// NewTracker starts disconnected and follows connection_status events.
func NewTracker(dispatcher events.Dispatcher) *Tracker {
	t := &Tracker{status: Status{State: events.ConnectionDisconnected, Since: time.Now().UTC()}}
	dispatcher.Subscribe(events.EventConnectionStatus, t.handle)
	return t
}

func (t *Tracker) handle(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ConnectionStatusPayload)
	if !ok {
		return nil
	}
	t.mu.Lock()
	t.status = Status{State: payload.State, Reason: payload.Reason, Since: event.Timestamp}
	t.mu.Unlock()
	return nil
}

// Status returns the current state.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// RouteChatMessages feeds realtime chat messages into the store. A message is
// appended to the transcript only when it belongs to the open session; the
// session list always gets its preview refreshed.
func RouteChatMessages(dispatcher events.Dispatcher, s *store.Store) {
	dispatcher.Subscribe(events.EventChatMessageReceived, func(_ context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.ChatMessageReceivedPayload)
		if !ok {
			return nil
		}
		msg := payload.Message

		s.AppendSessionMessage(msg)
		s.UpdateSession(msg.SessionID, func(cs *domain.ChatSession) {
			cs.LastMessage = msg.Content
		})
		return nil
	})
}
