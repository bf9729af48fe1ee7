package store

import (
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

// SelectSession makes id the current chat session and empties the message
// and tag collections. Every call starts a new generation, even when id is unchanged, so
// fetches issued for earlier selections are rejected by ApplySessionMessages.
// An empty id clears the selection.
func (s *Store) SelectSession(id string) SessionTicket {
	s.mu.Lock()
	s.generation++
	s.currentSession = id
	s.messages.Clear()
	s.tags.Clear()
	ticket := SessionTicket{SessionID: id, Generation: s.generation}
	s.mu.Unlock()

	s.publish(events.EventCurrentSessionChanged, events.CurrentSessionChangedPayload{
		SessionID:  ticket.SessionID,
		Generation: ticket.Generation,
	})
	s.publish(events.EventMessagesChanged, events.CollectionChangedPayload{Op: "clear"})
	s.publish(events.EventTagsChanged, events.CollectionChangedPayload{Op: "clear"})
	return ticket
}

// CurrentSession returns the selection currently in effect.
func (s *Store) CurrentSession() SessionTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionTicket{SessionID: s.currentSession, Generation: s.generation}
}

// isCurrentLocked reports whether ticket still names the active selection.
// Callers hold s.mu.
func (s *Store) isCurrentLocked(ticket SessionTicket) bool {
	return ticket.Generation == s.generation && ticket.SessionID == s.currentSession
}

// ApplySessionMessages replaces the message sequence with msgs if ticket is
// still current. A result that arrives after another selection is dropped and
// false is returned.
func (s *Store) ApplySessionMessages(ticket SessionTicket, msgs []domain.ChatMessage) bool {
	s.mu.Lock()
	if !s.isCurrentLocked(ticket) {
		s.mu.Unlock()
		return false
	}
	s.messages.Set(msgs)
	count := s.messages.Len()
	s.mu.Unlock()

	s.publish(events.EventMessagesChanged, events.CollectionChangedPayload{Op: "set", Count: count})
	return true
}

// ApplySessionTags replaces the tag collection with tags if ticket is still
// current.
func (s *Store) ApplySessionTags(ticket SessionTicket, tags []domain.ChatTag) bool {
	s.mu.Lock()
	if !s.isCurrentLocked(ticket) {
		s.mu.Unlock()
		return false
	}
	s.tags.Set(tags)
	count := s.tags.Len()
	s.mu.Unlock()

	s.publish(events.EventTagsChanged, events.CollectionChangedPayload{Op: "set", Count: count})
	return true
}

// AppendSessionMessage appends msg when it belongs to the current session.
func (s *Store) AppendSessionMessage(msg domain.ChatMessage) bool {
	s.mu.Lock()
	if s.currentSession == "" || msg.SessionID != s.currentSession {
		s.mu.Unlock()
		return false
	}
	s.messages.Add(msg)
	count := s.messages.Len()
	s.mu.Unlock()

	s.publish(events.EventMessagesChanged, events.CollectionChangedPayload{Op: "add", ID: msg.ID, Count: count})
	return true
}

// AddSessionTag appends tag when sessionID is the current session.
func (s *Store) AddSessionTag(sessionID string, tag domain.ChatTag) bool {
	s.mu.Lock()
	if sessionID == "" || sessionID != s.currentSession {
		s.mu.Unlock()
		return false
	}
	s.tags.Add(tag)
	count := s.tags.Len()
	s.mu.Unlock()

	s.publish(events.EventTagsChanged, events.CollectionChangedPayload{Op: "add", ID: tag.ID, Count: count})
	return true
}

// RemoveSessionTag drops tagID when sessionID is the current session and
// returns the number of tags removed.
func (s *Store) RemoveSessionTag(sessionID, tagID string) int {
	s.mu.Lock()
	if sessionID == "" || sessionID != s.currentSession {
		s.mu.Unlock()
		return 0
	}
	removed := s.tags.Remove(tagID)
	count := s.tags.Len()
	s.mu.Unlock()

	if removed > 0 {
		s.publish(events.EventTagsChanged, events.CollectionChangedPayload{Op: "remove", ID: tagID, Count: count})
	}
	return removed
}
