// Package store holds the console's last-known copy of every entity
// collection fetched from the platform API.
//
// A Store is created once per process and passed to whoever needs it. All
// mutations are serialized and run to completion before the next one starts;
// there are no transactions spanning several collections. Every mutation
// publishes a change event once the lock is released.
package store

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

// SessionTicket identifies one selection of the current chat session. Fetches
// started for a selection must hand the ticket back when applying results.
type SessionTicket struct {
	SessionID  string
	Generation uint64
}

// Store is the in-memory state container for the console views.
type Store struct {
	mu         sync.Mutex
	dispatcher events.Dispatcher

	tickets  Collection[domain.Ticket]
	sessions Collection[domain.ChatSession]
	messages Collection[domain.ChatMessage]
	agents   Collection[domain.AgentStatus]
	tags     Collection[domain.ChatTag]

	currentSession string
	generation     uint64
}

// New creates an empty store. dispatcher may be nil.
func New(dispatcher events.Dispatcher) *Store {
	return &Store{dispatcher: dispatcher}
}

func (s *Store) publish(eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.Background(), events.New(eventType, payload))
}

// setAll returns the snapshot it installed, taken before the lock is released.
func setAll[T Keyed](s *Store, c *Collection[T], eventType events.EventType, items []T) []*T {
	s.mu.Lock()
	c.Set(items)
	installed := c.Snapshot()
	s.mu.Unlock()
	s.publish(eventType, events.CollectionChangedPayload{Op: "set", Count: len(installed)})
	return installed
}

func updateOne[T Keyed](s *Store, c *Collection[T], eventType events.EventType, id string, patch func(*T)) bool {
	s.mu.Lock()
	matched := c.Update(id, patch)
	count := c.Len()
	s.mu.Unlock()
	if matched {
		s.publish(eventType, events.CollectionChangedPayload{Op: "update", ID: id, Count: count})
	}
	return matched
}

func addOne[T Keyed](s *Store, c *Collection[T], eventType events.EventType, item T) {
	s.mu.Lock()
	c.Add(item)
	count := c.Len()
	s.mu.Unlock()
	s.publish(eventType, events.CollectionChangedPayload{Op: "add", ID: item.Key(), Count: count})
}

func removeAll[T Keyed](s *Store, c *Collection[T], eventType events.EventType, id string) int {
	s.mu.Lock()
	removed := c.Remove(id)
	count := c.Len()
	s.mu.Unlock()
	if removed > 0 {
		s.publish(eventType, events.CollectionChangedPayload{Op: "remove", ID: id, Count: count})
	}
	return removed
}

func snapshot[T Keyed](s *Store, c *Collection[T]) []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.Snapshot()
}

// SetTickets replaces the ticket collection and returns what it installed.
// Views respond from the returned slice; a later Tickets call may already
// see another request's listing.
func (s *Store) SetTickets(items []domain.Ticket) []*domain.Ticket {
	return setAll(s, &s.tickets, events.EventTicketsChanged, items)
}

// UpdateTicket patches the ticket with the given id.
func (s *Store) UpdateTicket(id string, patch func(*domain.Ticket)) bool {
	return updateOne(s, &s.tickets, events.EventTicketsChanged, id, patch)
}

// AddTicket appends a ticket.
func (s *Store) AddTicket(t domain.Ticket) {
	addOne(s, &s.tickets, events.EventTicketsChanged, t)
}

// RemoveTicket drops every ticket with the given id.
func (s *Store) RemoveTicket(id string) int {
	return removeAll(s, &s.tickets, events.EventTicketsChanged, id)
}

// Tickets returns the current ticket snapshot.
func (s *Store) Tickets() []*domain.Ticket {
	return snapshot(s, &s.tickets)
}

// SetSessions replaces the chat session collection.
func (s *Store) SetSessions(items []domain.ChatSession) {
	setAll(s, &s.sessions, events.EventSessionsChanged, items)
}

// UpdateSession patches the session with the given id.
func (s *Store) UpdateSession(id string, patch func(*domain.ChatSession)) bool {
	return updateOne(s, &s.sessions, events.EventSessionsChanged, id, patch)
}

// AddSession appends a session.
func (s *Store) AddSession(cs domain.ChatSession) {
	addOne(s, &s.sessions, events.EventSessionsChanged, cs)
}

// RemoveSession drops every session with the given id.
func (s *Store) RemoveSession(id string) int {
	return removeAll(s, &s.sessions, events.EventSessionsChanged, id)
}

// Sessions returns the current session snapshot.
func (s *Store) Sessions() []*domain.ChatSession {
	return snapshot(s, &s.sessions)
}

// SetMessages replaces the message collection.
func (s *Store) SetMessages(items []domain.ChatMessage) {
	setAll(s, &s.messages, events.EventMessagesChanged, items)
}

// UpdateMessage patches the message with the given id.
func (s *Store) UpdateMessage(id string, patch func(*domain.ChatMessage)) bool {
	return updateOne(s, &s.messages, events.EventMessagesChanged, id, patch)
}

// AddMessage appends a message.
func (s *Store) AddMessage(m domain.ChatMessage) {
	addOne(s, &s.messages, events.EventMessagesChanged, m)
}

// RemoveMessage drops every message with the given id.
func (s *Store) RemoveMessage(id string) int {
	return removeAll(s, &s.messages, events.EventMessagesChanged, id)
}

// Messages returns the current message snapshot.
func (s *Store) Messages() []*domain.ChatMessage {
	return snapshot(s, &s.messages)
}

// SetAgents replaces the agent status collection.
func (s *Store) SetAgents(items []domain.AgentStatus) {
	setAll(s, &s.agents, events.EventAgentsChanged, items)
}

// UpdateAgent patches the agent status with the given agent id.
func (s *Store) UpdateAgent(id string, patch func(*domain.AgentStatus)) bool {
	return updateOne(s, &s.agents, events.EventAgentsChanged, id, patch)
}

// AddAgent appends an agent status.
func (s *Store) AddAgent(a domain.AgentStatus) {
	addOne(s, &s.agents, events.EventAgentsChanged, a)
}

// RemoveAgent drops every status for the given agent id.
func (s *Store) RemoveAgent(id string) int {
	return removeAll(s, &s.agents, events.EventAgentsChanged, id)
}

// Agents returns the current agent status snapshot.
func (s *Store) Agents() []*domain.AgentStatus {
	return snapshot(s, &s.agents)
}

// SetTags replaces the tag collection.
func (s *Store) SetTags(items []domain.ChatTag) {
	setAll(s, &s.tags, events.EventTagsChanged, items)
}

// UpdateTag patches the tag with the given id.
func (s *Store) UpdateTag(id string, patch func(*domain.ChatTag)) bool {
	return updateOne(s, &s.tags, events.EventTagsChanged, id, patch)
}

// AddTag appends a tag.
func (s *Store) AddTag(t domain.ChatTag) {
	addOne(s, &s.tags, events.EventTagsChanged, t)
}

// RemoveTag drops every tag with the given id.
func (s *Store) RemoveTag(id string) int {
	return removeAll(s, &s.tags, events.EventTagsChanged, id)
}

// Tags returns the current tag snapshot.
func (s *Store) Tags() []*domain.ChatTag {
	return snapshot(s, &s.tags)
}
