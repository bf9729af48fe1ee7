package store

import (
	"context"
	"testing"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

func TestSelectSessionClearsMessages(t *testing.T) {
	s := New(nil)
	s.SetMessages([]domain.ChatMessage{{ID: "M1"}, {ID: "M2"}})

	ticket := s.SelectSession("S1")
	if n := len(s.Messages()); n != 0 {
		t.Fatalf("expected messages cleared, got %d", n)
	}
	if cur := s.CurrentSession(); cur != ticket {
		t.Fatalf("current session mismatch: %+v vs %+v", cur, ticket)
	}

	s.AddMessage(domain.ChatMessage{ID: "M3", SessionID: "S1"})
	s.SelectSession("S1")
	if n := len(s.Messages()); n != 0 {
		t.Fatalf("reselecting must clear messages too, got %d", n)
	}
}

func TestSelectSessionDropsPreviousSessionTags(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)
	var ops []string
	d.Subscribe(events.EventTagsChanged, func(_ context.Context, e events.Event) error {
		ops = append(ops, e.Payload.(events.CollectionChangedPayload).Op)
		return nil
	})
	s := New(d)

	a := s.SelectSession("A")
	if !s.ApplySessionTags(a, []domain.ChatTag{{ID: "t1", Name: "NIB"}}) {
		t.Fatal("tags for the current session must be applied")
	}
	s.SelectSession("B")
	if n := len(s.Tags()); n != 0 {
		t.Fatalf("tags of session A survived the switch to B: %d", n)
	}
	if len(ops) != 2 || ops[1] != "clear" {
		t.Fatalf("expected set then clear events, got %v", ops)
	}
}

func TestStaleSessionResultIsDiscarded(t *testing.T) {
	s := New(nil)
	first := s.SelectSession("S1")
	second := s.SelectSession("S2")

	if s.ApplySessionMessages(first, []domain.ChatMessage{{ID: "old", SessionID: "S1"}}) {
		t.Fatal("stale result must be rejected")
	}
	if n := len(s.Messages()); n != 0 {
		t.Fatalf("stale result leaked into store: %d messages", n)
	}
	if !s.ApplySessionMessages(second, []domain.ChatMessage{{ID: "new", SessionID: "S2"}}) {
		t.Fatal("current result must be applied")
	}
	if got := ids(s.Messages()); !equal(got, []string{"new"}) {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestReselectSameSessionInvalidatesEarlierFetch(t *testing.T) {
	s := New(nil)
	first := s.SelectSession("S1")
	s.SelectSession("S1")
	if s.CurrentSession() == first {
		t.Fatal("older generation must not be current")
	}
	if s.ApplySessionTags(first, []domain.ChatTag{{ID: "G1"}}) {
		t.Fatal("stale tags must be rejected")
	}
}

func TestClearSelection(t *testing.T) {
	s := New(nil)
	s.SelectSession("S1")
	ticket := s.SelectSession("")
	if ticket.SessionID != "" || s.CurrentSession().SessionID != "" {
		t.Fatalf("expected empty selection, got %+v", ticket)
	}
}

func TestAppendSessionMessageRequiresCurrentSession(t *testing.T) {
	s := New(nil)
	if s.AppendSessionMessage(domain.ChatMessage{ID: "m0", SessionID: ""}) {
		t.Fatal("append without a selection must be rejected")
	}

	s.SelectSession("s1")
	if !s.AppendSessionMessage(domain.ChatMessage{ID: "m1", SessionID: "s1"}) {
		t.Fatal("message for the open session should be appended")
	}
	if s.AppendSessionMessage(domain.ChatMessage{ID: "m2", SessionID: "s2"}) {
		t.Fatal("message for another session should be dropped")
	}
	if got := s.Messages(); len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("unexpected messages %+v", got)
	}
}

func TestSessionTagMutationsRequireCurrentSession(t *testing.T) {
	s := New(nil)
	s.SelectSession("S1")

	if s.AddSessionTag("S2", domain.ChatTag{ID: "g0"}) {
		t.Fatal("tag for another session must not be added")
	}
	if !s.AddSessionTag("S1", domain.ChatTag{ID: "g1", SessionID: "S1"}) {
		t.Fatal("tag for the current session must be added")
	}
	if n := s.RemoveSessionTag("S2", "g1"); n != 0 {
		t.Fatalf("removed %d tags for another session", n)
	}
	if n := s.RemoveSessionTag("S1", "g1"); n != 1 {
		t.Fatalf("expected one tag removed, got %d", n)
	}
}
