package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/repository"
	"github.com/spec-kit/ticket-console/internal/store"
	"github.com/spec-kit/ticket-console/internal/tagging"
)

type pagedLister struct {
	totalPages int
	requested  []dto.TicketFilters
	failOn     int
}

func (p *pagedLister) ListTickets(_ context.Context, filters dto.TicketFilters) (dto.Page[domain.Ticket], error) {
	p.requested = append(p.requested, filters)
	page := *filters.Page
	if page == p.failOn {
		return dto.Page[domain.Ticket]{}, errors.New("upstream down")
	}
	return dto.Page[domain.Ticket]{
		Data:       []domain.Ticket{{ID: "T" + string(rune('0'+page))}},
		Page:       page,
		TotalPages: p.totalPages,
	}, nil
}

type memoryArchive struct {
	rows []domain.Ticket
}

func (m *memoryArchive) Upsert(_ context.Context, tickets []domain.Ticket) (int, error) {
	m.rows = append(m.rows, tickets...)
	return len(tickets), nil
}
func (m *memoryArchive) lookup(match func(domain.Ticket) bool) (*domain.Ticket, error) {
	for i := range m.rows {
		if match(m.rows[i]) {
			return &m.rows[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryArchive) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	return m.lookup(func(t domain.Ticket) bool { return t.ID == id })
}

func (m *memoryArchive) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	return m.lookup(func(t domain.Ticket) bool { return t.TicketCode == code })
}
func (m *memoryArchive) ListWithFilter(context.Context, repository.ArchiveFilter) ([]domain.Ticket, error) {
	return nil, nil
}

func TestExportWalksEveryPage(t *testing.T) {
	lister := &pagedLister{totalPages: 3}
	archive := &memoryArchive{}
	status := []domain.TicketStatus{domain.TicketStatusOpen}

	result, err := NewArchiveService(lister, archive, nil).Export(context.Background(), dto.TicketFilters{Status: status}, 50)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result != (ExportResult{Pages: 3, Fetched: 3, Archived: 3}) {
		t.Fatalf("result = %+v", result)
	}
	for i, f := range lister.requested {
		if *f.Page != i+1 || *f.Limit != 50 || len(f.Status) != 1 {
			t.Fatalf("request %d used filters %+v", i, f)
		}
	}
	if len(archive.rows) != 3 || archive.rows[2].ID != "T3" {
		t.Fatalf("archived rows = %+v", archive.rows)
	}
}

func TestExportStopsOnUpstreamFailure(t *testing.T) {
	lister := &pagedLister{totalPages: 5, failOn: 2}
	archive := &memoryArchive{}

	result, err := NewArchiveService(lister, archive, nil).Export(context.Background(), dto.TicketFilters{}, 0)
	if err == nil {
		t.Fatal("expected failure to propagate")
	}
	if result.Pages != 1 || len(archive.rows) != 1 {
		t.Fatalf("first page should be kept, got %+v rows %d", result, len(archive.rows))
	}
}

func TestArchivedNeverReturnsNil(t *testing.T) {
	tickets, err := NewArchiveService(&pagedLister{}, &memoryArchive{}, nil).Archived(context.Background(), repository.ArchiveFilter{})
	if err != nil || tickets == nil {
		t.Fatalf("got %v, %v", tickets, err)
	}
}

func TestNotificationServiceFlagsMessagesForClosedSessions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	st := store.New(nil)
	st.SelectSession("s1")
	NewNotificationService(dispatcher, st, zap.New(core)).RegisterHandlers()

	ctx := context.Background()
	_ = dispatcher.Publish(ctx, events.New(events.EventChatMessageReceived, events.ChatMessageReceivedPayload{Message: domain.ChatMessage{ID: "m1", SessionID: "s1"}}))
	_ = dispatcher.Publish(ctx, events.New(events.EventChatMessageReceived, events.ChatMessageReceivedPayload{Message: domain.ChatMessage{ID: "m2", SessionID: "s2"}}))
	_ = dispatcher.Publish(ctx, events.New(events.EventConnectionStatus, events.ConnectionStatusPayload{State: events.ConnectionDisconnected, Reason: "eof"}))

	unread := logs.FilterMessage("unread chat message").All()
	if len(unread) != 1 || unread[0].ContextMap()["message_id"] != "m2" {
		t.Fatalf("unexpected unread log entries %+v", unread)
	}
	if logs.FilterMessage("realtime disconnected").Len() != 1 {
		t.Fatal("disconnect not logged")
	}
}

func TestTagSuggestionServiceDebouncesTranscript(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	st := store.New(dispatcher)
	svc := NewTagSuggestionService(st, tagging.NewSuggester(nil), 20*time.Millisecond, nil)
	svc.RegisterHandlers(dispatcher)
	defer svc.Stop()

	if got := svc.Latest(); len(got) != 0 {
		t.Fatalf("expected no suggestions yet, got %v", got)
	}

	ticket := st.SelectSession("s1")
	st.ApplySessionMessages(ticket, []domain.ChatMessage{{ID: "m1", SessionID: "s1", Content: "pembayaran gagal"}})
	st.ApplySessionTags(ticket, []domain.ChatTag{{ID: "g1", SessionID: "s1", Name: "Pembayaran"}})

	deadline := time.Now().Add(2 * time.Second)
	for {
		got := svc.Latest()
		if len(got) == 1 && got[0] == "Technical Issue" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("suggestions = %v", got)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestArchiveLookup(t *testing.T) {
	archive := &memoryArchive{rows: []domain.Ticket{{ID: "T1", TicketCode: "TCK-1"}, {ID: "T2", TicketCode: "TCK-2"}}}
	svc := NewArchiveService(&pagedLister{}, archive, nil)
	ctx := context.Background()

	ticket, err := svc.Lookup(ctx, "T2", "TCK-1")
	if err != nil || ticket.ID != "T2" {
		t.Fatalf("id lookup = %+v, %v", ticket, err)
	}
	ticket, err = svc.Lookup(ctx, "", "TCK-1")
	if err != nil || ticket.ID != "T1" {
		t.Fatalf("code lookup = %+v, %v", ticket, err)
	}
	if _, err := svc.Lookup(ctx, "T9", ""); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
	if _, err := svc.Lookup(ctx, "", ""); !errors.Is(err, ErrLookupKeyMissing) {
		t.Fatalf("expected ErrLookupKeyMissing, got %v", err)
	}
}
