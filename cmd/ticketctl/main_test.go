package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/repository"
	"github.com/spec-kit/ticket-console/internal/service"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{API: config.APIConfig{BaseURL: srv.URL}}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), cfg, append([]string{"--token", "tok"}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestListSendsRepeatedStatusKeys(t *testing.T) {
	var query, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		auth = r.Header.Get("Authorization")
		writeJSON(w, map[string]any{"data": []map[string]any{{"id": "T1"}}, "page": 1, "limit": 5, "total": 1, "total_pages": 1})
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "list", "--status", "open,escalated", "--limit", "5")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if query != "status=open&status=escalated&limit=5" {
		t.Fatalf("query = %q", query)
	}
	if auth != "Bearer tok" {
		t.Fatalf("authorization = %q", auth)
	}
	if !strings.Contains(out, `"id": "T1"`) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestCommentPostsToTicketPath(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, map[string]any{"success": true, "data": map[string]any{"id": "C1", "ticket_id": "T9"}})
	}))
	defer srv.Close()

	if _, err := runCLI(t, srv, "comment", "T9", "--content", "checked", "--public", "--author", "u7"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if path != "/tickets/T9/comments" {
		t.Fatalf("path = %q", path)
	}
	if body["content"] != "checked" || body["is_public"] != true || body["created_by"] != "u7" {
		t.Fatalf("body = %v", body)
	}
}

func TestUpstreamFailureIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden for role", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "get", "T1")
	if err == nil || !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "forbidden for role") {
		t.Fatalf("expected 403 error with body, got %v", err)
	}
}

func TestArgumentValidation(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cases := [][]string{
		{"get"},
		{"assign", "T1"},
		{"list", "--status", "archived"},
		{"create", "--subject", "x"},
		{"frobnicate"},
		{},
	}
	for _, args := range cases {
		if _, err := runCLI(t, srv, args...); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
}

type fakeArchive struct {
	mu      sync.Mutex
	written []domain.Ticket
	filter  repository.ArchiveFilter
}

func (f *fakeArchive) Upsert(_ context.Context, tickets []domain.Ticket) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, tickets...)
	return len(tickets), nil
}

func (f *fakeArchive) find(match func(domain.Ticket) bool) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.written {
		if match(f.written[i]) {
			ticket := f.written[i]
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeArchive) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	return f.find(func(t domain.Ticket) bool { return t.ID == id })
}

func (f *fakeArchive) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	return f.find(func(t domain.Ticket) bool { return t.TicketCode == code })
}

func (f *fakeArchive) ListWithFilter(_ context.Context, filter repository.ArchiveFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	return f.written, nil
}

func useArchive(t *testing.T, archive *fakeArchive) {
	t.Helper()
	restore := openArchive
	openArchive = func(context.Context, *env) (repository.TicketArchiveRepository, func(), error) {
		return archive, func() {}, nil
	}
	t.Cleanup(func() { openArchive = restore })
}

func TestExportWalksAllPages(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		n, _ := strconv.Atoi(page)
		writeJSON(w, map[string]any{
			"data":        []map[string]any{{"id": "T" + page}},
			"page":        n,
			"limit":       1,
			"total":       3,
			"total_pages": 3,
		})
	}))
	defer srv.Close()

	archive := &fakeArchive{}
	useArchive(t, archive)

	out, err := runCLI(t, srv, "export", "--limit", "1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Join(pages, ",") != "1,2,3" {
		t.Fatalf("pages requested = %v", pages)
	}
	var result service.ExportResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if result.Pages != 3 || result.Fetched != 3 || result.Archived != 3 {
		t.Fatalf("result = %+v", result)
	}
	if len(archive.written) != 3 || archive.written[2].ID != "T3" {
		t.Fatalf("archived = %+v", archive.written)
	}
}

func TestArchivedLooksUpByIDAndCode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	useArchive(t, &fakeArchive{written: []domain.Ticket{{ID: "T1", TicketCode: "TCK-1", Subject: "NIB"}}})

	out, err := runCLI(t, srv, "archived", "--code", "TCK-1")
	if err != nil {
		t.Fatalf("archived --code: %v", err)
	}
	var ticket domain.Ticket
	if err := json.Unmarshal([]byte(out), &ticket); err != nil || ticket.ID != "T1" {
		t.Fatalf("unexpected output %q (%v)", out, err)
	}

	_, err = runCLI(t, srv, "archived", "--id", "T404")
	if err == nil || !strings.Contains(err.Error(), "archived ticket not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestArchivedPassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	archive := &fakeArchive{}
	useArchive(t, archive)

	_, err := runCLI(t, srv, "archived",
		"--status", "open,escalated",
		"--priority", "urgent",
		"--department", "D1",
		"--assignee", "A7",
		"--since", "2024-03-01",
		"--limit", "5")
	if err != nil {
		t.Fatalf("archived: %v", err)
	}
	f := archive.filter
	if len(f.Statuses) != 2 || len(f.Priorities) != 1 || f.Priorities[0] != domain.TicketPriorityUrgent {
		t.Fatalf("enum filters = %+v", f)
	}
	if f.DepartmentID == nil || *f.DepartmentID != "D1" || f.AssignedTo == nil || *f.AssignedTo != "A7" {
		t.Fatalf("id filters = %+v", f)
	}
	if f.ArchivedFrom == nil || !f.ArchivedFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) || f.Limit != 5 {
		t.Fatalf("since/limit = %+v", f)
	}

	if _, err := runCLI(t, srv, "archived", "--priority", "someday"); err == nil {
		t.Fatal("expected invalid priority to fail")
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"72h", now.Add(-72 * time.Hour), true},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-05-01T08:00:00Z", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), true},
		{"-1h", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := parseSince(tc.raw, now)
		if (err == nil) != tc.ok || !got.Equal(tc.want) {
			t.Fatalf("parseSince(%q) = %v, %v", tc.raw, got, err)
		}
	}
}

func TestCLILoggerHonorsConfiguredLevel(t *testing.T) {
	cfg := &config.Config{Logger: config.LoggerConfig{Level: "warn", Output: "stdout"}}
	logger, err := cliLogger(cfg, false)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) || !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("LOG_LEVEL not applied")
	}

	logger, err = cliLogger(cfg, true)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("--verbose must enable debug")
	}
}
