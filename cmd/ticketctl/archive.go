package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/persistence"
	"github.com/spec-kit/ticket-console/internal/repository"
	"github.com/spec-kit/ticket-console/internal/service"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// openArchive connects to Postgres and applies migrations when enabled.
var openArchive = func(ctx context.Context, e *env) (repository.TicketArchiveRepository, func(), error) {
	pg, err := persistence.NewPostgres(ctx, e.cfg.Postgres, e.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.PoolHandle() == nil {
		return nil, nil, persistence.ErrPostgresNotConfigured
	}
	if e.cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), e.logger); err != nil {
			pg.Close()
			return nil, nil, err
		}
	}
	return repository.NewTicketArchiveRepository(pg.PoolHandle()), pg.Close, nil
}

// exportCmd walks every page of the filtered listing and upserts it.
func exportCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "export")
	var f filterFlags
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f.limit <= 0 {
		f.limit = 100
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	archive, closeArchive, err := openArchive(ctx, e)
	if err != nil {
		return err
	}
	defer closeArchive()

	result, err := service.NewArchiveService(e.api, archive, e.logger).Export(ctx, filters, f.limit)
	if err != nil {
		return err
	}
	return e.print(result)
}

// archivedCmd lists archived tickets, or shows one with --id or --code.
func archivedCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "archived")
	id := fs.String("id", "", "show the archived ticket with this id")
	code := fs.String("code", "", "show the archived ticket with this ticket code")
	statuses := fs.StringSlice("status", nil, "status filter, repeatable")
	priorities := fs.StringSlice("priority", nil, "priority filter, repeatable")
	department := fs.String("department", "", "department id")
	assignee := fs.String("assignee", "", "assigned agent id")
	since := fs.String("since", "", "archived at or after: a duration (72h) or a date (2006-01-02, RFC 3339)")
	search := fs.String("search", "", "match subject or ticket code")
	limit := fs.Int("limit", 20, "rows to return")
	offset := fs.Int("offset", 0, "rows to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := repository.ArchiveFilter{
		DepartmentID: optional(*department),
		AssignedTo:   optional(*assignee),
		SearchTerm:   optional(*search),
		Limit:        *limit,
		Offset:       *offset,
	}
	for _, raw := range *statuses {
		status := domain.TicketStatus(strings.TrimSpace(raw))
		if !status.Valid() {
			return fmt.Errorf("invalid status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, raw := range *priorities {
		priority := domain.TicketPriority(strings.TrimSpace(raw))
		if !priority.Valid() {
			return fmt.Errorf("invalid priority %q", raw)
		}
		filter.Priorities = append(filter.Priorities, priority)
	}
	if *since != "" {
		from, err := parseSince(*since, time.Now())
		if err != nil {
			return err
		}
		filter.ArchivedFrom = &from
	}

	archive, closeArchive, err := openArchive(ctx, e)
	if err != nil {
		return err
	}
	defer closeArchive()
	svc := service.NewArchiveService(e.api, archive, e.logger)

	if *id != "" || *code != "" {
		ticket, err := svc.Lookup(ctx, *id, *code)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ToDomainError(err)
		}
		if err != nil {
			return err
		}
		return e.print(ticket)
	}

	tickets, err := svc.Archived(ctx, filter)
	if err != nil {
		return err
	}
	return e.print(tickets)
}

// parseSince accepts a lookback duration or an absolute date.
func parseSince(raw string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since %q", raw)
}
