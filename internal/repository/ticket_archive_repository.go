package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// ArchiveFilter narrows archived ticket listings.
type ArchiveFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	DepartmentID *string
	AssignedTo   *string
	SearchTerm   *string
	ArchivedFrom *time.Time
	Limit        int
	Offset       int
}

// TicketArchiveRepository persists ticket snapshots pulled from the platform API.
type TicketArchiveRepository interface {
	Upsert(ctx context.Context, tickets []domain.Ticket) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter ArchiveFilter) ([]domain.Ticket, error)
}

type ticketArchiveRepository struct {
	pool *pgxpool.Pool
}

// NewTicketArchiveRepository instantiates repository.
func NewTicketArchiveRepository(pool *pgxpool.Pool) TicketArchiveRepository {
	return &ticketArchiveRepository{pool: pool}
}

const upsertTicketQuery = `
        INSERT INTO ticket_archive (id, ticket_code, subject, description, customer_name, customer_email,
            customer_phone, priority, status, category_id, department_id, assigned_to,
            first_response_at, resolved_at, closed_at, created_at, updated_at, archived_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW())
        ON CONFLICT (id) DO UPDATE SET
            ticket_code=EXCLUDED.ticket_code, subject=EXCLUDED.subject, description=EXCLUDED.description,
            customer_name=EXCLUDED.customer_name, customer_email=EXCLUDED.customer_email,
            customer_phone=EXCLUDED.customer_phone, priority=EXCLUDED.priority, status=EXCLUDED.status,
            category_id=EXCLUDED.category_id, department_id=EXCLUDED.department_id,
            assigned_to=EXCLUDED.assigned_to, first_response_at=EXCLUDED.first_response_at,
            resolved_at=EXCLUDED.resolved_at, closed_at=EXCLUDED.closed_at,
            updated_at=EXCLUDED.updated_at, archived_at=NOW()`

const selectArchiveColumns = `SELECT id, ticket_code, subject, description, customer_name, customer_email,
               customer_phone, priority, status, category_id, department_id, assigned_to,
               first_response_at, resolved_at, closed_at, created_at, updated_at
        FROM ticket_archive`

// Upsert writes every ticket in one batch and returns the number of rows touched.
func (r *ticketArchiveRepository) Upsert(ctx context.Context, tickets []domain.Ticket) (int, error) {
	if len(tickets) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, ticket := range tickets {
		batch.Queue(upsertTicketQuery,
			ticket.ID,
			ticket.TicketCode,
			ticket.Subject,
			ticket.Description,
			ticket.CustomerName,
			ticket.CustomerEmail,
			ticket.CustomerPhone,
			ticket.Priority,
			ticket.Status,
			ticket.CategoryID,
			ticket.DepartmentID,
			ticket.AssignedTo,
			ticket.FirstResponseAt,
			ticket.ResolvedAt,
			ticket.ClosedAt,
			ticket.CreatedAt,
			ticket.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for _, ticket := range tickets {
		cmd, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("archive ticket %s: %w", ticket.ID, err)
		}
		written += int(cmd.RowsAffected())
	}
	return written, nil
}

func (r *ticketArchiveRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, selectArchiveColumns+` WHERE id=$1`, id)
}

func (r *ticketArchiveRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, selectArchiveColumns+` WHERE ticket_code=$1`, code)
}

func (r *ticketArchiveRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketArchiveRepository) ListWithFilter(ctx context.Context, filter ArchiveFilter) ([]domain.Ticket, error) {
	where, args := buildArchiveWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		selectArchiveColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func buildArchiveWhere(filter ArchiveFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.ArchivedFrom != nil {
		args = append(args, *filter.ArchivedFrom)
		clauses = append(clauses, fmt.Sprintf("archived_at >= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(subject) LIKE %s OR LOWER(ticket_code) LIKE %s)", placeholder, placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketCode,
		&ticket.Subject,
		&ticket.Description,
		&ticket.CustomerName,
		&ticket.CustomerEmail,
		&ticket.CustomerPhone,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CategoryID,
		&ticket.DepartmentID,
		&ticket.AssignedTo,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
