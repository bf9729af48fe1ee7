package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/repository"
)

// TicketLister is the part of the platform client the archive needs.
type TicketLister interface {
	ListTickets(ctx context.Context, filters dto.TicketFilters) (dto.Page[domain.Ticket], error)
}

// ExportResult summarizes one export run.
type ExportResult struct {
	Pages    int `json:"pages"`
	Fetched  int `json:"fetched"`
	Archived int `json:"archived"`
}

// ArchiveService copies ticket listings from the platform API into Postgres.
type ArchiveService struct {
	tickets TicketLister
	archive repository.TicketArchiveRepository
	logger  *zap.Logger
}

// NewArchiveService constructs the service.
func NewArchiveService(tickets TicketLister, archive repository.TicketArchiveRepository, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{tickets: tickets, archive: archive, logger: logger}
}

// Export walks every page of the filtered listing, starting at filters.Page
// (default 1), and upserts each page as it arrives. pageSize overrides
// filters.Limit when positive.
func (s *ArchiveService) Export(ctx context.Context, filters dto.TicketFilters, pageSize int) (ExportResult, error) {
	var result ExportResult

	page := 1
	if filters.Page != nil && *filters.Page > 0 {
		page = *filters.Page
	}
	if pageSize > 0 {
		filters.Limit = &pageSize
	}

	for {
		current := page
		filters.Page = &current

		res, err := s.tickets.ListTickets(ctx, filters)
		if err != nil {
			return result, err
		}
		result.Pages++
		result.Fetched += len(res.Data)

		written, err := s.archive.Upsert(ctx, res.Data)
		result.Archived += written
		if err != nil {
			return result, err
		}
		s.logger.Debug("archived page", zap.Int("page", page), zap.Int("tickets", len(res.Data)))

		if len(res.Data) == 0 || page >= res.TotalPages {
			break
		}
		page++
	}

	s.logger.Info("ticket export finished",
		zap.Int("pages", result.Pages),
		zap.Int("fetched", result.Fetched),
		zap.Int("archived", result.Archived))
	return result, nil
}

// Archived lists previously exported tickets.
func (s *ArchiveService) Archived(ctx context.Context, filter repository.ArchiveFilter) ([]domain.Ticket, error) {
	tickets, err := s.archive.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// ErrLookupKeyMissing is returned by Lookup when neither id nor code is set.
var ErrLookupKeyMissing = errors.New("archived ticket lookup needs an id or a ticket code")

// Lookup fetches one archived ticket by id, or by ticket code when id is
// empty. A missing row surfaces as pgx.ErrNoRows.
func (s *ArchiveService) Lookup(ctx context.Context, id, code string) (*domain.Ticket, error) {
	switch {
	case id != "":
		ticket, err := s.archive.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("archived ticket %s: %w", id, err)
		}
		return ticket, nil
	case code != "":
		ticket, err := s.archive.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("archived ticket %s: %w", code, err)
		}
		return ticket, nil
	default:
		return nil, ErrLookupKeyMissing
	}
}
