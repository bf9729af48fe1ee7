package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
)

type command func(ctx context.Context, e *env, args []string) error

var commands = map[string]command{
	"list":       listCmd,
	"get":        getCmd,
	"code":       codeCmd,
	"create":     createCmd,
	"assign":     assignCmd,
	"escalate":   escalateCmd,
	"comment":    commentCmd,
	"categories": categoriesCmd,
	"export":     exportCmd,
	"archived":   archivedCmd,
}

// filterFlags binds the ticket list filters to a flag set.
type filterFlags struct {
	statuses   []string
	priorities []string
	category   string
	department string
	assignedTo string
	search     string
	page       int
	limit      int
}

func (f *filterFlags) bind(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.statuses, "status", nil, "status filter, repeatable")
	fs.StringSliceVar(&f.priorities, "priority", nil, "priority filter, repeatable")
	fs.StringVar(&f.category, "category", "", "category id")
	fs.StringVar(&f.department, "department", "", "department id")
	fs.StringVar(&f.assignedTo, "assigned-to", "", "assigned agent id")
	fs.StringVar(&f.search, "search", "", "free text search")
	fs.IntVar(&f.page, "page", 0, "page number")
	fs.IntVar(&f.limit, "limit", 0, "page size")
}

func (f *filterFlags) filters() (dto.TicketFilters, error) {
	var out dto.TicketFilters
	for _, raw := range f.statuses {
		status := domain.TicketStatus(strings.TrimSpace(raw))
		if !status.Valid() {
			return out, fmt.Errorf("invalid status %q", raw)
		}
		out.Status = append(out.Status, status)
	}
	for _, raw := range f.priorities {
		priority := domain.TicketPriority(strings.TrimSpace(raw))
		if !priority.Valid() {
			return out, fmt.Errorf("invalid priority %q", raw)
		}
		out.Priority = append(out.Priority, priority)
	}
	out.CategoryID = optional(f.category)
	out.DepartmentID = optional(f.department)
	out.AssignedTo = optional(f.assignedTo)
	out.Search = optional(f.search)
	if f.page > 0 {
		page := f.page
		out.Page = &page
	}
	if f.limit > 0 {
		limit := f.limit
		out.Limit = &limit
	}
	return out, nil
}

func optional(v string) *string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}

func listCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "list")
	var f filterFlags
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}
	page, err := e.api.ListTickets(ctx, filters)
	if err != nil {
		return err
	}
	return e.print(page)
}

func getCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "get")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "ticket id")
	if err != nil {
		return err
	}
	res, err := e.api.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	return e.print(res.Data)
}

func codeCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	code, err := requireArg(fs, "ticket code")
	if err != nil {
		return err
	}
	res, err := e.api.GetTicketByCode(ctx, code)
	if err != nil {
		return err
	}
	return e.print(res.Data)
}

func createCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "create")
	var req dto.CreateTicketRequest
	var phone, category, department, priority string
	fs.StringVar(&req.Subject, "subject", "", "ticket subject (required)")
	fs.StringVar(&req.Description, "description", "", "ticket description")
	fs.StringVar(&req.CustomerName, "customer-name", "", "customer name (required)")
	fs.StringVar(&req.CustomerEmail, "customer-email", "", "customer email (required)")
	fs.StringVar(&phone, "customer-phone", "", "customer phone")
	fs.StringVar(&priority, "priority", string(domain.TicketPriorityMedium), "low, medium, high or urgent")
	fs.StringVar(&category, "category", "", "category id")
	fs.StringVar(&department, "department", "", "department id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.Subject == "" || req.CustomerName == "" || req.CustomerEmail == "" {
		return fmt.Errorf("create: --subject, --customer-name and --customer-email are required")
	}
	req.Priority = domain.TicketPriority(priority)
	if !req.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", priority)
	}
	req.CustomerPhone = optional(phone)
	req.CategoryID = optional(category)
	req.DepartmentID = optional(department)

	res, err := e.api.CreateTicket(ctx, req)
	if err != nil {
		return err
	}
	return e.print(res.Data)
}

func assignCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "assign")
	agent := fs.String("agent", "", "agent id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "ticket id")
	if err != nil {
		return err
	}
	if *agent == "" {
		return fmt.Errorf("assign: --agent is required")
	}
	res, err := e.api.AssignTicket(ctx, id, dto.AssignTicketRequest{AgentID: *agent})
	if err != nil {
		return err
	}
	return e.print(res.Data)
}

func escalateCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "escalate")
	reason := fs.String("reason", "", "escalation reason")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "ticket id")
	if err != nil {
		return err
	}
	res, err := e.api.EscalateTicket(ctx, id, dto.EscalateTicketRequest{Reason: optional(*reason)})
	if err != nil {
		return err
	}
	return e.print(res.Data)
}

func commentCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "comment")
	content := fs.String("content", "", "comment text (required)")
	public := fs.Bool("public", false, "visible to the customer")
	author := fs.String("author", "", "author user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireArg(fs, "ticket id")
	if err != nil {
		return err
	}
	if strings.TrimSpace(*content) == "" {
		return fmt.Errorf("comment: --content is required")
	}
	res, err := e.api.AddComment(ctx, dto.AddCommentRequest{
		TicketID:  id,
		Content:   *content,
		IsPublic:  *public,
		CreatedBy: *author,
	})
	if err != nil {
		return err
	}
	return e.print(res.Data)
}

func categoriesCmd(ctx context.Context, e *env, args []string) error {
	fs := newCommandFlags(e, "categories")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch fs.NArg() {
	case 0:
		res, err := e.api.ListCategories(ctx)
		if err != nil {
			return err
		}
		return e.print(res.Data)
	case 1:
		res, err := e.api.GetCategory(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return e.print(res.Data)
	default:
		return fmt.Errorf("categories: at most one category id")
	}
}
