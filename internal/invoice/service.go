package invoice

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	invoiceDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/invoice"
	"github.com/frahmantamala/finance-ops/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*invoiceDatamodel.Invoice, int64, error)
	GetByID(ctx context.Context, id int64) (*invoiceDatamodel.Invoice, error)
	Create(ctx context.Context, inv *invoiceDatamodel.Invoice) error
	Review(ctx context.Context, id int64, review Review) (bool, error)
}

// Review is the outcome a finance head records against a pending invoice.
type Review struct {
	Status     string
	ReviewerID int64
	Reason     *string
	At         time.Time
}

type CategoryChecker interface {
	IsValidCategory(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryChecker
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, categories CategoryChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, d access.Decision, f access.Filters, limit, offset int) (*ListResponse, error) {
	where, err := access.Compose(d, Columns, f)
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	rows, total, err := s.repo.List(ctx, where, limit, offset)
	if err != nil {
		return nil, errors.NewDependencyError("failed to list invoices", err)
	}

	out := make([]*Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return &ListResponse{Invoices: out, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) Create(ctx context.Context, d access.Decision, dto CreateInvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	department := d.Caller.Department
	if dto.Department != "" && dto.Department != department {
		return nil, errors.NewDenialError(access.ReasonScopeMismatch, "Records can only be created for your own department")
	}

	ok, err := s.categories.IsValidCategory(ctx, dto.Category)
	if err != nil {
		return nil, errors.NewDependencyError("failed to check category", err)
	}
	if !ok {
		return nil, errors.NewValidationFieldError("category", "category is not active", errors.ErrCodeInvalidCategory)
	}

	now := s.now().UTC()
	invoiceDate, _ := dto.InvoiceDate(now)
	amount := dto.Amount.Round(2)
	rate := dto.Rate().Round(2)

	row := &invoiceDatamodel.Invoice{
		InvoiceNumber:    NewInvoiceNumber(now),
		UserID:           d.Caller.ID,
		Amount:           amount,
		Description:      strings.TrimSpace(dto.Description),
		Category:         dto.Category,
		Department:       department,
		CommissionRate:   rate,
		CommissionAmount: Commission(amount, rate),
		Status:           StatusPending,
		InvoiceDate:      invoiceDate,
	}
	if dto.DueDate != "" {
		due, _ := time.Parse(time.DateOnly, dto.DueDate)
		row.DueDate = &due
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewDependencyError("failed to create invoice", err)
	}

	s.logger.InfoContext(ctx, "invoice created",
		"invoice_id", row.ID,
		"invoice_number", row.InvoiceNumber,
		"department", row.Department)
	return FromDataModel(row), nil
}

func (s *Service) UpdateStatus(ctx context.Context, d access.Decision, id int64, dto UpdateStatusDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, errors.ErrInvalidStatusTransition
	}

	review := Review{Status: dto.Status, ReviewerID: d.Caller.ID, At: s.now().UTC()}
	if reason := strings.TrimSpace(dto.Reason); reason != "" && dto.Status == StatusRejected {
		review.Reason = &reason
	}

	changed, err := s.repo.Review(ctx, id, review)
	if err != nil {
		return nil, errors.NewDependencyError("failed to update invoice", err)
	}
	if !changed {
		return nil, errors.ErrInvalidStatusTransition
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "invoice reviewed", "invoice_id", id, "status", updated.Status)
	if s.publisher != nil {
		event := events.NewInvoiceReviewedEvent(
			updated.ID,
			updated.InvoiceNumber,
			updated.UserID,
			d.Caller.ID,
			updated.Amount,
			updated.Status == StatusApproved,
			dto.Reason,
		)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish invoice review", "invoice_id", id, "error", err)
		}
	}
	return FromDataModel(updated), nil
}

func (s *Service) load(ctx context.Context, id int64) (*invoiceDatamodel.Invoice, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrInvoiceNotFound) {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, errors.NewDependencyError("failed to load invoice", err)
	}
	return row, nil
}
