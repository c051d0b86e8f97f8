package transaction

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	transactionDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-ops/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*transactionDatamodel.Transaction, int64, error)
	GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error)
	Create(ctx context.Context, t *transactionDatamodel.Transaction) error
	// Review moves a pending row to status and reports whether a row changed.
	Review(ctx context.Context, id int64, status string, reviewerID int64, at time.Time) (bool, error)
}

type CategoryChecker interface {
	IsValidCategory(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryChecker
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

// List returns the caller's visible slice of the feed. The authorization
// predicate is always part of the query; filters only narrow it.
func (s *Service) List(ctx context.Context, d access.Decision, f access.Filters, limit, offset int) (*ListResponse, error) {
	where, err := access.Compose(d, Columns, f)
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	rows, total, err := s.repo.List(ctx, where, limit, offset)
	if err != nil {
		return nil, errors.NewDependencyError("failed to list transactions", err)
	}

	out := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return &ListResponse{Transactions: out, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) Create(ctx context.Context, d access.Decision, dto CreateTransactionDTO) (*Transaction, error) {
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

	row := &transactionDatamodel.Transaction{
		UserID:        d.Caller.ID,
		Amount:        dto.Amount.Round(2),
		Category:      dto.Category,
		Department:    department,
		Justification: strings.TrimSpace(dto.Justification),
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewDependencyError("failed to create transaction", err)
	}

	s.logger.InfoContext(ctx, "transaction created", "transaction_id", row.ID, "department", row.Department)
	return FromDataModel(row), nil
}

// UpdateStatus approves or rejects a pending transaction. Anything not
// pending is immutable.
func (s *Service) UpdateStatus(ctx context.Context, d access.Decision, id int64, dto UpdateStatusDTO) (*Transaction, error) {
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

	changed, err := s.repo.Review(ctx, id, dto.Status, d.Caller.ID, time.Now().UTC())
	if err != nil {
		return nil, errors.NewDependencyError("failed to update transaction", err)
	}
	if !changed {
		return nil, errors.ErrInvalidStatusTransition
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "transaction reviewed", "transaction_id", id, "status", updated.Status)
	if s.publisher != nil {
		event := events.NewTransactionStatusChangedEvent(id, updated.UserID, d.Caller.ID, updated.Status)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish transaction review", "transaction_id", id, "error", err)
		}
	}
	return FromDataModel(updated), nil
}

func (s *Service) load(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrTransactionNotFound) {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, errors.NewDependencyError("failed to load transaction", err)
	}
	return row, nil
}
