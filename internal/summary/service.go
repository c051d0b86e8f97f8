package summary

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transaction"
)

type RepositoryAPI interface {
	Totals(ctx context.Context, where sq.Sqlizer) ([]Total, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Totals groups the caller's visible transactions by department and
// category. Filters narrow the slice the same way they do for the list.
func (s *Service) Totals(ctx context.Context, d access.Decision, f access.Filters) ([]Total, error) {
	where, err := access.Compose(d, transaction.Columns, f)
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	totals, err := s.repo.Totals(ctx, where)
	if err != nil {
		return nil, errors.NewDependencyError("failed to summarise transactions", err)
	}
	if totals == nil {
		totals = []Total{}
	}
	return totals, nil
}
