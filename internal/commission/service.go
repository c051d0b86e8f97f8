package commission

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/invoice"
)

type RepositoryAPI interface {
	ApprovedLines(ctx context.Context, where sq.Sqlizer) ([]Line, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Report summarises approved invoices in the caller's scope. Top earners
// are only listed for department and organisation views.
func (s *Service) Report(ctx context.Context, d access.Decision, r Range) (*Report, error) {
	now := s.now().UTC()
	from, to := r.Start(now), End(now)

	where, err := access.Compose(d, invoice.Columns, access.Filters{
		Status: invoice.StatusApproved,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	lines, err := s.repo.ApprovedLines(ctx, where)
	if err != nil {
		return nil, errors.NewDependencyError("failed to load commission data", err)
	}

	return Aggregate(r, now, lines, d.Scope != access.ScopeSelf), nil
}
