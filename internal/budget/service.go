package budget

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	budgetDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-ops/internal/core/events"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	ForYear(ctx context.Context, where sq.Sqlizer, fiscalYear int) ([]*budgetDatamodel.Budget, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

// Summary totals the current fiscal year's figures visible to the caller.
// The per-department breakdown is only returned for scope=all.
func (s *Service) Summary(ctx context.Context, d access.Decision) (*Summary, error) {
	where, err := access.BuildPredicate(d, Columns)
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	year := s.now().UTC().Year()
	rows, err := s.repo.ForYear(ctx, where, year)
	if err != nil {
		return nil, errors.NewDependencyError("failed to load budget figures", err)
	}

	total, spent := decimal.Zero, decimal.Zero
	var departments []DepartmentFigures
	for _, row := range rows {
		total = total.Add(row.BudgetAmount)
		spent = spent.Add(row.SpentAmount)
		if d.Scope == access.ScopeAll {
			departments = append(departments, DepartmentFigures{
				Department: row.Department,
				Figures:    NewFigures(row.BudgetAmount, row.SpentAmount),
			})
		}
	}

	summary := &Summary{FiscalYear: year, Figures: NewFigures(total, spent)}
	if d.Scope == access.ScopeAll {
		if departments == nil {
			departments = []DepartmentFigures{}
		}
		summary.Departments = departments
	}

	s.alert(ctx, d, summary.Figures)
	return summary, nil
}

func (s *Service) alert(ctx context.Context, d access.Decision, f Figures) {
	priority := f.AlertPriority()
	if priority == "" || s.publisher == nil {
		return
	}
	label := d.Caller.Department
	if d.Scope == access.ScopeAll {
		label = "All departments"
	}
	event := events.NewBudgetAlertEvent(d.Caller.ID, label, f.Utilization, priority)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish budget alert", "department", label, "error", err)
	}
}
