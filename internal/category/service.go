package category

import (
	"context"
	"log/slog"

	categoryDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetActive(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Deactivate(ctx context.Context, name string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories(ctx context.Context) ([]CategoryResponse, error) {
	rows, err := s.repo.GetActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get categories from repository", "error", err)
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}
	return responses, nil
}

// IsValidCategory reports whether name is an active category. Store errors
// are returned rather than treated as "invalid".
func (s *Service) IsValidCategory(ctx context.Context, name string) (bool, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	return row != nil && row.IsActive, nil
}
