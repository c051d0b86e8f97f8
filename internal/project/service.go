package project

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	projectDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/project"
)

type RepositoryAPI interface {
	List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*projectDatamodel.Project, int64, error)
	Create(ctx context.Context, p *projectDatamodel.Project) error
	// UpdateWhere applies fields to project id only if it also matches
	// where, and reports the number of rows changed.
	UpdateWhere(ctx context.Context, id int64, where sq.Sqlizer, fields map[string]interface{}) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, d access.Decision, f access.Filters, limit, offset int) (*ListResponse, error) {
	where, err := access.Compose(d, Columns, f)
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	rows, total, err := s.repo.List(ctx, where, limit, offset)
	if err != nil {
		return nil, errors.NewDependencyError("failed to list projects", err)
	}

	out := make([]*Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return &ListResponse{Projects: out, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) Create(ctx context.Context, d access.Decision, dto CreateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	department := d.Caller.Department
	if dto.Department != "" && dto.Department != department {
		return nil, errors.NewDenialError(access.ReasonScopeMismatch, "Projects can only be created for your own department")
	}

	row := &projectDatamodel.Project{
		Name:        strings.TrimSpace(dto.Name),
		Description: strings.TrimSpace(dto.Description),
		Department:  department,
		Budget:      dto.Budget.Round(2),
		Status:      StatusActive,
		CreatedBy:   d.Caller.ID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewDependencyError("failed to create project", err)
	}

	s.logger.InfoContext(ctx, "project created", "project_id", row.ID, "department", department)
	return FromDataModel(row), nil
}

// Update changes a project inside the caller's department. A project that
// exists elsewhere is a scope mismatch; one that does not exist is 404.
func (s *Service) Update(ctx context.Context, d access.Decision, id int64, dto UpdateProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	where, err := access.BuildPredicate(d, Columns)
	if err != nil {
		return nil, errors.FromScopeError(err)
	}

	fields := dto.Fields()
	if len(fields) == 0 {
		return nil, errors.NewValidationError("No fields to update", errors.ErrCodeValidationFailed)
	}

	affected, err := s.repo.UpdateWhere(ctx, id, where, fields)
	if err != nil {
		return nil, errors.NewDependencyError("failed to update project", err)
	}
	if affected == 0 {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return nil, errors.NewDependencyError("failed to look up project", err)
		}
		if !exists {
			return nil, errors.ErrProjectNotFound
		}
		return nil, errors.NewDenialError(access.ReasonScopeMismatch, "Project belongs to another department")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrProjectNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, errors.NewDependencyError("failed to load project", err)
	}

	s.logger.InfoContext(ctx, "project updated", "project_id", id)
	return FromDataModel(updated), nil
}
