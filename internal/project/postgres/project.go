package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	appErrors "github.com/frahmantamala/finance-ops/internal"
	projectDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/project"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*projectDatamodel.Project, int64, error) {
	clause, args, err := where.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build project scope: %w", err)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&projectDatamodel.Project{}).Where(clause, args...).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	var rows []*projectDatamodel.Project
	err = r.db.WithContext(ctx).
		Where(clause, args...).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return rows, total, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) UpdateWhere(ctx context.Context, id int64, where sq.Sqlizer, fields map[string]interface{}) (int64, error) {
	clause, args, err := sq.And{sq.Eq{"id": id}, where}.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build project scope: %w", err)
	}

	res := r.db.WithContext(ctx).Model(&projectDatamodel.Project{}).Where(clause, args...).Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("update project: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&projectDatamodel.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count project: %w", err)
	}
	return n > 0, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error) {
	var row projectDatamodel.Project
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &row, nil
}
