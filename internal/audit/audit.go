package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	auditDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/audit"
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFilter struct {
	UserID int64
	Limit  int
	Offset int
}

type ListResponse struct {
	Logs   []Entry `json:"logs"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type RepositoryAPI interface {
	Insert(ctx context.Context, log *auditDatamodel.AuditLog) error
	List(ctx context.Context, filter ListFilter) ([]auditDatamodel.AuditLog, int64, error)
}

// Recorder appends one row per authorised mutating request. Rows are never
// updated or removed by this service.
type Recorder struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(repo RepositoryAPI, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, userID int64, action string) error {
	log := &auditDatamodel.AuditLog{
		UserID:    userID,
		Action:    action,
		CreatedAt: r.now().UTC(),
	}
	if err := r.repo.Insert(ctx, log); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

func (r *Recorder) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, total, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	logs := make([]Entry, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, Entry{ID: row.ID, UserID: row.UserID, Action: row.Action, CreatedAt: row.CreatedAt})
	}
	return &ListResponse{Logs: logs, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}
