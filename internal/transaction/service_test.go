package transaction

import (
	"context"
	stdErrors "errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/core/common/validation"
	transactionDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-ops/internal/core/events"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

type mockRepository struct {
	rows        map[int64]*transactionDatamodel.Transaction
	lastWhere   sq.Sqlizer
	reviewLoses bool
	err         error
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: map[int64]*transactionDatamodel.Transaction{}}
}

func (m *mockRepository) setError(err error) { m.err = err }

func (m *mockRepository) List(ctx context.Context, where sq.Sqlizer, limit, offset int) ([]*transactionDatamodel.Transaction, int64, error) {
	m.lastWhere = where
	if m.err != nil {
		return nil, 0, m.err
	}
	return nil, 0, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.ErrTransactionNotFound
	}
	copied := *row
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	if m.err != nil {
		return m.err
	}
	t.ID = int64(len(m.rows) + 1)
	m.rows[t.ID] = t
	return nil
}

func (m *mockRepository) Review(ctx context.Context, id int64, status string, reviewerID int64, at time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.reviewLoses {
		return false, nil
	}
	row := m.rows[id]
	row.Status = status
	row.ProcessedBy = &reviewerID
	row.ProcessedAt = &at
	return true, nil
}

type allowAll struct{}

func (allowAll) IsValidCategory(ctx context.Context, name string) (bool, error) { return true, nil }

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.calls++
	return stdErrors.New("bus closed")
}

var _ = Describe("Service", func() {
	var (
		repo      *mockRepository
		publisher *failingPublisher
		svc       *Service
		ctx       context.Context
	)

	employee := access.Decision{
		Allowed:  true,
		Caller:   access.Caller{ID: 7, Grade: access.GradeEmployee, Department: "Sales"},
		Resource: access.ResourceTransactions,
		Scope:    access.ScopeDepartment,
	}
	head := access.Decision{
		Allowed:  true,
		Caller:   access.Caller{ID: 9, Grade: access.GradeFinanceHead, Department: "Finance"},
		Resource: access.ResourceTransactions,
		Scope:    access.ScopeAll,
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		publisher = &failingPublisher{}
		svc = NewService(repo, allowAll{}, publisher, logger.Discard())
	})

	Describe("List", func() {
		It("should always hand the repository the scope predicate", func() {
			self := access.Decision{Allowed: true, Caller: employee.Caller, Scope: access.ScopeSelf}

			_, err := svc.List(ctx, self, access.Filters{Status: StatusPending}, 20, 0)

			Expect(err).NotTo(HaveOccurred())
			sql, args, err := repo.lastWhere.ToSql()
			Expect(err).NotTo(HaveOccurred())
			Expect(sql).To(ContainSubstring("user_id = ?"))
			Expect(sql).To(ContainSubstring("status = ?"))
			Expect(args).To(ContainElement(int64(7)))
		})

		It("should wrap repository failures as dependency errors", func() {
			repo.setError(stdErrors.New("connection reset"))

			_, err := svc.List(ctx, head, access.Filters{}, 20, 0)

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).NotTo(ContainSubstring("connection reset"))
		})
	})

	Describe("Create", func() {
		It("should round the amount to cents", func() {
			created, err := svc.Create(ctx, employee, CreateTransactionDTO{
				Amount:        decimal.RequireFromString("10.006"),
				Category:      "Travel",
				Justification: "taxi to airport",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Amount.String()).To(Equal("10.01"))
		})

		It("should reject amounts over the ceiling", func() {
			_, err := svc.Create(ctx, employee, CreateTransactionDTO{
				Amount:        validation.MaxAmount.Add(decimal.NewFromInt(1)),
				Category:      "Travel",
				Justification: "taxi to airport",
			})

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("UpdateStatus", func() {
		BeforeEach(func() {
			repo.rows[1] = &transactionDatamodel.Transaction{ID: 1, UserID: 7, Status: StatusPending, Department: "Sales"}
		})

		It("should succeed even when the event cannot be published", func() {
			updated, err := svc.UpdateStatus(ctx, head, 1, UpdateStatusDTO{Status: StatusRejected})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusRejected))
			Expect(publisher.calls).To(Equal(1))
		})

		It("should report a lost race as an invalid transition", func() {
			repo.reviewLoses = true

			_, err := svc.UpdateStatus(ctx, head, 1, UpdateStatusDTO{Status: StatusApproved})

			Expect(err).To(Equal(errors.ErrInvalidStatusTransition))
			Expect(publisher.calls).To(BeZero())
		})

		It("should accept a nil publisher", func() {
			svc = NewService(repo, allowAll{}, nil, logger.Discard())

			_, err := svc.UpdateStatus(ctx, head, 1, UpdateStatusDTO{Status: StatusApproved})

			Expect(err).NotTo(HaveOccurred())
		})
	})
})
