package access_test

import (
	"errors"
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ledgerColumns = access.Columns{
	Owner:      "user_id",
	Department: "department",
	Status:     "status",
	Date:       "created_at",
}

type ledgerRow struct {
	ID         int64 `gorm:"primaryKey"`
	UserID     int64
	Department string
	Status     string
	CreatedAt  time.Time
}

var _ = Describe("BuildPredicate", func() {
	evaluator := access.NewEvaluator()

	decision := func(c access.Caller, scope access.Scope) access.Decision {
		return evaluator.Decide(access.Request{
			Caller:   &c,
			Resource: access.ResourceTransactions,
			Action:   access.ActionList,
			Scope:    scope,
		})
	}

	It("should filter by owner for scope=self", func() {
		pred, err := access.BuildPredicate(decision(employee, access.ScopeSelf), ledgerColumns)
		Expect(err).NotTo(HaveOccurred())

		sql, args, err := pred.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(sql).To(Equal("user_id = ?"))
		Expect(args).To(Equal([]interface{}{employee.ID}))
	})

	It("should filter by department for a manager", func() {
		pred, err := access.BuildPredicate(decision(manager, access.ScopeDepartment), ledgerColumns)
		Expect(err).NotTo(HaveOccurred())

		sql, args, err := pred.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(sql).To(Equal("department = ?"))
		Expect(args).To(Equal([]interface{}{"Sales"}))
	})

	It("should add no constraint for scope=all", func() {
		pred, err := access.BuildPredicate(decision(head, access.ScopeAll), ledgerColumns)
		Expect(err).NotTo(HaveOccurred())

		sql, args, err := pred.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(sql).To(Equal("(1=1)"))
		Expect(args).To(BeEmpty())
	})

	It("should narrow self to the department when the resource has no owner", func() {
		pred, err := access.BuildPredicate(decision(employee, access.ScopeSelf), access.Columns{Department: "department"})
		Expect(err).NotTo(HaveOccurred())

		sql, args, _ := pred.ToSql()
		Expect(sql).To(Equal("department = ?"))
		Expect(args).To(Equal([]interface{}{"Finance"}))
	})

	It("should refuse to build a predicate for a denied decision", func() {
		_, err := access.BuildPredicate(decision(employee, access.ScopeAll), ledgerColumns)

		Expect(err).To(MatchError(access.ErrNotAllowed))
	})
})

var _ = Describe("Compose", func() {
	evaluator := access.NewEvaluator()

	decision := func(c access.Caller, scope access.Scope) access.Decision {
		return evaluator.Decide(access.Request{
			Caller:   &c,
			Resource: access.ResourceTransactions,
			Action:   access.ActionList,
			Scope:    scope,
		})
	}

	It("should AND caller filters onto the authorization predicate", func() {
		where, err := access.Compose(decision(manager, access.ScopeDepartment), ledgerColumns, access.Filters{Status: "pending"})
		Expect(err).NotTo(HaveOccurred())

		sql, args, err := where.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(sql).To(Equal("(department = ? AND status = ?)"))
		Expect(args).To(Equal([]interface{}{"Sales", "pending"}))
		Expect(sql).NotTo(ContainSubstring(" OR "))
	})

	It("should honour a department filter under scope=all", func() {
		where, err := access.Compose(decision(head, access.ScopeAll), ledgerColumns, access.Filters{Department: "HR"})
		Expect(err).NotTo(HaveOccurred())

		_, args, _ := where.ToSql()
		Expect(args).To(ContainElement("HR"))
	})

	It("should reject a department filter that escapes the caller's scope", func() {
		_, err := access.Compose(decision(manager, access.ScopeDepartment), ledgerColumns, access.Filters{Department: "HR"})

		var denied *access.DeniedError
		Expect(errors.As(err, &denied)).To(BeTrue())
		Expect(denied.Reason).To(Equal(access.ReasonScopeMismatch))
	})

	It("should accept a redundant department filter matching the caller", func() {
		where, err := access.Compose(decision(manager, access.ScopeDepartment), ledgerColumns, access.Filters{Department: "Sales"})
		Expect(err).NotTo(HaveOccurred())

		sql, _, _ := where.ToSql()
		Expect(sql).To(Equal("(department = ?)"))
	})

	Describe("against a store", func() {
		var db *gorm.DB

		BeforeEach(func() {
			var err error
			db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			Expect(err).NotTo(HaveOccurred())
			sqlDB, err := db.DB()
			Expect(err).NotTo(HaveOccurred())
			sqlDB.SetMaxOpenConns(1)

			Expect(db.AutoMigrate(&ledgerRow{})).To(Succeed())

			now := time.Now()
			rows := []ledgerRow{
				{UserID: 10, Department: "Finance", Status: "pending", CreatedAt: now.Add(-48 * time.Hour)},
				{UserID: 10, Department: "Finance", Status: "approved", CreatedAt: now},
				{UserID: 20, Department: "Sales", Status: "pending", CreatedAt: now},
				{UserID: 21, Department: "Sales", Status: "rejected", CreatedAt: now.Add(-72 * time.Hour)},
				{UserID: 30, Department: "HR", Status: "approved", CreatedAt: now},
			}
			Expect(db.Create(&rows).Error).To(Succeed())
		})

		ids := func(where interface{ ToSql() (string, []interface{}, error) }) []int64 {
			sql, args, err := where.ToSql()
			Expect(err).NotTo(HaveOccurred())
			var out []int64
			Expect(db.Model(&ledgerRow{}).Where(sql, args...).Pluck("id", &out).Error).To(Succeed())
			return out
		}

		It("should never return rows the authorization predicate alone excludes", func() {
			yesterday := time.Now().Add(-24 * time.Hour)
			filters := []access.Filters{
				{},
				{Status: "pending"},
				{Status: "approved"},
				{From: &yesterday},
				{To: &yesterday},
				{Status: "rejected", To: &yesterday},
			}
			decisions := []access.Decision{
				decision(employee, access.ScopeSelf),
				decision(manager, access.ScopeDepartment),
				decision(head, access.ScopeAll),
			}

			for _, d := range decisions {
				pred, err := access.BuildPredicate(d, ledgerColumns)
				Expect(err).NotTo(HaveOccurred())
				authorized := ids(pred)

				for _, f := range filters {
					composed, err := access.Compose(d, ledgerColumns, f)
					Expect(err).NotTo(HaveOccurred())

					for _, id := range ids(composed) {
						Expect(authorized).To(ContainElement(id))
					}
				}
			}
		})

		It("should return only the manager's department rows", func() {
			pred, err := access.BuildPredicate(decision(manager, access.ScopeDepartment), ledgerColumns)
			Expect(err).NotTo(HaveOccurred())

			Expect(ids(pred)).To(HaveLen(2))
		})
	})
})
