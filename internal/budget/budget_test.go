package budget_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/budget"
	budgetPostgres "github.com/frahmantamala/finance-ops/internal/budget/postgres"
	budgetDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-ops/internal/core/events"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/internal/transport/middleware"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestBudget(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Budget Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = DescribeTable("Figures",
	func(total, spent int64, remaining, utilization string, priority string) {
		f := budget.NewFigures(decimal.NewFromInt(total), decimal.NewFromInt(spent))

		Expect(f.Remaining.String()).To(Equal(remaining))
		Expect(f.Utilization.String()).To(Equal(utilization))
		Expect(f.AlertPriority()).To(Equal(priority))
	},
	Entry("comfortable", int64(1000), int64(500), "500", "50", ""),
	Entry("warning at 75%", int64(1000), int64(750), "250", "75", budget.PriorityMedium),
	Entry("critical at 90%", int64(1000), int64(900), "100", "90", budget.PriorityHigh),
	Entry("overspent", int64(1000), int64(1200), "-200", "120", budget.PriorityHigh),
	Entry("no budget", int64(0), int64(10), "-10", "0", ""),
)

var _ = Describe("Budget API", func() {
	var (
		router    chi.Router
		caller    access.Caller
		publisher *recordingPublisher
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&budgetDatamodel.Budget{})).To(Succeed())

		year := time.Now().UTC().Year()
		for _, b := range []budgetDatamodel.Budget{
			{Department: "Sales", FiscalYear: year, BudgetAmount: decimal.NewFromInt(1000), SpentAmount: decimal.NewFromInt(950)},
			{Department: "HR", FiscalYear: year, BudgetAmount: decimal.NewFromInt(3000), SpentAmount: decimal.NewFromInt(300)},
			{Department: "Sales", FiscalYear: year - 1, BudgetAmount: decimal.NewFromInt(9999), SpentAmount: decimal.NewFromInt(1)},
		} {
			row := b
			Expect(db.Create(&row).Error).To(Succeed())
		}

		publisher = &recordingPublisher{}
		base := transport.NewBaseHandler(logger.Discard())
		h := budget.NewHandler(base, budget.NewService(budgetPostgres.NewBudgetRepository(db), publisher, logger.Discard()))
		authz := middleware.NewAuthorizer(base, access.NewEvaluator())

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithCaller(r.Context(), caller)))
			})
		})
		router.With(authz.Require(access.ResourceBudget, access.ActionRead)).Get("/budget", h.GetBudget)
	})

	get := func(target string) (int, map[string]interface{}) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return rec.Code, body
	}

	It("should show an employee their department for the current year and raise a high alert", func() {
		caller = access.Caller{ID: 3, Grade: access.GradeEmployee, Department: "Sales"}

		code, body := get("/budget")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body["budget"]).To(Equal("1000"))
		Expect(body["remaining"]).To(Equal("50"))
		Expect(body).NotTo(HaveKey("departments"))
		Expect(publisher.events).To(HaveLen(1))
		alert := publisher.events[0].(*events.BudgetAlertEvent)
		Expect(alert.Priority).To(Equal(budget.PriorityHigh))
		Expect(alert.UserID).To(Equal(int64(3)))
	})

	It("should break down every department for scope=all", func() {
		caller = access.Caller{ID: 4, Grade: access.GradeFinanceHead, Department: "Finance"}

		code, body := get("/budget?scope=all")

		Expect(code).To(Equal(http.StatusOK))
		Expect(body["budget"]).To(Equal("4000"))
		Expect(body["departments"]).To(HaveLen(2))
		Expect(publisher.events).To(BeEmpty())
	})

	It("should refuse scope=all for managers", func() {
		caller = access.Caller{ID: 5, Grade: access.GradeManager, Department: "HR"}

		code, body := get("/budget?scope=all")

		Expect(code).To(Equal(http.StatusForbidden))
		Expect(body["reason"]).To(Equal("insufficient-grade"))
	})
})
