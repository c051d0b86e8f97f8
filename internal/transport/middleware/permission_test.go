package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/internal/transport/middleware"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Authorizer", func() {
	var (
		authorizer *middleware.Authorizer
		seen       access.Decision
		reached    bool
	)

	BeforeEach(func() {
		authorizer = middleware.NewAuthorizer(transport.NewBaseHandler(logger.Discard()), access.NewEvaluator())
		seen = access.Decision{}
		reached = false
	})

	serve := func(caller *access.Caller, method, pattern, target string, res access.Resource, act access.Action) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(internal.ContextWithCaller(r.Context(), *caller))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.With(authorizer.Require(res, act)).MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
			reached = true
			seen, _ = internal.DecisionFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	body := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	It("should attach the department decision for a manager", func() {
		// Given
		mgr := access.Caller{ID: 4, Grade: access.GradeManager, Department: "Sales"}

		// When
		rec := serve(&mgr, http.MethodGet, "/transactions", "/transactions?scope=department", access.ResourceTransactions, access.ActionList)

		// Then
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
		Expect(seen.Scope).To(Equal(access.ScopeDepartment))
		Expect(seen.Caller.Department).To(Equal("Sales"))
	})

	It("should accept team as a department alias", func() {
		mgr := access.Caller{ID: 4, Grade: access.GradeManager, Department: "Sales"}

		rec := serve(&mgr, http.MethodGet, "/commission", "/commission?scope=team", access.ResourceCommission, access.ActionList)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(seen.Scope).To(Equal(access.ScopeDepartment))
	})

	It("should return 403 insufficient-grade for an employee asking for all", func() {
		emp := access.Caller{ID: 5, Grade: access.GradeEmployee, Department: "HR"}

		rec := serve(&emp, http.MethodGet, "/transactions", "/transactions?scope=all", access.ResourceTransactions, access.ActionList)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(reached).To(BeFalse())
		Expect(body(rec)["reason"]).To(Equal("insufficient-grade"))
		Expect(body(rec)["message"]).NotTo(BeEmpty())
	})

	It("should return 403 insufficient-role for an admin on the transaction feed", func() {
		adm := access.Caller{ID: 1, IsAdmin: true}

		rec := serve(&adm, http.MethodGet, "/transactions", "/transactions", access.ResourceTransactions, access.ActionList)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(body(rec)["reason"]).To(Equal("insufficient-role"))
	})

	It("should return 403 self-action-forbidden when a user changes their own role", func() {
		self := access.Caller{ID: 7, Grade: access.GradeEmployee, Department: "HR"}

		rec := serve(&self, http.MethodPatch, "/users/{id}/role", "/users/7/role", access.ResourceUsers, access.ActionChangeRole)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(body(rec)["reason"]).To(Equal("self-action-forbidden"))
	})

	It("should return 401 without a caller", func() {
		rec := serve(nil, http.MethodGet, "/budget", "/budget", access.ResourceBudget, access.ActionList)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(body(rec)["reason"]).To(Equal("no-token"))
	})

	It("should return 400 for an unknown scope", func() {
		head := access.Caller{ID: 9, Grade: access.GradeFinanceHead, Department: "Finance"}

		rec := serve(&head, http.MethodGet, "/invoices", "/invoices?scope=galaxy", access.ResourceInvoices, access.ActionList)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(reached).To(BeFalse())
	})
})
