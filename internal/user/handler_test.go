package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/internal/transport/middleware"
	"github.com/frahmantamala/finance-ops/internal/user"
	userPostgres "github.com/frahmantamala/finance-ops/internal/user/postgres"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type noopRevoker struct{}

func (noopRevoker) Revoke(ctx context.Context, externalUID string) error { return nil }

type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

var _ = Describe("User Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		caller access.Caller
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		for _, u := range []*userDatamodel.User{
			{Email: "admin@example.com", Name: "Admin", PasswordHash: "x", IsAdmin: true},
			{Email: "emp@example.com", Name: "Emp", PasswordHash: "x", Grade: 1, Department: "Sales"},
		} {
			Expect(db.Create(u).Error).To(Succeed())
		}

		base := transport.NewBaseHandler(logger.Discard())
		svc := user.NewService(userPostgres.NewUserRepository(db), noopRevoker{}, plainHasher{}, nil, logger.Discard())
		h := user.NewHandler(base, svc)
		authz := middleware.NewAuthorizer(base, access.NewEvaluator())

		caller = access.Caller{ID: 1, IsAdmin: true}
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithCaller(r.Context(), caller)))
			})
		})
		router.With(authz.Require(access.ResourceProfile, access.ActionRead)).Get("/users/me", h.GetCurrentUser)
		router.With(authz.Require(access.ResourceUsers, access.ActionList)).Get("/users", h.ListUsers)
		router.With(authz.Require(access.ResourceUsers, access.ActionUpdate)).Patch("/users/{id}", h.UpdateUser)
		router.With(authz.Require(access.ResourceUsers, access.ActionChangeRole)).Patch("/users/{id}/role", h.ChangeRole)
		router.With(authz.Require(access.ResourceUsers, access.ActionDelete)).Delete("/users/{id}", h.DeleteUser)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should answer 403 self-action-forbidden when an admin demotes themselves", func() {
		rec := do(http.MethodPatch, "/users/1/role", `{"role":"user"}`)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["message"]).To(Equal("You cannot change your own role"))

		var stored userDatamodel.User
		Expect(db.First(&stored, 1).Error).To(Succeed())
		Expect(stored.IsAdmin).To(BeTrue())
	})

	It("should answer 403 when a PATCH body flips is_admin on oneself", func() {
		rec := do(http.MethodPatch, "/users/1", `{"is_admin":false}`)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should answer 403 when an admin deletes themselves", func() {
		rec := do(http.MethodDelete, "/users/1", "")

		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should promote another user", func() {
		rec := do(http.MethodPatch, "/users/2/role", `{"role":"admin"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var profile user.Profile
		Expect(json.Unmarshal(rec.Body.Bytes(), &profile)).To(Succeed())
		Expect(profile.IsAdmin).To(BeTrue())
	})

	It("should demote a second admin once a department is supplied", func() {
		second := &userDatamodel.User{Email: "ops@example.com", Name: "Ops", PasswordHash: "x", IsAdmin: true}
		Expect(db.Create(second).Error).To(Succeed())
		target := "/users/" + strconv.FormatInt(second.ID, 10) + "/role"

		Expect(do(http.MethodPatch, target, `{"role":"user"}`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPatch, target, `{"role":"user","department":"Moon"}`).Code).To(Equal(http.StatusBadRequest))

		rec := do(http.MethodPatch, target, `{"role":"user","department":"Finance"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var stored userDatamodel.User
		Expect(db.First(&stored, second.ID).Error).To(Succeed())
		Expect(stored.IsAdmin).To(BeFalse())
		Expect(stored.Grade).To(Equal(int(access.GradeEmployee)))
		Expect(stored.Department).To(Equal("Finance"))
	})

	It("should answer 400 Invalid role", func() {
		rec := do(http.MethodPatch, "/users/2/role", `{"role":"owner"}`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("Invalid role"))
	})

	It("should delete another user", func() {
		rec := do(http.MethodDelete, "/users/2", "")

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		var count int64
		db.Model(&userDatamodel.User{}).Where("id = ?", 2).Count(&count)
		Expect(count).To(BeZero())
	})

	It("should answer 404 for an unknown user", func() {
		rec := do(http.MethodDelete, "/users/99", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should keep the user list away from graded callers", func() {
		caller = access.Caller{ID: 2, Grade: access.GradeEmployee, Department: "Sales"}

		rec := do(http.MethodGet, "/users", "")

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring("insufficient-role"))
	})

	It("should let any caller read their own profile", func() {
		caller = access.Caller{ID: 2, Grade: access.GradeEmployee, Department: "Sales"}

		rec := do(http.MethodGet, "/users/me", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		var profile user.Profile
		Expect(json.Unmarshal(rec.Body.Bytes(), &profile)).To(Succeed())
		Expect(profile.Email).To(Equal("emp@example.com"))
	})
})
