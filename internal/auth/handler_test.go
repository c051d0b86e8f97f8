package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler   *Handler
		tokenGen  *JWTTokenGenerator
		seen      *access.Caller
		protected http.Handler
	)

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
		svc := NewService(newMockUserRepository(), tokenGen, bcrypt.MinCost, logger.Discard())
		handler = NewHandler(transport.NewBaseHandler(logger.Discard()), svc)

		seen = nil
		protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, _ := internal.CallerFromContext(r.Context())
			seen = &c
			w.WriteHeader(http.StatusOK)
		}))
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		return body
	}

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("should answer 401 no-token without a bearer header", func() {
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["reason"]).To(gomega.Equal("no-token"))
			gomega.Expect(seen).To(gomega.BeNil())
		})

		ginkgo.It("should answer 401 invalid-token for a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
			req.Header.Set("Authorization", "Bearer not.a.token")
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["reason"]).To(gomega.Equal("invalid-token"))
		})

		ginkgo.It("should store the caller from the token claims", func() {
			token, err := tokenGen.GenerateAccessToken(&userDatamodel.User{ID: 7, Grade: 2, Department: "Sales"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(*seen).To(gomega.Equal(access.Caller{ID: 7, Grade: 2, Department: "Sales"}))
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens for valid credentials", func() {
			body := `{"email":"employee@example.com","password":"correct_password"}`
			rec := httptest.NewRecorder()

			handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(decode(rec)["access_token"]).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should return 401 for bad credentials", func() {
			body := `{"email":"employee@example.com","password":"wrong"}`
			rec := httptest.NewRecorder()

			handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decode(rec)["code"]).To(gomega.Equal("INVALID_CREDENTIALS"))
		})

		ginkgo.It("should return 400 for a malformed body", func() {
			rec := httptest.NewRecorder()

			handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{")))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should return 201 then 409 for the same email", func() {
			body := `{"name":"Rina","email":"rina@example.com","password":"supersecret","department":"Planning"}`

			first := httptest.NewRecorder()
			handler.Register(first, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))
			second := httptest.NewRecorder()
			handler.Register(second, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))

			gomega.Expect(first.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(second.Code).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(decode(second)["message"]).To(gomega.Equal("Email already registered"))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should return 204 for a valid token", func() {
			token, _ := tokenGen.GenerateAccessToken(&userDatamodel.User{ID: 1, Grade: 1, Department: "Sales"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		})
	})
})
