package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-ops/internal/transport/middleware"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LoggingMiddleware", func() {
	It("should mask credentials and keep the body readable downstream", func() {
		var buf bytes.Buffer
		lg := logger.New(&buf, "json", "debug")

		var downstream string
		h := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			downstream = string(b)
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.c","password":"hunter2"}`))
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(downstream).To(ContainSubstring("hunter2"))
		Expect(buf.String()).NotTo(ContainSubstring("hunter2"))
		Expect(buf.String()).NotTo(ContainSubstring("Bearer abc"))
		Expect(buf.String()).To(ContainSubstring(`"status_code":201`))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should answer 500 without leaking the panic value", func() {
		h := middleware.RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("db password is swordfish")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("swordfish"))
	})
})

var _ = Describe("RequestID", func() {
	It("should mint a trace id when none is supplied", func() {
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})
})
