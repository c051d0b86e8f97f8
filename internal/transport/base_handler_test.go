package transport_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BaseHandler", func() {
	var h *transport.BaseHandler

	BeforeEach(func() {
		h = transport.NewBaseHandler(logger.Discard())
	})

	Describe("ParseFilters", func() {
		parse := func(query string) (time.Time, time.Time) {
			r := httptest.NewRequest(http.MethodGet, "/transactions?"+query, nil)
			f, err := h.ParseFilters(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.From).NotTo(BeNil())
			Expect(f.To).NotTo(BeNil())
			return *f.From, *f.To
		}

		It("should include the whole end day for a bare date", func() {
			from, to := parse("from=2025-01-01&to=2025-01-31")

			Expect(from).To(Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(to).To(Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("should keep RFC3339 bounds as given", func() {
			_, to := parse("from=2025-01-01T00:00:00Z&to=2025-01-31T12:30:00Z")

			Expect(to).To(Equal(time.Date(2025, 1, 31, 12, 30, 0, 0, time.UTC)))
		})

		It("should read status and department verbatim", func() {
			r := httptest.NewRequest(http.MethodGet, "/transactions?status=pending&department=Sales", nil)

			f, err := h.ParseFilters(r)

			Expect(err).NotTo(HaveOccurred())
			Expect(f.Status).To(Equal("pending"))
			Expect(f.Department).To(Equal("Sales"))
			Expect(f.From).To(BeNil())
		})

		It("should reject a malformed date", func() {
			r := httptest.NewRequest(http.MethodGet, "/transactions?to=31-01-2025", nil)

			_, err := h.ParseFilters(r)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ParsePagination", func() {
		It("should clamp out-of-range limits to the default", func() {
			r := httptest.NewRequest(http.MethodGet, "/x?limit=1000&offset=-3", nil)

			limit, offset := h.ParsePagination(r)

			Expect(limit).To(Equal(transport.DefaultLimit))
			Expect(offset).To(BeZero())
		})
	})
})
