package internal_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Denial errors", func() {
	DescribeTable("status mapping",
		func(reason access.Reason, status int) {
			Expect(internal.NewDenialError(reason, "denied").StatusCode).To(Equal(status))
		},
		Entry("no token", access.ReasonNoToken, http.StatusUnauthorized),
		Entry("invalid token", access.ReasonInvalidToken, http.StatusUnauthorized),
		Entry("insufficient role", access.ReasonInsufficientRole, http.StatusForbidden),
		Entry("insufficient grade", access.ReasonInsufficientGrade, http.StatusForbidden),
		Entry("self action", access.ReasonSelfActionForbidden, http.StatusForbidden),
		Entry("scope mismatch", access.ReasonScopeMismatch, http.StatusForbidden),
		Entry("invalid request", access.ReasonInvalidRequest, http.StatusBadRequest),
	)

	It("should expose the reason and message in JSON", func() {
		body, err := json.Marshal(internal.NewDenialError(access.ReasonInsufficientGrade, "Grade 3+ users only"))
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]interface{}
		Expect(json.Unmarshal(body, &decoded)).To(Succeed())
		Expect(decoded["message"]).To(Equal("Grade 3+ users only"))
		Expect(decoded["reason"]).To(Equal("insufficient-grade"))
		Expect(decoded["code"]).To(Equal("INSUFFICIENT_GRADE"))
	})

	It("should find wrapped access denials", func() {
		err := fmt.Errorf("list: %w", &access.DeniedError{Reason: access.ReasonScopeMismatch, Message: "nope"})

		appErr, ok := internal.IsAppError(err)

		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusForbidden))
		Expect(appErr.Reason).To(Equal(access.ReasonScopeMismatch))
	})

	It("should find wrapped app errors", func() {
		err := fmt.Errorf("lookup: %w", internal.ErrUserNotFound)

		appErr, ok := internal.IsAppError(err)

		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should hide dependency causes from the message", func() {
		appErr := internal.NewDependencyError("Service temporarily unavailable", fmt.Errorf("dial tcp: refused"))

		body, _ := json.Marshal(appErr)
		Expect(string(body)).NotTo(ContainSubstring("dial tcp"))
		Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("FromScopeError", func() {
	It("should map a filter outside the scope to 403", func() {
		appErr := internal.FromScopeError(&access.DeniedError{Reason: access.ReasonScopeMismatch, Message: "outside"})

		Expect(appErr.StatusCode).To(Equal(http.StatusForbidden))
		Expect(appErr.Reason).To(Equal(access.ReasonScopeMismatch))
	})

	It("should map a missing department to 400", func() {
		Expect(internal.FromScopeError(access.ErrEmptyDepartment).StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("should treat anything else as a 500", func() {
		Expect(internal.FromScopeError(access.ErrMissingColumn).StatusCode).To(Equal(http.StatusInternalServerError))
	})
})
