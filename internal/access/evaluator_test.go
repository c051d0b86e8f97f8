package access_test

import (
	"github.com/frahmantamala/finance-ops/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var (
	admin    = access.Caller{ID: 1, IsAdmin: true}
	employee = access.Caller{ID: 10, Grade: access.GradeEmployee, Department: "Finance"}
	manager  = access.Caller{ID: 20, Grade: access.GradeManager, Department: "Sales"}
	head     = access.Caller{ID: 30, Grade: access.GradeFinanceHead, Department: "Finance"}

	gradedCallers = []access.Caller{employee, manager, head}

	gradeScopedResources = []access.Resource{
		access.ResourceTransactions,
		access.ResourceInvoices,
		access.ResourceBudget,
		access.ResourceCommission,
		access.ResourceProjects,
	}
)

var _ = Describe("Evaluator", func() {
	var evaluator *access.Evaluator

	BeforeEach(func() {
		evaluator = access.NewEvaluator()
	})

	decide := func(c access.Caller, res access.Resource, act access.Action, scope access.Scope) access.Decision {
		return evaluator.Decide(access.Request{Caller: &c, Resource: res, Action: act, Scope: scope})
	}

	Describe("list decisions on transactions", func() {
		DescribeTable("decision table",
			func(c access.Caller, scope access.Scope, allowed bool, reason access.Reason) {
				d := decide(c, access.ResourceTransactions, access.ActionList, scope)

				Expect(d.Allowed).To(Equal(allowed))
				Expect(d.Reason).To(Equal(reason))
			},
			Entry("employee self", employee, access.ScopeSelf, true, access.ReasonNone),
			Entry("manager self", manager, access.ScopeSelf, true, access.ReasonNone),
			Entry("head self", head, access.ScopeSelf, true, access.ReasonNone),
			Entry("employee department", employee, access.ScopeDepartment, false, access.ReasonInsufficientGrade),
			Entry("manager department", manager, access.ScopeDepartment, true, access.ReasonNone),
			Entry("head department", head, access.ScopeDepartment, false, access.ReasonScopeMismatch),
			Entry("employee all", employee, access.ScopeAll, false, access.ReasonInsufficientGrade),
			Entry("manager all", manager, access.ScopeAll, false, access.ReasonInsufficientGrade),
			Entry("head all", head, access.ScopeAll, true, access.ReasonNone),
			Entry("admin self", admin, access.ScopeSelf, false, access.ReasonInsufficientRole),
			Entry("admin all", admin, access.ScopeAll, false, access.ReasonInsufficientRole),
		)

		It("should default the scope from the caller's grade", func() {
			Expect(decide(employee, access.ResourceTransactions, access.ActionList, access.ScopeUnset).Scope).To(Equal(access.ScopeSelf))
			Expect(decide(manager, access.ResourceTransactions, access.ActionList, access.ScopeUnset).Scope).To(Equal(access.ScopeDepartment))
			Expect(decide(head, access.ResourceTransactions, access.ActionList, access.ScopeUnset).Scope).To(Equal(access.ScopeAll))
		})

		It("should refuse a department scope for a manager without a department", func() {
			orphan := access.Caller{ID: 21, Grade: access.GradeManager}

			d := decide(orphan, access.ResourceTransactions, access.ActionList, access.ScopeDepartment)

			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(access.ReasonInvalidRequest))
		})
	})

	Describe("properties", func() {
		It("should deny admins every grade-scoped resource with insufficient-role", func() {
			actions := []access.Action{access.ActionList, access.ActionCreate, access.ActionUpdate, access.ActionUpdateStatus}
			scopes := []access.Scope{access.ScopeUnset, access.ScopeSelf, access.ScopeDepartment, access.ScopeAll}

			for _, res := range gradeScopedResources {
				for _, act := range actions {
					for _, scope := range scopes {
						d := decide(admin, res, act, scope)
						Expect(d.Allowed).To(BeFalse(), "%s %s %s", res, act, scope)
						Expect(d.Reason).To(Equal(access.ReasonInsufficientRole))
					}
				}
			}
		})

		It("should allow admins the admin-only resources", func() {
			Expect(decide(admin, access.ResourceUsers, access.ActionList, access.ScopeUnset).Allowed).To(BeTrue())
			Expect(decide(admin, access.ResourceAuditLogs, access.ActionList, access.ScopeUnset).Allowed).To(BeTrue())
		})

		It("should deny graded callers the admin-only resources", func() {
			for _, c := range gradedCallers {
				for _, res := range []access.Resource{access.ResourceUsers, access.ResourceAuditLogs} {
					d := decide(c, res, access.ActionList, access.ScopeUnset)
					Expect(d.Allowed).To(BeFalse())
					Expect(d.Reason).To(Equal(access.ReasonInsufficientRole))
				}
			}
		})

		It("should only allow scope=all for grade 3 and scope=department for grade 2", func() {
			for _, res := range gradeScopedResources {
				for _, c := range gradedCallers {
					all := decide(c, res, access.ActionList, access.ScopeAll)
					Expect(all.Allowed).To(Equal(c.Grade == access.GradeFinanceHead), "%s grade %d all", res, c.Grade)

					dept := decide(c, res, access.ActionList, access.ScopeDepartment)
					Expect(dept.Allowed).To(Equal(c.Grade == access.GradeManager), "%s grade %d department", res, c.Grade)

					self := decide(c, res, access.ActionList, access.ScopeSelf)
					Expect(self.Allowed).To(BeTrue())
					Expect(self.Scope).To(Equal(access.ScopeSelf))
				}
			}
		})
	})

	Describe("creation", func() {
		It("should allow employees and managers to create transactions bound to their department", func() {
			for _, c := range []access.Caller{employee, manager} {
				d := decide(c, access.ResourceTransactions, access.ActionCreate, access.ScopeUnset)
				Expect(d.Allowed).To(BeTrue())
				Expect(d.Scope).To(Equal(access.ScopeDepartment))
			}
		})

		It("should deny finance heads creating invoices", func() {
			d := decide(head, access.ResourceInvoices, access.ActionCreate, access.ScopeUnset)

			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(access.ReasonInsufficientRole))
		})

		DescribeTable("project writes",
			func(c access.Caller, act access.Action, allowed bool, reason access.Reason) {
				d := decide(c, access.ResourceProjects, act, access.ScopeUnset)

				Expect(d.Allowed).To(Equal(allowed))
				Expect(d.Reason).To(Equal(reason))
			},
			Entry("employee create", employee, access.ActionCreate, false, access.ReasonInsufficientGrade),
			Entry("manager create", manager, access.ActionCreate, true, access.ReasonNone),
			Entry("head create", head, access.ActionCreate, false, access.ReasonInsufficientRole),
			Entry("employee update", employee, access.ActionUpdate, false, access.ReasonInsufficientGrade),
			Entry("manager update", manager, access.ActionUpdate, true, access.ReasonNone),
			Entry("head update", head, access.ActionUpdate, false, access.ReasonInsufficientRole),
		)
	})

	Describe("status transitions", func() {
		It("should allow only finance heads", func() {
			for _, res := range []access.Resource{access.ResourceInvoices, access.ResourceTransactions} {
				Expect(decide(head, res, access.ActionUpdateStatus, access.ScopeUnset).Allowed).To(BeTrue())

				d := decide(manager, res, access.ActionUpdateStatus, access.ScopeUnset)
				Expect(d.Allowed).To(BeFalse())
				Expect(d.Reason).To(Equal(access.ReasonInsufficientGrade))

				Expect(decide(employee, res, access.ActionUpdateStatus, access.ScopeUnset).Allowed).To(BeFalse())
			}
		})
	})

	Describe("self-action guard", func() {
		It("should forbid changing one's own role regardless of grade or admin status", func() {
			for _, c := range append([]access.Caller{admin}, gradedCallers...) {
				caller := c
				d := evaluator.Decide(access.Request{
					Caller:       &caller,
					Resource:     access.ResourceUsers,
					Action:       access.ActionChangeRole,
					TargetUserID: caller.ID,
				})

				Expect(d.Allowed).To(BeFalse())
				Expect(d.Reason).To(Equal(access.ReasonSelfActionForbidden))
			}
		})

		It("should forbid deleting one's own account", func() {
			d := evaluator.Decide(access.Request{
				Caller:       &admin,
				Resource:     access.ResourceUsers,
				Action:       access.ActionDelete,
				TargetUserID: admin.ID,
			})

			Expect(d.Reason).To(Equal(access.ReasonSelfActionForbidden))
			Expect(d.Message).To(Equal("You cannot delete your own account"))
		})

		It("should let an admin change someone else's role", func() {
			d := evaluator.Decide(access.Request{
				Caller:       &admin,
				Resource:     access.ResourceUsers,
				Action:       access.ActionChangeRole,
				TargetUserID: 7,
			})

			Expect(d.Allowed).To(BeTrue())
		})

		It("should pass other actions through CheckSelfAction", func() {
			Expect(access.CheckSelfAction(employee, employee.ID, access.ActionUpdate).Allowed).To(BeTrue())
		})
	})

	Describe("missing identity", func() {
		It("should deny with no-token", func() {
			d := evaluator.Decide(access.Request{Resource: access.ResourceTransactions, Action: access.ActionList})

			Expect(d.Reason).To(Equal(access.ReasonNoToken))
			Expect(d.Reason.Authentication()).To(BeTrue())
		})

		It("should treat a non-admin without a grade as a structural error", func() {
			c := access.Caller{ID: 5, Department: "HR"}

			d := decide(c, access.ResourceTransactions, access.ActionList, access.ScopeSelf)

			Expect(d.Reason).To(Equal(access.ReasonInvalidRequest))
		})
	})

	Describe("self-service resources", func() {
		It("should allow everyone their own notifications", func() {
			for _, c := range append([]access.Caller{admin}, gradedCallers...) {
				d := decide(c, access.ResourceNotifications, access.ActionList, access.ScopeUnset)
				Expect(d.Allowed).To(BeTrue())
				Expect(d.Scope).To(Equal(access.ScopeSelf))
			}
		})
	})
})

var _ = Describe("ParseScope", func() {
	It("should treat team as an alias of department", func() {
		scope, err := access.ParseScope("team")

		Expect(err).NotTo(HaveOccurred())
		Expect(scope).To(Equal(access.ScopeDepartment))
	})

	It("should reject unknown tokens", func() {
		_, err := access.ParseScope("everyone")

		Expect(err).To(HaveOccurred())
	})
})
