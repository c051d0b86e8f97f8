package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/audit"
	"github.com/frahmantamala/finance-ops/internal/auth"
	"github.com/frahmantamala/finance-ops/internal/budget"
	"github.com/frahmantamala/finance-ops/internal/category"
	"github.com/frahmantamala/finance-ops/internal/commission"
	"github.com/frahmantamala/finance-ops/internal/invoice"
	"github.com/frahmantamala/finance-ops/internal/notification"
	"github.com/frahmantamala/finance-ops/internal/project"
	"github.com/frahmantamala/finance-ops/internal/summary"
	"github.com/frahmantamala/finance-ops/internal/transaction"
	"github.com/frahmantamala/finance-ops/internal/transport/middleware"
	"github.com/frahmantamala/finance-ops/internal/transport/swagger"
	"github.com/frahmantamala/finance-ops/internal/user"
	"github.com/go-chi/chi"
	"github.com/go-chi/httprate"
)

// Handlers groups everything the router mounts. Nil handlers leave their
// routes unmounted.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Category     *category.Handler
	Transaction  *transaction.Handler
	Summary      *summary.Handler
	Invoice      *invoice.Handler
	Budget       *budget.Handler
	Commission   *commission.Handler
	Project      *project.Handler
	Notification *notification.Handler
	Audit        *audit.Handler
	Health       *HealthHandler
}

type Options struct {
	AllowedOrigins        string
	Production            bool
	AuthRequestsPerMinute int
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, authz *middleware.Authorizer, recorder *audit.Recorder, opts Options, logger *slog.Logger) {
	router.Use(middleware.SecureHeaders(logger, opts.Production))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	audited := audit.Middleware(recorder)
	guard := func(res access.Resource, act access.Action) func(http.Handler) http.Handler {
		return authz.Require(res, act)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth != nil {
			r.Route("/auth", func(ar chi.Router) {
				ar.Group(func(limited chi.Router) {
					if opts.AuthRequestsPerMinute > 0 {
						limited.Use(httprate.LimitByIP(opts.AuthRequestsPerMinute, time.Minute))
					}
					limited.Post("/login", h.Auth.Login)
					limited.Post("/register", h.Auth.Register)
				})
				ar.Post("/refresh", h.Auth.RefreshToken)
				ar.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.With(guard(access.ResourceProfile, access.ActionRead)).Get("/users/me", h.User.GetCurrentUser)
				pr.With(guard(access.ResourceProfile, access.ActionUpdate), audited).Patch("/users/me/profile-picture", h.User.UpdateProfilePicture)

				pr.With(guard(access.ResourceUsers, access.ActionList)).Get("/users", h.User.ListUsers)
				pr.With(guard(access.ResourceUsers, access.ActionCreate), audited).Post("/users", h.User.CreateUser)
				pr.With(guard(access.ResourceUsers, access.ActionRead)).Get("/users/{id}", h.User.GetUser)
				pr.With(guard(access.ResourceUsers, access.ActionUpdate), audited).Patch("/users/{id}", h.User.UpdateUser)
				pr.With(guard(access.ResourceUsers, access.ActionChangeRole), audited).Patch("/users/{id}/role", h.User.ChangeRole)
				pr.With(guard(access.ResourceUsers, access.ActionDelete), audited).Delete("/users/{id}", h.User.DeleteUser)
			}

			if h.Audit != nil {
				pr.With(guard(access.ResourceAuditLogs, access.ActionList)).Get("/audit-logs", h.Audit.ListLogs)
			}

			if h.Transaction != nil {
				pr.With(guard(access.ResourceTransactions, access.ActionList)).Get("/transactions", h.Transaction.ListTransactions)
				pr.With(guard(access.ResourceTransactions, access.ActionCreate), audited).Post("/transactions", h.Transaction.CreateTransaction)
				pr.With(guard(access.ResourceTransactions, access.ActionUpdateStatus), audited).Patch("/transactions/{id}/status", h.Transaction.UpdateStatus)
			}

			if h.Summary != nil {
				pr.With(guard(access.ResourceTransactions, access.ActionList)).Get("/summary", h.Summary.GetSummary)
			}

			if h.Invoice != nil {
				pr.With(guard(access.ResourceInvoices, access.ActionList)).Get("/invoices", h.Invoice.ListInvoices)
				pr.With(guard(access.ResourceInvoices, access.ActionCreate), audited).Post("/invoices", h.Invoice.CreateInvoice)
				pr.With(guard(access.ResourceInvoices, access.ActionUpdateStatus), audited).Patch("/invoices/{id}/status", h.Invoice.UpdateStatus)
			}

			if h.Budget != nil {
				pr.With(guard(access.ResourceBudget, access.ActionRead)).Get("/budget", h.Budget.GetBudget)
			}

			if h.Commission != nil {
				pr.With(guard(access.ResourceCommission, access.ActionRead)).Get("/commission", h.Commission.GetCommission)
			}

			if h.Project != nil {
				pr.With(guard(access.ResourceProjects, access.ActionList)).Get("/projects", h.Project.ListProjects)
				pr.With(guard(access.ResourceProjects, access.ActionCreate), audited).Post("/projects", h.Project.CreateProject)
				pr.With(guard(access.ResourceProjects, access.ActionUpdate), audited).Patch("/projects/{id}", h.Project.UpdateProject)
			}

			if h.Notification != nil {
				pr.With(guard(access.ResourceNotifications, access.ActionList)).Get("/notifications", h.Notification.ListNotifications)
				pr.With(guard(access.ResourceNotifications, access.ActionRead)).Get("/notifications/stats", h.Notification.GetStats)
				pr.With(guard(access.ResourceNotifications, access.ActionUpdate), audited).Patch("/notifications/{id}/read", h.Notification.MarkRead)
			}
		})
	})
}
