package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/audit"
	auditPostgres "github.com/frahmantamala/finance-ops/internal/audit/postgres"
	"github.com/frahmantamala/finance-ops/internal/auth"
	authPostgres "github.com/frahmantamala/finance-ops/internal/auth/postgres"
	"github.com/frahmantamala/finance-ops/internal/budget"
	budgetPostgres "github.com/frahmantamala/finance-ops/internal/budget/postgres"
	"github.com/frahmantamala/finance-ops/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-ops/internal/category/postgres"
	"github.com/frahmantamala/finance-ops/internal/commission"
	commissionPostgres "github.com/frahmantamala/finance-ops/internal/commission/postgres"
	"github.com/frahmantamala/finance-ops/internal/core/events"
	"github.com/frahmantamala/finance-ops/internal/identity"
	"github.com/frahmantamala/finance-ops/internal/invoice"
	invoicePostgres "github.com/frahmantamala/finance-ops/internal/invoice/postgres"
	"github.com/frahmantamala/finance-ops/internal/notification"
	notificationKafka "github.com/frahmantamala/finance-ops/internal/notification/kafka"
	notificationRedis "github.com/frahmantamala/finance-ops/internal/notification/redis"
	"github.com/frahmantamala/finance-ops/internal/project"
	projectPostgres "github.com/frahmantamala/finance-ops/internal/project/postgres"
	"github.com/frahmantamala/finance-ops/internal/summary"
	summaryPostgres "github.com/frahmantamala/finance-ops/internal/summary/postgres"
	"github.com/frahmantamala/finance-ops/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-ops/internal/transaction/postgres"
	"github.com/frahmantamala/finance-ops/internal/transport"
	"github.com/frahmantamala/finance-ops/internal/transport/middleware"
	"github.com/frahmantamala/finance-ops/internal/transport/rest"
	"github.com/frahmantamala/finance-ops/internal/transport/swagger"
	"github.com/frahmantamala/finance-ops/internal/user"
	userPostgres "github.com/frahmantamala/finance-ops/internal/user/postgres"
	"github.com/frahmantamala/finance-ops/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Gorm      *gorm.DB
	Redis     *redis.Client
	Forwarder *notificationKafka.Forwarder
	Bus       *events.EventBus
	Router    *chi.Mux
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

// close drains in-flight event handlers before releasing the
// connections they use.
func (d *Dependencies) close() {
	d.Bus.Wait()

	if d.Forwarder != nil {
		if err := d.Forwarder.Close(); err != nil {
			d.Logger.Error("Kafka writer close error", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := swagger.Load(context.Background()); err != nil {
		return err
	}

	base := transport.NewBaseHandler(lg)

	var inbox notification.Inbox = notification.NewMemoryInbox(cfg.Redis.InboxSize)
	if deps.Redis != nil {
		inbox = notificationRedis.NewInbox(deps.Redis, cfg.Redis.InboxSize)
	}
	var forwarder notification.Forwarder
	if deps.Forwarder != nil {
		forwarder = deps.Forwarder
	}
	notificationSvc := notification.NewService(inbox, forwarder, lg)
	notificationSvc.Subscribe(deps.Bus)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authSvc := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, cfg.Security.BCryptCost, lg)

	revoker := identity.NewClient(identity.Config{
		RevokeURL: cfg.Identity.RevokeURL,
		APIKey:    cfg.Identity.APIKey,
		Timeout:   cfg.Identity.Timeout,
	}, lg)
	userSvc := user.NewService(userPostgres.NewUserRepository(deps.Gorm), revoker, authSvc, deps.Bus, lg)

	categorySvc := category.NewService(categoryPostgres.NewCategoryRepository(deps.Gorm), lg)
	transactionSvc := transaction.NewService(transactionPostgres.NewTransactionRepository(deps.Gorm), categorySvc, deps.Bus, lg)
	summarySvc := summary.NewService(summaryPostgres.NewSummaryRepository(deps.DB), lg)
	invoiceSvc := invoice.NewService(invoicePostgres.NewInvoiceRepository(deps.Gorm), categorySvc, deps.Bus, lg)
	budgetSvc := budget.NewService(budgetPostgres.NewBudgetRepository(deps.Gorm), deps.Bus, lg)
	commissionSvc := commission.NewService(commissionPostgres.NewCommissionRepository(deps.DB), lg)
	projectSvc := project.NewService(projectPostgres.NewProjectRepository(deps.Gorm), lg)
	recorder := audit.NewRecorder(auditPostgres.NewAuditRepository(deps.DB), lg)

	checks := map[string]rest.Check{
		"postgres": deps.DB.PingContext,
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(base, authSvc),
		User:         user.NewHandler(base, userSvc),
		Category:     category.NewHandler(base, categorySvc),
		Transaction:  transaction.NewHandler(base, transactionSvc),
		Summary:      summary.NewHandler(base, summarySvc),
		Invoice:      invoice.NewHandler(base, invoiceSvc),
		Budget:       budget.NewHandler(base, budgetSvc),
		Commission:   commission.NewHandler(base, commissionSvc),
		Project:      project.NewHandler(base, projectSvc),
		Notification: notification.NewHandler(base, notificationSvc),
		Audit:        audit.NewHandler(base, recorder),
		Health:       rest.NewHealthHandler(checks),
	}

	rest.RegisterAllRoutes(deps.Router, handlers,
		middleware.NewAuthorizer(base, access.NewEvaluator()),
		recorder,
		rest.Options{
			AllowedOrigins:        cfg.Server.AllowedOrigins,
			Production:            cfg.IsProduction(),
			AuthRequestsPerMinute: cfg.RateLimit.AuthRequestsPerMinute,
		},
		lg,
	)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gdb,
		Bus:    events.NewEventBus(lg),
		Router: chi.NewRouter(),
	}

	if config.Redis.Addr != "" {
		rdb, err := initRedis(config.Redis)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		deps.Redis = rdb
	} else {
		lg.Warn("redis not configured, notifications are kept in memory")
	}

	if len(config.Kafka.Brokers) > 0 {
		deps.Forwarder = notificationKafka.NewForwarder(config.Kafka.Brokers, config.Kafka.Topic, lg)
	}

	return deps, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

func initRedis(cfg internal.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}
