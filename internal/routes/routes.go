package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/safepay-connect/safepay/internal/auth"
	"github.com/safepay-connect/safepay/internal/config"
	"github.com/safepay-connect/safepay/internal/identity"
	"github.com/safepay-connect/safepay/internal/ledger"
	"github.com/safepay-connect/safepay/internal/middleware"
	"github.com/safepay-connect/safepay/internal/notification"
	"github.com/safepay-connect/safepay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. With a nil DB the
// service runs on in-memory repositories, which is only permitted in dev.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	var (
		identityRepo identity.Repository
		walletRepo   wallet.Repository
		txRepo       ledger.Repository
		credRepo     auth.Repository
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		txRepo = ledger.NewPostgresRepository(d.DB)
		credRepo = auth.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository()
		txRepo = ledger.NewMemoryRepository()
		credRepo = auth.NewMemoryRepository()
	}

	identitySvc := identity.NewService(identityRepo)
	walletSvc := wallet.NewService(walletRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo, credRepo)
	notifier := notification.NewLoggerNotifier(d.Logger)
	ledgerSvc := ledger.NewService(identityRepo, walletRepo, txRepo, notifier)

	walletHandler := wallet.NewHandler(walletSvc)
	ledgerHandler := ledger.NewHandler(ledgerSvc)

	RegisterHealthRoute(app)

	// Public routes
	RegisterIdentityRoutes(app, identitySvc, authSvc, d.Logger)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMinute)
	RegisterAuthRoutes(app, authSvc, rateLimiter)

	// Protected routes
	bearer := middleware.BearerAuth(authSvc, identityRepo)
	protected := app.Group("", bearer)
	RegisterWalletRoutes(protected, walletHandler, walletSvc, ledgerSvc)
	RegisterTransactionRoutes(protected, ledgerHandler)

	return nil
}
