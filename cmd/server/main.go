package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/docs"
	"github.com/mt5crm/backoffice/internal/audit"
	"github.com/mt5crm/backoffice/internal/config"
	"github.com/mt5crm/backoffice/internal/database"
	"github.com/mt5crm/backoffice/internal/handlers"
	"github.com/mt5crm/backoffice/internal/ledger"
	"github.com/mt5crm/backoffice/internal/logger"
	mW "github.com/mt5crm/backoffice/internal/middleware"
	"github.com/mt5crm/backoffice/internal/services"
)

// @title MT5 CRM Back Office API
// @version 1.0
// @description Operator API for reviewing deposit and withdrawal requests
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// lockMargin keeps an action lock alive past the slowest ledger call.
const lockMargin = 5 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	docs.SwaggerInfo.Title = "MT5 CRM Back Office API"
	docs.SwaggerInfo.Description = "Operator API for reviewing deposit and withdrawal requests"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db, err := database.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient := database.InitRedis(cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	depositLedger := ledger.NewClient(cfg.Ledger.DepositURL, cfg.Ledger.DepositTimeout, log.Named("deposit_api"))
	refundLedger := ledger.NewClient(cfg.Ledger.RefundURL, cfg.Ledger.RefundTimeout, log.Named("balance_api"))

	lockTTL := cfg.Ledger.DepositTimeout
	if cfg.Ledger.RefundTimeout > lockTTL {
		lockTTL = cfg.Ledger.RefundTimeout
	}
	locks := services.NewActionLock(redisClient, lockTTL+lockMargin, log)
	auditLogger := audit.NewLogger(log)

	depositService := services.NewDepositService(db, depositLedger, locks, auditLogger, log)
	withdrawalService := services.NewWithdrawalService(db, refundLedger, locks, auditLogger, log, cfg.Ledger.SettlementCurrency)
	dashboardService := services.NewDashboardService(db, log)
	receiptService := services.NewReceiptService(cfg.Receipts.Dirs, log)
	authService := services.NewAuthService(db, redisClient, cfg.JWT, cfg.Argon2, log)

	depositHandler := handlers.NewDepositHandler(depositService, cfg.Pagination.PageSize, cfg.Pagination.MaxPageSize, log)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, cfg.Pagination.PageSize, cfg.Pagination.MaxPageSize, log)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	receiptHandler := handlers.NewReceiptHandler(receiptService, log)
	authHandler := handlers.NewAuthHandler(authService, log)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		services.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(mW.RequireOperator(authService, log))
			r.Use(mW.CacheControl("no-store"))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/deposits", depositHandler.ListDeposits)
			r.Post("/deposits/{id}/approve", depositHandler.ApproveDeposit)
			r.Post("/deposits/{id}/reject", depositHandler.RejectDeposit)

			r.Get("/withdrawals", withdrawalHandler.ListWithdrawals)
			r.Post("/withdrawals/{id}/approve", withdrawalHandler.ApproveWithdrawal)
			r.Post("/withdrawals/{id}/reject", withdrawalHandler.RejectWithdrawal)

			r.Get("/dashboard/pending", dashboardHandler.PendingSummary)
			r.Get("/dashboard/users", dashboardHandler.TotalUsers)
		})

		// Receipts set their own private cache header.
		r.Group(func(r chi.Router) {
			r.Use(mW.RequireOperator(authService, log))

			r.Get("/deposit-receipts/{code}", receiptHandler.GetReceipt)
			r.Get("/deposit_receipt/{code}", receiptHandler.GetReceipt)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
