package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/clubstake/backend/internal/config"
	"github.com/clubstake/backend/internal/handler"
	"github.com/clubstake/backend/internal/logging"
	"github.com/clubstake/backend/internal/middleware"
	"github.com/clubstake/backend/internal/repository"
	"github.com/clubstake/backend/internal/service"
	"github.com/clubstake/backend/internal/service/match"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("clubstake-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accounts := repository.NewAccountRepository(db)
	matches := repository.NewMatchRepository(db)
	ledger := repository.NewLedgerRepository(db)
	users := repository.NewUserRepository(db)

	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.NotifierURL != "" {
		notifier = service.NewNotifierClient(cfg.NotifierURL)
	}

	accountSvc := service.NewService(accounts, ledger, notifier, db)
	matchSvc := match.NewService(matches, accounts, ledger, db)

	router := newRouter(cfg, db, accountSvc, matchSvc, users)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newRouter(
	cfg *config.Config,
	db *sql.DB,
	accountSvc *service.Service,
	matchSvc *match.Service,
	users *repository.UserRepository,
) http.Handler {
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, time.Duration(cfg.TokenExpiryHours)*time.Hour)
	accountHandler := handler.NewAccountHandler(accountSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)
	txHandler := handler.NewTransactionHandler(accountSvc, cfg.LedgerPageSize)

	r := chi.NewRouter()
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Post("/matches", matchHandler.Create)
			r.Get("/matches", matchHandler.List)
			r.Get("/matches/{id}", matchHandler.Get)
			r.Post("/matches/{id}/settle", matchHandler.Settle)
			r.Post("/matches/{id}/payments", matchHandler.Pay)

			r.Get("/accounts/me", accountHandler.GetOwn)
			r.Get("/accounts/{id}", accountHandler.Get)
			r.Post("/accounts/{id}/adjust", accountHandler.Adjust)
			r.Get("/accounts/{id}/transactions", txHandler.ListByAccount)

			r.Get("/transactions", txHandler.ListAll)
		})
	})

	return r
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
