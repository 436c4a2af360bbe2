// Package app wires configuration, storage, and the HTTP surface into one
// runnable handler. Both cmd/api and the serverless entry point build the
// same Runtime.
package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"warehouse/internal/auth"
	"warehouse/internal/config"
	"warehouse/internal/db"
	"warehouse/internal/observability"
	"warehouse/internal/password"
	"warehouse/internal/rest"
	"warehouse/internal/token"
	"warehouse/internal/user"
)

type Options struct {
	LoadDotEnv bool
}

type Runtime struct {
	Handler http.Handler
	Logger  *observability.Logger
	Config  config.Config
	Close   func() error
}

func Build(options Options) (*Runtime, error) {
	cfg, err := config.Load(options.LoadDotEnv)
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger()

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		logger.Error("init_sentry_failed", map[string]any{"error": err.Error()})
	}

	database, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	database.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	database.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(context.Background(), database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	users := user.NewPostgresRepository(database)
	hasher := password.NewHasher()
	codec := token.NewCodec([]byte(cfg.JWTSecret))
	service := auth.NewService(users, hasher, codec)
	handler := rest.NewHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/sign-up", handler.SignUp)
	mux.HandleFunc("POST /auth/sign-in", handler.SignIn)
	mux.Handle("GET /auth/me", rest.Middleware(codec, http.HandlerFunc(handler.Me)))
	mux.Handle("PUT /auth/password", rest.Middleware(codec, http.HandlerFunc(handler.ChangePassword)))
	mux.HandleFunc("GET /health-check", healthHandler(database))

	wrapped := observability.Recover(logger, observability.RequestLogging(logger, mux))

	return &Runtime{
		Handler: wrapped,
		Logger:  logger,
		Config:  cfg,
		Close: func() error {
			observability.FlushSentry()
			return database.Close()
		},
	}, nil
}

func healthHandler(database *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
		if err := database.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body = map[string]any{"status": "degraded", "time": time.Now().UTC().Format(time.RFC3339)}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
