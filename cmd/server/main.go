package main

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

	"dashnotes/backend/internal/config"
	"dashnotes/backend/internal/httpserver"
	"dashnotes/backend/internal/infrastructure/password"
	"dashnotes/backend/internal/infrastructure/postgres"
	"dashnotes/backend/internal/infrastructure/token"
	"dashnotes/backend/internal/logger"
	authusecase "dashnotes/backend/internal/usecase/auth"
	noteusecase "dashnotes/backend/internal/usecase/note"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, !cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	rootCtx := context.Background()
	db, err := postgres.New(rootCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(rootCtx); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}

	tokenManager, err := token.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("init token manager: %w", err)
	}

	authService := authusecase.NewService(
		postgres.NewUserRepository(db.Pool),
		password.NewBcrypt(cfg.BcryptCost),
		tokenManager,
	)
	noteService := noteusecase.NewService(postgres.NewNoteRepository(db.Pool))

	server := httpserver.NewServer(cfg, log, authService, noteService, db)
	log.Info("HTTP server listening", "addr", server.Addr(), "env", cfg.Environment)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		log.Info("HTTP server stopped accepting new connections")
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return fmt.Errorf("serve: %w", err)
	case <-shutdownCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("graceful shutdown completed")
	return nil
}
