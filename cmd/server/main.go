package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"watchshop/internal/auth"
	"watchshop/internal/config"
	"watchshop/internal/database"
	"watchshop/internal/logs"
	"watchshop/internal/notify"
	"watchshop/internal/payment"
	"watchshop/internal/repository"
	"watchshop/internal/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger, err := logs.New(cfg)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	slog.SetDefault(logger)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongo, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongo.Close(closeCtx); err != nil {
			logger.Error("mongo disconnect failed", slog.Any("error", err))
		}
	}()

	tokens, err := auth.NewTokenService(cfg.AccessTokenSecret)
	if err != nil {
		return err
	}

	notifier, err := notify.New(cfg, logger)
	if err != nil {
		return err
	}

	repos := repository.NewMongoSet(mongo.DB)
	bridge := payment.NewBridge(
		payment.NewStripeIntents(cfg.Payment.SecretKey),
		cfg.Payment.Currency,
		repos.Payments,
		repos.Carts,
		notifier,
	)

	router := routes.NewRouter(cfg, logger, routes.Deps{
		Repos:    repos,
		Tokens:   tokens,
		Payments: bridge,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("watch shop server listening",
			slog.String("port", cfg.Port),
			slog.Bool("require_admin_role", cfg.RequireAdminRole),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("server stopped cleanly")
	return nil
}
