package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/moment-a/internal/app/receipt"
	"github.com/magabrotheeeer/moment-a/internal/config"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env)
	logger.Info("starting receipt-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := receipt.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize receipt-sender", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("receipt-sender stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("receipt-sender stopped gracefully")
}
