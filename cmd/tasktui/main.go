package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskBoard/internal/app"
	"taskBoard/internal/config"
	"taskBoard/internal/logger"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(config.DefaultConfigPath())

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tasktui:", err)
		os.Exit(1)
	}
	defer a.Shutdown()

	logger.Info("Ядро задач запущено",
		zap.String("data_path", cfg.DataPath),
		zap.String("default_view", cfg.DefaultView))

	// слой представлений подключается к a.Service(); ядро держат воркеры
	a.Run(ctx)
}
