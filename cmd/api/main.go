package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/capprobe/internal/app"
	"github.com/hamed0406/capprobe/internal/config"
	"github.com/hamed0406/capprobe/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (env overrides it)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, logging.WithLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup_failed", zap.Error(err))
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		logger.Error("api_stopped", zap.Error(err))
		log.Fatal(err)
	}
}
