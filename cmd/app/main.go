package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"seoaudit/internal/pkg/administrator"
	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to the audit configuration file (required)")
		jsonPath   = flag.String("json", "", "Also write the report as JSON to this path")
		watch      = flag.Bool("watch", false, "Keep running and audit on an interval")
		interval   = flag.Duration("interval", 15*time.Minute, "Audit cadence in watch mode")
		listen     = flag.String("listen", "", "Serve /health and /metrics on this address")
		logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	if err := logger.InitLogger(*logLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	if *configPath == "" {
		logger.Log.Fatal("Config file is required (-config flag)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatal("Failed to load config", zap.Error(err))
	}

	admin := administrator.New(cfg)

	if *listen != "" {
		admin.StartStatusServer(*listen)
	}

	if *watch {
		// Watch mode runs until interrupted; its reports carry the verdicts.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		admin.Watch(ctx, *interval)
		return
	}

	rep, err := admin.RunAudit(context.Background())
	if err != nil {
		logger.Log.Fatal("Audit run failed", zap.Error(err))
	}
	if err := rep.Render(os.Stdout); err != nil {
		logger.Log.Fatal("Failed to render report", zap.Error(err))
	}
	if *jsonPath != "" {
		if err := rep.WriteJSON(*jsonPath); err != nil {
			logger.Log.Fatal("Failed to write JSON report", zap.Error(err))
		}
	}

	if !rep.Passed() {
		os.Exit(1)
	}
}
