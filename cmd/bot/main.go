package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tradeloop/internal/config"
	"tradeloop/internal/engine"
	"tradeloop/internal/exchange"
	"tradeloop/internal/logger"
	"tradeloop/internal/market"
	"tradeloop/internal/web"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	mode := flag.String("mode", "", "simulate or live (overrides the config file)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *mode)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog, err := logger.New(&logger.Config{
		LogFile:     cfg.Log.File,
		MaxSize:     cfg.Log.MaxSize,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAge:      cfg.Log.MaxAge,
		Compress:    cfg.Log.Compress,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zlog.Sync()

	runID := generateRunID()
	cycles, err := engine.NewCycleLogger(cfg.CycleLogPath, runID)
	if err != nil {
		zlog.Fatal("cycle logger error", zap.Error(err))
	}
	defer func() {
		if err := cycles.Close(); err != nil {
			zlog.Warn("failed to close cycle logger", zap.Error(err))
		}
	}()

	fetcher, executor := buildExchange(cfg, zlog)
	ctrl := engine.New(cfg, fetcher, nil, executor, cycles, zlog)
	server := web.NewServer(cfg.Server.Listen, ctrl, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Info("bot ready",
		zap.String("run_id", runID),
		zap.String("mode", string(cfg.Mode)),
		zap.String("symbol", cfg.Symbol),
		zap.String("listen", cfg.Server.Listen))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		zlog.Info("shutdown signal received")
		ctrl.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		zlog.Error("bot exited with error", zap.Error(err))
	}
	zlog.Info("bot shutdown complete")
}

// buildExchange picks the market data and order execution backends.
// Simulate keeps everything in-process; live talks to Alpaca.
func buildExchange(cfg config.Config, zlog *zap.Logger) (market.Fetcher, exchange.Executor) {
	if cfg.Mode == config.ModeLive {
		return market.NewAlpacaFetcher(cfg.APIKey, cfg.APISecret, zlog),
			exchange.NewAlpacaExecutor(cfg.APIKey, cfg.APISecret, cfg.APIBaseURL, zlog)
	}
	return market.NewSimulatedFetcher(50000, cfg.HistoryLimit),
		exchange.NewSimulatedExecutor(zlog)
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return timestamp
	}
	return timestamp + "-" + hex.EncodeToString(randomBytes)
}
