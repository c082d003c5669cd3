package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/africarailways/ussd-gateway/internal/adapters/atsms"
	"github.com/africarailways/ussd-gateway/internal/adapters/ratelimit"
	"github.com/africarailways/ussd-gateway/internal/adapters/redisstore"
	"github.com/africarailways/ussd-gateway/internal/adapters/suiengine"
	"github.com/africarailways/ussd-gateway/internal/config"
	"github.com/africarailways/ussd-gateway/internal/delivery/httpapi"
	"github.com/africarailways/ussd-gateway/internal/usecase"
	"github.com/africarailways/ussd-gateway/pkg/prometheus"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := setupLogger(cfg.Env)
	prometheus.Init()

	store := redisstore.New(logger, cfg.RedisURL)
	defer store.Close()

	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	engine := suiengine.New(logger, cfg.EngineURL, cfg.EngineAPIKey, cfg.PackageID, cfg.TreasuryID, cfg.BridgeTimeout)
	sms := atsms.New(logger, cfg.ATBaseURL, cfg.ATUsername, cfg.ATAPIKey, cfg.ATSenderID)
	bridge := usecase.NewBridge(logger, engine, sms, cfg.BridgeTimeout)
	stats := usecase.NewFundraiseStats(cfg.RaisedToDate, cfg.InvestorCount)

	suiPrice := decimal.NewFromFloat(cfg.SuiPrice)
	dispatcher := usecase.NewDispatcher(logger, store, bridge, stats, usecase.Config{
		ServiceCode:   cfg.ServiceCode,
		SuiPrice:      suiPrice,
		MinInvestment: cfg.MinInvestment,
		MaxInvestment: cfg.MaxInvestment,
		TotalRaise:    cfg.TotalRaise,
		EquityOffered: cfg.EquityOffered,
		SessionTTL:    cfg.SessionTTL,
	})

	guard, err := httpapi.NewOriginGuard(cfg.AllowedCIDRs, cfg.IsProd())
	if err != nil {
		logger.Error("origin guard init", "error", err)
		os.Exit(1)
	}

	handler := httpapi.NewHandler(logger, dispatcher, limiter, guard)
	health := httpapi.NewHealth(logger, store, engine, sms)
	statsHandler := httpapi.NewStats(logger, stats, suiPrice, cfg.TotalRaise)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.NewRouter(handler, health, statsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("gateway listening", "addr", cfg.ListenAddr, "service_code", cfg.ServiceCode, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("exit")
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return logger
}
