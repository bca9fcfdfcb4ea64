package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sennaseo/BOINDANG-sub000/internal/app"
	"github.com/sennaseo/BOINDANG-sub000/internal/clock"
	"github.com/sennaseo/BOINDANG-sub000/internal/config"
	"github.com/sennaseo/BOINDANG-sub000/internal/relay"
	"github.com/sennaseo/BOINDANG-sub000/internal/storage/postgres"
	redisstore "github.com/sennaseo/BOINDANG-sub000/internal/storage/redis"
	transporthttp "github.com/sennaseo/BOINDANG-sub000/internal/transport/http"
	"github.com/sennaseo/BOINDANG-sub000/migrations"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		slog.Warn("load .env", "error", err)
	}

	cfg, err := config.Parse()
	if err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "error", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(startupCtx).Err(); err != nil {
		logger.Error("redis ping", "error", err)
		os.Exit(1)
	}

	store := redisstore.NewStore(rdb)

	producer := relay.NewProducer(cfg.KafkaBrokers, cfg.DecisionTopic)
	defer producer.Close()

	campaignRepo := postgres.NewCampaignRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)

	applySvc := app.NewApplyService(
		campaignRepo, applicationRepo, store, producer,
		clock.NewSystem(), logger,
		app.WithPublishTimeout(cfg.PublishTimeout),
	)
	querySvc := app.NewQueryService(campaignRepo, applicationRepo, clock.NewSystem())
	reconcileSvc := app.NewReconcileService(applicationRepo, clock.NewSystem(), logger)

	consumer := relay.NewConsumer(relay.ConsumerConfig{
		Brokers:         cfg.KafkaBrokers,
		Topic:           cfg.DecisionTopic,
		GroupID:         cfg.ConsumerGroup,
		DeadLetterTopic: cfg.DeadLetterTopic,
		MaxAttempts:     cfg.ReconcileAttempts,
		RetryDelay:      cfg.ReconcileRetryDelay,
	}, reconcileSvc, logger)

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- consumer.Run(stopCtx)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/campaigns", transporthttp.HandleListCampaigns(querySvc))
	mux.Handle("/campaigns/", transporthttp.HandleCampaignRoutes(applySvc, querySvc, querySvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: transporthttp.RequestLogger(mux, logger),
	}

	logger.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case err := <-consumerErr:
		if err != nil {
			logger.Error("consumer error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping")
	}
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown", "error", err)
	}
	if err := consumer.Close(); err != nil {
		logger.Error("consumer close", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
