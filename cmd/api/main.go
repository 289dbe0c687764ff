package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"leadtracker/internal/app"
	"leadtracker/internal/cache"
	"leadtracker/internal/config"
	"leadtracker/internal/database"
	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/logger"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zlog.Named("db"))
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	var summaryCache app.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(cfg.RedisURL, cfg.AnalyticsCacheTTL)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		summaryCache = client
		zlog.Info("analytics cache enabled", zap.Duration("ttl", cfg.AnalyticsCacheTTL))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := app.NewRouter(app.Deps{
		Config:  cfg,
		DB:      db,
		Cache:   summaryCache,
		Metrics: metrics.New(reg),
		Logger:  zlog,
		Engine:  pipeline.New(),
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		zlog.Info("leadtracker API starting", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("server stopped")
}
