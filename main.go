package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/config"
	"github.com/nocturne-gg/riftkeeper/internal/database"
	"github.com/nocturne-gg/riftkeeper/internal/guild"
	server "github.com/nocturne-gg/riftkeeper/internal/http"
	"github.com/nocturne-gg/riftkeeper/internal/lolrank"
	"github.com/nocturne-gg/riftkeeper/internal/match"
	"github.com/nocturne-gg/riftkeeper/internal/metrics"
	"github.com/nocturne-gg/riftkeeper/internal/pubsub"
	"github.com/nocturne-gg/riftkeeper/internal/queue"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()
	log.Info("Database initialized", "duration_ms", time.Since(startTime).Milliseconds())

	guildStore := guild.New(db)
	rankStore := lolrank.New(db)
	queueStore := queue.NewQueueStore(db)
	recruitmentStore := queue.NewRecruitmentStore(db)
	matchStore := match.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	pubsubClient := pubsub.New(cfg.ProjectID)

	s := server.NewServer(
		guildStore,
		rankStore,
		queueStore,
		recruitmentStore,
		matchStore,
		metricsSvc,
		metricsHandler,
		cfg,
		pubsubClient,
	)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
