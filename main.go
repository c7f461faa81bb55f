package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/config"
	"github.com/mauv0809/atr-tennis/internal/database"
	server "github.com/mauv0809/atr-tennis/internal/http"
	"github.com/mauv0809/atr-tennis/internal/inngest"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/notifier/slack"
	"github.com/mauv0809/atr-tennis/internal/playtomic"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/pubsub"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db)
	counters := metrics.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	var opts []processor.Option
	opts = append(opts, processor.WithCounters(counters))
	if cfg.TenantID != "" {
		opts = append(opts, processor.WithPlaytomic(playtomic.NewClient(), cfg.TenantID))
	}
	proc := processor.New(clubStore, notifier, metricsSvc, nil, opts...)
	defer proc.Shutdown()

	var (
		pubsubClient  pubsub.PubSubClient
		inngestClient inngest.InngestClient
	)
	switch cfg.TriggerMode {
	case config.TriggerPubSub:
		pubsubClient, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer pubsubClient.Close()
		proc.SetDispatcher(processor.NewPubSubDispatcher(pubsubClient))
	case config.TriggerInngest:
		inngestProvider, err := inngestgo.NewClient(inngestgo.ClientOpts{
			AppID:      cfg.Inngest.AppID,
			SigningKey: &cfg.Inngest.SigningKey,
			EventKey:   &cfg.Inngest.EventKey,
		})
		if err != nil {
			log.Fatalf("Failed to initialize inngest: %s", err)
		}
		inngestClient = inngest.New(inngestProvider)
		if err := inngestClient.RegisterRatingUpdate(proc); err != nil {
			log.Fatalf("Failed to register inngest functions: %s", err)
		}
		proc.SetDispatcher(processor.NewInngestDispatcher(inngestClient))
	default:
		proc.SetDispatcher(processor.Inline(proc))
	}
	log.Info("Rating trigger configured", "mode", cfg.TriggerMode)

	s := server.NewServer(
		clubStore,
		counters,
		metricsHandler,
		cfg,
		notifier,
		proc,
		pubsubClient,
		inngestClient,
	)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

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
