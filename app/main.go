package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/news-comb/app/api"
	"github.com/lysyi3m/news-comb/app/cfg"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/news"
	"github.com/lysyi3m/news-comb/app/sources"
	"github.com/lysyi3m/news-comb/app/summary"
	"github.com/lysyi3m/news-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting News Comb server", "version", appCfg.Version)

	registry, err := loadRegistry(appCfg.SourcesDir)
	if err != nil {
		fatal("Failed to load source registry", err)
	}
	slog.Info("Source registry loaded", "sources", registry.SourceCount(), "regions", len(registry.Regions()), "categories", len(registry.Categories()))

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		fatal("Failed to open database", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		fatal("Failed to run migrations", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	sourceRepo := database.NewSourceRepository(db)

	fetcher := feed.NewFetcher(&http.Client{}, feed.NewParser(), feed.FetcherConfig{
		UserAgent:   appCfg.UserAgent,
		Timeout:     appCfg.FetchTimeout,
		MaxItems:    appCfg.MaxItemsPerFeed,
		Concurrency: appCfg.FetchConcurrency,
	})

	classifier, err := news.NewClassifier(registry.Categories(), news.ClassifierConfig{
		MinMatches:          appCfg.MinKeywordMatches,
		StrongKeywordLength: appCfg.StrongKeywordLength,
		MaxCategories:       appCfg.MaxCategories,
	})
	if err != nil {
		fatal("Failed to build classifier", err)
	}

	annotator := news.NewAnnotator(news.NewSentimentScorer(), appCfg.BreakingWindow)
	assembler := news.NewAssembler(news.NewRegionFilter(registry.Regions()), annotator)

	scheduler := tasks.NewScheduler(registry, sourceRepo, fetcher, tasks.SchedulerConfig{
		WorkerCount:   appCfg.WorkerCount,
		Interval:      appCfg.SchedulerInterval,
		ProbeInterval: appCfg.ProbeInterval,
		DisableProbes: appCfg.ProbeInterval == 0,
	})
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval.String())
	scheduler.Start()
	defer scheduler.Stop()

	aggregator := news.NewAggregator(registry, fetcher, classifier, assembler, scheduler)

	var generator summary.Generator
	if appCfg.GeminiAPIKey != "" {
		gemini, err := summary.NewGemini(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			slog.Warn("Generative summaries disabled", "error", err)
		} else {
			defer gemini.Close()
			generator = gemini
			slog.Info("Generative summaries enabled", "model", appCfg.GeminiModel)
		}
	}
	summarizer := summary.NewService(generator, appCfg.SummaryTimeout).
		WithExtractor(summary.NewExtractor(&http.Client{}, appCfg.UserAgent))

	handler := api.NewHandler(registry, aggregator, summarizer, sourceRepo, api.StreamConfig{
		Heartbeat: appCfg.StreamHeartbeat,
		Interval:  appCfg.StreamInterval,
		Lifetime:  appCfg.StreamLifetime,
	}, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	// No WriteTimeout: the breaking news stream stays open for minutes
	httpServer := &http.Server{
		Addr:              ":" + appCfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "api_enabled", appCfg.APIAccessKey != "")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("News Comb server shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func loadRegistry(dir string) (*sources.Registry, error) {
	if dir == "" {
		return sources.LoadDefault()
	}
	return sources.LoadDir(dir)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
