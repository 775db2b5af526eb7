package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gearguessr/internal/api"
	"gearguessr/internal/cache"
	"gearguessr/internal/catalog"
	"gearguessr/internal/config"
	"gearguessr/internal/db"
	"gearguessr/internal/jobs"
	"gearguessr/internal/logger"
	"gearguessr/internal/notify"
	"gearguessr/internal/puzzle"
	"gearguessr/internal/ratelimit"
	"gearguessr/internal/repository"
	"gearguessr/internal/repository/sqlite"
	"gearguessr/internal/rules"
	"gearguessr/internal/services"
	"gearguessr/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("GearGuessr Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("image_base_url=%s", cfg.ImageBaseURL)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("leaderboard_ttl=%s", cfg.LeaderboardTTL)
	log.Debug("cache_size_mb=%d", cfg.CacheSizeMB)
	log.Debug("rate_limit=%d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	log.Debug("notify_worker_count=%d", cfg.NotifyWorkerCount)
	log.Debug("notify_queue_size=%d", cfg.NotifyQueueSize)
	log.Debug("match_queue_ttl=%s", cfg.MatchQueueTTL)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load the embedded vehicle catalog
	cat, err := catalog.Load()
	if err != nil {
		log.Error("failed to load vehicle catalog: %v", err)
		os.Exit(1)
	}
	for _, tier := range cat.Tiers() {
		log.Debug("catalog tier %s: %d templates", tier, cat.Size(tier))
	}

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)

	// One shared cache segment backs session tracking, rate limiting,
	// and the leaderboard snapshot.
	store := cache.NewInstrumented(cache.NewFreecache(cfg.CacheSizeMB), metrics.CacheHits, metrics.CacheMisses)

	// Repositories; player reads go through the retry decorator.
	retryCfg := repository.DefaultRetryConfig()
	retryCfg.Attempts = cfg.RetryAttempts
	retryCfg.BaseDelay = cfg.RetryBaseDelay
	players := repository.NewRetryingPlayerRepository(sqlite.NewPlayerRepository(database.DB), retryCfg)
	challenges := sqlite.NewChallengeRepository(database.DB)

	// Notification worker pool
	notifyPool := worker.NewPool(cfg.NotifyWorkerCount, cfg.NotifyQueueSize)
	dispatcher := jobs.NewWorkerQueue(notifyPool, notify.NewLogChannel(), challenges)

	// Initialize services
	ruleSet := rules.Default()
	profileService := services.NewProfileService(players)
	gameService := services.NewGameService(players, profileService, rules.NewValidator(ruleSet), rules.NewEngine(ruleSet))
	selector := puzzle.NewSelector(cat, store, cfg.SessionTTL, cfg.ImageBaseURL)
	puzzleService := services.NewPuzzleService(selector, cfg.CareerBatchSize)
	leaderboardService := services.NewLeaderboardService(players, store, cfg.LeaderboardTTL)
	challengeService := services.NewChallengeService(challenges, players, dispatcher, cfg.ChallengeTTL)
	matchmakingService := services.NewMatchmakingService(store, dispatcher, cfg.MatchQueueTTL)

	srv := &api.Server{
		DB:                 database,
		GameService:        gameService,
		PuzzleService:      puzzleService,
		LeaderboardService: leaderboardService,
		ProfileService:     profileService,
		ChallengeService:   challengeService,
		MatchmakingService: matchmakingService,
		Limiter:      ratelimit.New(store, cfg.RateLimitWindow, cfg.RateLimitMax),
		Metrics:      metrics,
		ImageBaseURL: cfg.ImageBaseURL,
	}

	ctx, cancel := context.WithCancel(context.Background())
	notifyPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	notifyPool.Stop()

	log.Info("===========================================")
	log.Info("GearGuessr Server Stopped")
	log.Info("===========================================")
}
