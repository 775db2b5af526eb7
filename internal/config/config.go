package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	ImageBaseURL      string
	SessionTTL        time.Duration
	LeaderboardTTL    time.Duration
	CacheSizeMB       int
	RateLimitWindow   time.Duration
	RateLimitMax      int
	RetryAttempts     int
	RetryBaseDelay    time.Duration
	NotifyWorkerCount int
	NotifyQueueSize   int
	CareerBatchSize   int
	ChallengeTTL      time.Duration
	MatchQueueTTL     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:gearguessr.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ImageBaseURL:      envOr("IMAGE_BASE_URL", "https://vehicle-guesser-1764962592.s3.eu-west-1.amazonaws.com"),
		SessionTTL:        envDurOr("SESSION_TTL", 30*time.Minute),
		LeaderboardTTL:    envDurOr("LEADERBOARD_TTL", 60*time.Second),
		CacheSizeMB:       envIntOr("CACHE_SIZE_MB", 16),
		RateLimitWindow:   envDurOr("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:      envIntOr("RATE_LIMIT_MAX", 100),
		RetryAttempts:     envIntOr("STORE_RETRY_ATTEMPTS", 3),
		RetryBaseDelay:    envDurOr("STORE_RETRY_BASE_DELAY", time.Second),
		NotifyWorkerCount: envIntOr("NOTIFY_WORKER_COUNT", 2),
		NotifyQueueSize:   envIntOr("NOTIFY_QUEUE_SIZE", 64),
		CareerBatchSize:   envIntOr("CAREER_BATCH_SIZE", 10),
		ChallengeTTL:      envDurOr("CHALLENGE_TTL", 24*time.Hour),
		MatchQueueTTL:     envDurOr("MATCH_QUEUE_TTL", 5*time.Minute),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
