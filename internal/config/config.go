package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	LogLevel    slog.Level
	DatabaseURL string
	Scheduler   SchedulerConfig
	Redis       *RedisConfig
}

type SchedulerConfig struct {
	Interval time.Duration
	LeaseTTL time.Duration

	// UseRedisLease gates passes behind the cross-process Redis lease, for
	// deployments running more than one replica against the same database.
	UseRedisLease bool
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, ErrDatabaseURLMissing
	}

	scheduler, err := loadSchedulerConfig()
	if err != nil {
		return nil, err
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        port,
		LogLevel:    parseLogLevel(os.Getenv("LOG_LEVEL")),
		DatabaseURL: databaseURL,
		Scheduler:   scheduler,
		Redis:       redisConfig,
	}, nil
}

func loadSchedulerConfig() (SchedulerConfig, error) {
	interval := 30 * time.Second
	if v := os.Getenv("SCHEDULER_INTERVAL_SECONDS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return SchedulerConfig{}, ErrInvalidSchedulerInterval
		}
		interval = time.Duration(parsed) * time.Second
	}

	leaseTTL := 2 * time.Minute
	if v := os.Getenv("SCHEDULER_LEASE_TTL_SECONDS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return SchedulerConfig{}, ErrInvalidSchedulerLeaseTTL
		}
		leaseTTL = time.Duration(parsed) * time.Second
	}

	return SchedulerConfig{
		Interval:      interval,
		LeaseTTL:      leaseTTL,
		UseRedisLease: os.Getenv("SCHEDULER_LEASE") == "redis",
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
