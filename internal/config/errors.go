package config

import "errors"

var (
	ErrDatabaseURLMissing       = errors.New("DATABASE_URL is required")
	ErrInvalidSchedulerInterval = errors.New("SCHEDULER_INTERVAL_SECONDS must be a positive integer")
	ErrInvalidSchedulerLeaseTTL = errors.New("SCHEDULER_LEASE_TTL_SECONDS must be a positive integer")
	ErrRedisAddrMissing         = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB           = errors.New("REDIS_DB must be a valid integer")
)
