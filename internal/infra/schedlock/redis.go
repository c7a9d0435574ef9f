// Package schedlock implements the scheduler's cross-process lease on Redis,
// so a multi-replica deployment still runs at most one escalation schedule
// against the shared store.
package schedlock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nonthaphat-dev/lendwatch/internal/scheduler"
)

const (
	leaseKey = "lendwatch:escalation:lease"

	// DefaultTTL bounds how long a crashed holder can block the schedule.
	DefaultTTL = 2 * time.Minute
)

// releaseScript deletes the lease only when this process still holds it, so
// an expired-and-reacquired lease is never released out from under the new
// holder.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLease struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

func NewRedisLease(client *redis.Client, ttl time.Duration) scheduler.Lease {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisLease{
		client: client,
		key:    leaseKey,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

func (l *redisLease) TryAcquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
}

func (l *redisLease) Release(ctx context.Context) error {
	return l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err()
}
