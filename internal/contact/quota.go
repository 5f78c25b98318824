package contact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuotaError reports a source identity that exhausted its contact quota. The
// transport layer maps it to 429.
type QuotaError struct {
	Limit  int
	Window time.Duration
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("contact quota exceeded: at most %d messages per %s, retry later", e.Limit, e.Window)
}

// Quota is a fixed-window counter per source identity (client IP). It counts
// accepted submissions only, independent of the general API rate limit.
// With redis the window survives restarts and is shared across replicas;
// without it a mutex-guarded in-process map serves the same contract.
type Quota struct {
	limit  int
	window time.Duration
	rdb    *redis.Client // optional

	mu      sync.Mutex
	buckets map[string]*windowCount
}

type windowCount struct {
	count int
	reset time.Time
}

func NewQuota(limit int, window time.Duration, rdb *redis.Client) *Quota {
	return &Quota{
		limit:   limit,
		window:  window,
		rdb:     rdb,
		buckets: make(map[string]*windowCount),
	}
}

// Allow consumes one submission slot for source. It returns a *QuotaError
// once the window is full. A redis failure falls back to the in-process
// counter rather than silently letting traffic through.
func (q *Quota) Allow(ctx context.Context, source string) error {
	if q.rdb != nil {
		if err := q.allowRedis(ctx, source); err == nil || isQuotaErr(err) {
			return err
		}
		// redis unreachable; fall through to memory
	}
	return q.allowMemory(source)
}

func (q *Quota) allowRedis(ctx context.Context, source string) error {
	key := "contact:quota:" + source
	n, err := q.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		if err := q.rdb.Expire(ctx, key, q.window).Err(); err != nil {
			// A counter without a TTL would lock the source out for good.
			_ = q.rdb.Del(ctx, key).Err()
			return err
		}
	}
	if n > int64(q.limit) {
		return &QuotaError{Limit: q.limit, Window: q.window}
	}
	return nil
}

func (q *Quota) allowMemory(source string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	w, ok := q.buckets[source]
	if !ok || now.After(w.reset) {
		q.buckets[source] = &windowCount{count: 1, reset: now.Add(q.window)}
		return nil
	}
	if w.count >= q.limit {
		return &QuotaError{Limit: q.limit, Window: q.window}
	}
	w.count++
	return nil
}

func isQuotaErr(err error) bool {
	_, ok := err.(*QuotaError)
	return ok
}
