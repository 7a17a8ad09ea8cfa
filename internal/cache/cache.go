package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedupe suppresses repeated user notices for re-delivered webhook events.
type Dedupe struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDedupe(addr string) *Dedupe {
	return &Dedupe{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: 24 * time.Hour,
	}
}

// Once reports whether key is being seen for the first time. Redis being
// unreachable counts as first time: a lost dedupe risks a repeated notice,
// never a repeated credit.
func (d *Dedupe) Once(key string) bool {
	ok, err := d.rdb.SetNX(context.Background(), key, "1", d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
