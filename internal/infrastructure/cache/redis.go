package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"competency-hub/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultTTL = 10 * time.Minute
	keyPrefix  = "competency-hub:"

	// cooldown is how long a failed server is bypassed before the next attempt.
	cooldown = 30 * time.Second
)

var ErrUnavailable = errors.New("cache unavailable")

// Redis is a JSON read cache shared by every API instance. After a failure it
// bypasses the server for a cooldown period instead of failing requests.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	now       func() time.Time
	downUntil atomic.Int64
}

func NewRedis(cfg config.RedisConfig, logger zerolog.Logger) *Redis {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(host, port),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   1,
		}),
		ttl:    ttl,
		logger: logger.With().Str("component", "cache").Logger(),
		now:    time.Now,
	}
}

func (r *Redis) bypassed() bool {
	return r == nil || r.client == nil || r.now().UnixNano() < r.downUntil.Load()
}

func (r *Redis) markDown(err error) {
	until := r.now().Add(cooldown).UnixNano()
	prev := r.downUntil.Swap(until)
	if prev < r.now().UnixNano() {
		r.logger.Warn().Err(err).Dur("retry_in", cooldown).Msg("redis unavailable, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return ErrUnavailable
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.markDown(err)
		return err
	}
	r.downUntil.Store(0)
	return nil
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// GetJSON decodes the cached value into out. A miss, a bypass or an
// undecodable entry all report false.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.bypassed() {
		return false, nil
	}
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		r.markDown(err)
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = r.client.Del(ctx, keyPrefix+key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON stores value under key. A non-positive ttl uses the configured default.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.bypassed() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyPrefix+key, b, ttl).Err(); err != nil {
		r.markDown(err)
		return err
	}
	return nil
}

// Delete removes keys. It is attempted even while bypassed so that a write
// never leaves a stale list behind once the server answers again.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if r == nil || r.client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		r.markDown(err)
		return err
	}
	return nil
}
