package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	cooldownsStartedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mortyverse_cooldowns_started_total",
		Help: "Total number of upstream cooldowns started after a 429 response",
	}, []string{"host"})

	cooldownBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mortyverse_cooldown_blocks_total",
		Help: "Total number of requests rejected during an active cooldown",
	}, []string{"host"})
)

// Tracker stores and checks cooldowns in Redis.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewTracker creates a new cooldown tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// GetCooldown returns the active cooldown for host, or nil if there is none.
func (t *Tracker) GetCooldown(ctx context.Context, host string) (*Cooldown, error) {
	data, err := t.redis.Get(ctx, RedisKeyPrefix+host).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cooldown: %w", err)
	}

	var cd Cooldown
	if err := json.Unmarshal(data, &cd); err != nil {
		return nil, fmt.Errorf("parse cooldown: %w", err)
	}
	if !cd.Active() {
		return nil, nil
	}
	return &cd, nil
}

// ShouldAllowRequest reports whether a request to host may go out now.
// When it may not, the remaining cooldown is returned.
func (t *Tracker) ShouldAllowRequest(ctx context.Context, host string) (bool, time.Duration, error) {
	cd, err := t.GetCooldown(ctx, host)
	if err != nil {
		return false, 0, err
	}
	if cd == nil {
		return true, 0, nil
	}

	cooldownBlocksTotal.WithLabelValues(host).Inc()
	t.logger.Warn().
		Str("host", host).
		Dur("remaining", cd.Remaining()).
		Msg("Upstream cooldown active - rejecting request")
	return false, cd.Remaining(), nil
}

// ObserveResponse starts a cooldown for host when status is 429.
// Other statuses are ignored.
func (t *Tracker) ObserveResponse(ctx context.Context, host string, status int, headers http.Header) error {
	if status != http.StatusTooManyRequests {
		return nil
	}

	now := time.Now()
	d := cooldownFor(headers, now)
	cd := Cooldown{
		Host:      host,
		Until:     now.Add(d),
		StartedAt: now,
	}

	data, err := json.Marshal(cd)
	if err != nil {
		return fmt.Errorf("marshal cooldown: %w", err)
	}
	if err := t.redis.Set(ctx, RedisKeyPrefix+host, data, d).Err(); err != nil {
		return fmt.Errorf("store cooldown in redis: %w", err)
	}

	cooldownsStartedTotal.WithLabelValues(host).Inc()
	t.logger.Warn().
		Str("host", host).
		Dur("cooldown", d).
		Time("until", cd.Until).
		Msg("Upstream returned 429 - cooldown started")

	return nil
}
