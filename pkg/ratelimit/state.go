// Package ratelimit shares upstream 429 cooldowns between processes.
// When an API answers 429 Too Many Requests, the Retry-After deadline is
// stored in Redis and every client sharing that Redis fails fast until it
// passes. Nothing is retried.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RedisKeyPrefix namespaces cooldown keys; the upstream host is appended.
const RedisKeyPrefix = "mortyverse:cooldown:"

// Cooldown bounds.
const (
	// DefaultCooldown applies when a 429 carries no usable Retry-After.
	DefaultCooldown = 10 * time.Second

	// MaxCooldown caps absurd Retry-After values.
	MaxCooldown = 5 * time.Minute
)

// Cooldown is an active upstream back-off window.
type Cooldown struct {
	// Host is the upstream host the cooldown applies to.
	Host string `json:"host"`

	// Until is when requests may resume.
	Until time.Time `json:"until"`

	// StartedAt is when the 429 was observed.
	StartedAt time.Time `json:"started_at"`
}

// Active reports whether the cooldown has not yet elapsed.
func (c *Cooldown) Active() bool {
	return c != nil && time.Now().Before(c.Until)
}

// Remaining returns the time left, or 0 once elapsed.
func (c *Cooldown) Remaining() time.Duration {
	if c == nil {
		return 0
	}
	d := time.Until(c.Until)
	if d < 0 {
		return 0
	}
	return d
}

// cooldownFor derives the back-off from a Retry-After header, which is either
// delta-seconds or an HTTP date. The result is clamped to (0, MaxCooldown].
func cooldownFor(headers http.Header, now time.Time) time.Duration {
	value := strings.TrimSpace(headers.Get("Retry-After"))
	if value == "" {
		return DefaultCooldown
	}

	var d time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		d = at.Sub(now)
	} else {
		return DefaultCooldown
	}

	switch {
	case d <= 0:
		return DefaultCooldown
	case d > MaxCooldown:
		return MaxCooldown
	default:
		return d
	}
}
