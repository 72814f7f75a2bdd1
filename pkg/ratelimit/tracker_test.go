package ratelimit

import (
	"context"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestTracker_AllowsWithoutCooldown(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), zerolog.Nop())

	allowed, remaining, err := tracker.ShouldAllowRequest(context.Background(), "api.themoviedb.org")
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if !allowed {
		t.Error("request should be allowed without a cooldown")
	}
	if remaining != 0 {
		t.Errorf("remaining = %v, want 0", remaining)
	}
}

func TestTracker_ObserveResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		retryAfter  string
		wantAllowed bool
	}{
		{name: "ok response", status: http.StatusOK, wantAllowed: true},
		{name: "server error", status: http.StatusInternalServerError, wantAllowed: true},
		{name: "too many requests", status: http.StatusTooManyRequests, retryAfter: "30", wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisClient := setupTestRedis(t)
			tracker := NewTracker(redisClient, zerolog.Nop())
			ctx := context.Background()
			host := "rickandmortyapi.com"

			headers := http.Header{}
			if tt.retryAfter != "" {
				headers.Set("Retry-After", tt.retryAfter)
			}

			if err := tracker.ObserveResponse(ctx, host, tt.status, headers); err != nil {
				t.Fatalf("ObserveResponse() error = %v", err)
			}

			allowed, remaining, err := tracker.ShouldAllowRequest(ctx, host)
			if err != nil {
				t.Fatalf("ShouldAllowRequest() error = %v", err)
			}
			if allowed != tt.wantAllowed {
				t.Errorf("allowed = %v, want %v", allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && remaining <= 0 {
				t.Errorf("remaining = %v, want > 0", remaining)
			}
		})
	}
}

func TestTracker_CooldownIsPerHost(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), zerolog.Nop())
	ctx := context.Background()

	headers := http.Header{"Retry-After": []string{"30"}}
	if err := tracker.ObserveResponse(ctx, "api.themoviedb.org", http.StatusTooManyRequests, headers); err != nil {
		t.Fatalf("ObserveResponse() error = %v", err)
	}

	allowed, _, err := tracker.ShouldAllowRequest(ctx, "rickandmortyapi.com")
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if !allowed {
		t.Error("cooldown on one host should not block another")
	}
}
