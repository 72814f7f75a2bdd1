//go:build integration

package ratelimit

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestTracker_Integration_CooldownLifecycle(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()
	host := "api.themoviedb.org"

	allowed, _, err := tracker.ShouldAllowRequest(ctx, host)
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if !allowed {
		t.Fatal("Expected request to be allowed before any 429")
	}

	headers := http.Header{}
	headers.Set("Retry-After", "1")
	if err := tracker.ObserveResponse(ctx, host, http.StatusTooManyRequests, headers); err != nil {
		t.Fatalf("ObserveResponse failed: %v", err)
	}

	allowed, remaining, err := tracker.ShouldAllowRequest(ctx, host)
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if allowed {
		t.Error("Expected request to be blocked during cooldown")
	}
	if remaining <= 0 || remaining > time.Second {
		t.Errorf("Remaining = %v, want (0, 1s]", remaining)
	}

	ttl, err := redisClient.TTL(ctx, RedisKeyPrefix+host).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Second {
		t.Errorf("Redis TTL = %v, want (0, 1s]", ttl)
	}

	time.Sleep(1100 * time.Millisecond)

	allowed, _, err = tracker.ShouldAllowRequest(ctx, host)
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed after the cooldown elapsed")
	}
}

func TestTracker_Integration_SharedBetweenTrackers(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	host := "rickandmortyapi.com"

	first := NewTracker(redisClient, zerolog.Nop())
	second := NewTracker(redisClient, zerolog.Nop())

	if err := first.ObserveResponse(ctx, host, http.StatusTooManyRequests, http.Header{}); err != nil {
		t.Fatalf("ObserveResponse failed: %v", err)
	}

	cd, err := second.GetCooldown(ctx, host)
	if err != nil {
		t.Fatalf("GetCooldown failed: %v", err)
	}
	if cd == nil {
		t.Fatal("Expected the second tracker to see the cooldown")
	}
	if got := cd.Remaining(); got <= DefaultCooldown-time.Second || got > DefaultCooldown {
		t.Errorf("Remaining = %v, want about %v", got, DefaultCooldown)
	}

	if other, err := second.GetCooldown(ctx, "api.themoviedb.org"); err != nil || other != nil {
		t.Errorf("Expected no cooldown for another host, got %v (err %v)", other, err)
	}
}
