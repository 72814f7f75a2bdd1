package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestCooldown_Active(t *testing.T) {
	tests := []struct {
		name     string
		cooldown *Cooldown
		expected bool
	}{
		{
			name:     "nil cooldown",
			cooldown: nil,
			expected: false,
		},
		{
			name:     "future deadline",
			cooldown: &Cooldown{Until: time.Now().Add(time.Minute)},
			expected: true,
		},
		{
			name:     "past deadline",
			cooldown: &Cooldown{Until: time.Now().Add(-time.Second)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cooldown.Active(); got != tt.expected {
				t.Errorf("Active() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCooldown_Remaining(t *testing.T) {
	past := &Cooldown{Until: time.Now().Add(-time.Minute)}
	if got := past.Remaining(); got != 0 {
		t.Errorf("Remaining() = %v, want 0", got)
	}

	future := &Cooldown{Until: time.Now().Add(30 * time.Second)}
	if got := future.Remaining(); got < 29*time.Second || got > 30*time.Second {
		t.Errorf("Remaining() = %v, want ~30s", got)
	}
}

func TestCooldownFor(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		retryAfter string
		want       time.Duration
	}{
		{name: "missing header", retryAfter: "", want: DefaultCooldown},
		{name: "delta seconds", retryAfter: "3", want: 3 * time.Second},
		{name: "zero seconds", retryAfter: "0", want: DefaultCooldown},
		{name: "garbage", retryAfter: "soon", want: DefaultCooldown},
		{name: "capped", retryAfter: "86400", want: MaxCooldown},
		{name: "http date", retryAfter: now.Add(20 * time.Second).UTC().Format(http.TimeFormat), want: 20 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.retryAfter != "" {
				headers.Set("Retry-After", tt.retryAfter)
			}
			got := cooldownFor(headers, now)
			if diff := got - tt.want; diff < -time.Second || diff > time.Second {
				t.Errorf("cooldownFor() = %v, want %v", got, tt.want)
			}
		})
	}
}
