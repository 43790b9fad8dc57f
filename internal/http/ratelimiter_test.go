package http

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, 3, time.Minute)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	key := "1.2.3.4"

	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Fatalf("expected fourth request to be denied")
	}

	current = current.Add(time.Second)

	if !rl.Allow(key) {
		t.Fatalf("expected request after refill to be allowed")
	}
}

func TestRateLimiterTracksClientsIndependently(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 0.1, time.Minute)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	if !rl.Allow("1.2.3.4") {
		t.Fatalf("expected first client to be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatalf("expected first client to be drained")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatalf("expected second client to have its own bucket")
	}
}

func TestRateLimiterPrunesStaleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	rl.Allow("1.2.3.4")
	if len(rl.clients) != 1 {
		t.Fatalf("expected one tracked client, got %d", len(rl.clients))
	}

	current = current.Add(2 * time.Minute)
	rl.pruneStale()

	if len(rl.clients) != 0 {
		t.Fatalf("expected stale client to be pruned, got %d", len(rl.clients))
	}
}
