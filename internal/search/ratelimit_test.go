package search

import (
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(2, time.Minute)
	if !rl.Allow("1.1.1.1") { t.Fatal("expected allow") }
	if !rl.Allow("1.1.1.1") { t.Fatal("expected allow") }
	if rl.Allow("1.1.1.1") { t.Fatal("expected deny") }
	if !rl.Allow("2.2.2.2") { t.Fatal("expected allow for another ip") }
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewIPRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !rl.Allow("1.1.1.1") {
			t.Fatalf("expected allow at %d", i)
		}
	}
}
