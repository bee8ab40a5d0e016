package ratelimit

import "testing"

func TestAllowRequestEnforcesMinuteLimit(t *testing.T) {
	rl := NewRateLimiter(3, 100, 1000, true)

	for i := 0; i < 3; i++ {
		if !rl.AllowRequest() {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.AllowRequest() {
		t.Error("fourth request should be rejected")
	}
}

func TestAllowRequestDisabled(t *testing.T) {
	rl := NewRateLimiter(1, 1, 1, false)

	for i := 0; i < 10; i++ {
		if !rl.AllowRequest() {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}

func TestZeroLimitDisablesWindow(t *testing.T) {
	rl := NewRateLimiter(0, 0, 2, true)

	if !rl.AllowRequest() || !rl.AllowRequest() {
		t.Fatal("first two requests should pass")
	}
	if rl.AllowRequest() {
		t.Error("day window should still enforce its limit")
	}
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(10, 100, 1000, true)

	rl.AllowRequest()
	rl.AllowRequest()

	stats := rl.GetStats()
	if !stats.Enabled {
		t.Fatal("stats should report enabled")
	}
	if stats.RequestsLastMinute != 2 {
		t.Errorf("RequestsLastMinute = %d, want 2", stats.RequestsLastMinute)
	}
	if stats.RemainingThisMinute != 8 {
		t.Errorf("RemainingThisMinute = %d, want 8", stats.RemainingThisMinute)
	}
	if stats.LimitPerDay != 1000 {
		t.Errorf("LimitPerDay = %d, want 1000", stats.LimitPerDay)
	}
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter(1, 1, 1, true)

	if !rl.AllowRequest() {
		t.Fatal("first request should pass")
	}
	if rl.AllowRequest() {
		t.Fatal("second request should be rejected")
	}

	rl.Reset()
	if !rl.AllowRequest() {
		t.Error("request after reset should pass")
	}
}
