package middleware

import (
	"testing"
	"time"
)

func TestUserThrottleEnforcesInterval(t *testing.T) {
	th := newUserThrottle(300 * time.Millisecond)
	base := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	if !th.allow(42, base) {
		t.Fatal("first update must pass")
	}
	if th.allow(42, base.Add(100*time.Millisecond)) {
		t.Error("update inside the interval should be throttled")
	}
	if !th.allow(42, base.Add(301*time.Millisecond)) {
		t.Error("update after the interval should pass")
	}
}

func TestUserThrottleIsPerUser(t *testing.T) {
	th := newUserThrottle(time.Second)
	base := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	if !th.allow(1, base) || !th.allow(2, base) {
		t.Fatal("distinct users must not throttle each other")
	}
	if th.allow(1, base.Add(time.Millisecond)) {
		t.Error("repeat from the same user should be throttled")
	}
}
