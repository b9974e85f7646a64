package clock

import (
	"strings"
	"testing"
	"time"
)

func TestNewEventIDShape(t *testing.T) {
	id := NewEventID()
	if !strings.HasPrefix(id, "event-") {
		t.Fatalf("NewEventID() = %q, want event- prefix", id)
	}
	hexPart := strings.TrimPrefix(id, "event-")
	if len(hexPart) != 8 {
		t.Fatalf("NewEventID() hex part = %q, want 8 characters", hexPart)
	}
}

func TestNewVenueAndUserIDsAreDistinct(t *testing.T) {
	v1, v2 := NewVenueID(), NewVenueID()
	if v1 == v2 {
		t.Fatal("NewVenueID() returned the same id twice")
	}
	if u := NewUserID(); !strings.HasPrefix(u, "user-") {
		t.Fatalf("NewUserID() = %q, want user- prefix", u)
	}
}

func TestNewHoldingAndBookingIDsUseFullUUID(t *testing.T) {
	h := NewHoldingID()
	if !strings.HasPrefix(h, "holding-") {
		t.Fatalf("NewHoldingID() = %q, want holding- prefix", h)
	}
	if len(strings.TrimPrefix(h, "holding-")) != 36 {
		t.Fatalf("NewHoldingID() did not carry a full UUID: %q", h)
	}

	b := NewBookingID()
	if !strings.HasPrefix(b, "booking-") {
		t.Fatalf("NewBookingID() = %q, want booking- prefix", b)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		createdAt time.Time
		ttl       time.Duration
		want      bool
	}{
		{"fresh hold", now.Add(-10 * time.Second), 180 * time.Second, false},
		{"exactly at ttl boundary", now.Add(-180 * time.Second), 180 * time.Second, false},
		{"past ttl", now.Add(-200 * time.Second), 180 * time.Second, true},
		{"zero created_at is always expired", time.Time{}, 180 * time.Second, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsExpired(now, c.createdAt, c.ttl); got != c.want {
				t.Errorf("IsExpired() = %v, want %v", got, c.want)
			}
		})
	}
}
