// Package clock generates the identifiers and timestamps the reservation
// core hands out, and decides whether a hold has expired — grounded in the
// original's generate_holding_id/generate_booking_id/is_hold_expired.
package clock

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// DefaultHoldTTL is the fixed hold duration spec.md §4.4 mandates.
const DefaultHoldTTL = 180 * time.Second

func NewHoldingID() string {
	return "holding-" + uuid.NewString()
}

func NewBookingID() string {
	return "booking-" + uuid.NewString()
}

// shortID strips the dashes off a fresh UUID and keeps its first 8 hex
// characters, matching new_venue_id/new_event_id/new_user_id in §4.2.
func shortID() string {
	raw := uuid.New()
	hexStr := hex.EncodeToString(raw[:])
	return hexStr[:8]
}

func NewVenueID() string {
	return "venue-" + shortID()
}

func NewEventID() string {
	return "event-" + shortID()
}

func NewUserID() string {
	return "user-" + shortID()
}

// Clock is the time source services depend on, so tests can freeze or
// advance time instead of sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Real is the production clock.
var Real Clock = realClock{}

// IsExpired reports whether a hold created at createdAt with the given TTL
// has expired as of now. Any zero createdAt is treated as already expired,
// mirroring the original's fail-safe behavior on unparsable timestamps.
func IsExpired(now, createdAt time.Time, ttl time.Duration) bool {
	if createdAt.IsZero() {
		return true
	}
	return now.After(createdAt.Add(ttl))
}
