// Package reservation is the Hold Manager (C4) service seam: it wraps
// repository.HoldSeats with rate limiting, cache invalidation and a
// change-notification publish, translating repository errors into its own
// sentinels the way every teacher service package does.
package reservation

import "errors"

var (
	ErrEventNotFound    = errors.New("reservation: event not found")
	ErrUserNotFound     = errors.New("reservation: user not found")
	ErrSeatNotFound     = errors.New("reservation: seat not found")
	ErrSeatsUnavailable = errors.New("reservation: one or more seats are unavailable")
	ErrRateLimited      = errors.New("reservation: rate limited, retry later")
)
