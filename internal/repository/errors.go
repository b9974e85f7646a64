// Package repository implements the seat state machine, hold manager,
// booking manager, expiry reclaim, analytics aggregator and provisioner
// (C3-C8) on top of the generic store.Store contract.
package repository

import "errors"

var (
	ErrVenueNotFound = errors.New("repository: venue not found")
	ErrUserNotFound  = errors.New("repository: user not found")
	ErrEventNotFound = errors.New("repository: event not found")
	ErrSeatNotFound  = errors.New("repository: seat not found")

	ErrMissingSeatTypePrice = errors.New("repository: missing price for seat type")
	ErrNoValidSeats         = errors.New("repository: no valid seats provisioned")

	ErrSeatsUnavailable = errors.New("repository: one or more seats are unavailable")
	ErrHoldNotFound     = errors.New("repository: hold not found")
	ErrHoldExpired      = errors.New("repository: hold has expired")
	ErrSeatsNotHeld     = errors.New("repository: one or more seats are no longer held by this hold")
	ErrConcurrentWrite  = errors.New("repository: concurrent modification, retry")

	ErrBookingNotFound         = errors.New("repository: booking not found")
	ErrBookingAlreadyCancelled = errors.New("repository: booking is already cancelled")
	ErrSeatsNotBooked          = errors.New("repository: one or more seats are no longer booked by this booking")

	ErrInvalidPaymentStatus = errors.New("repository: payment status must be 'successful' or 'failed'")
	ErrPaymentFailed        = errors.New("repository: payment failed, booking not confirmed")
)
