// Package booking is the Booking Manager (C5) service seam: confirm
// promotes a hold to a booking, cancel reverses a booking, both wrapped
// with cache invalidation and a change-notification publish.
package booking

import "errors"

var (
	ErrInvalidPaymentStatus = errors.New("booking: payment status must be 'successful' or 'failed'")
	ErrPaymentFailed        = errors.New("booking: payment failed, booking not confirmed")
	ErrHoldNotFound         = errors.New("booking: hold not found")
	ErrHoldExpired          = errors.New("booking: hold has expired")
	ErrEventNotFound        = errors.New("booking: event not found")
	ErrUserNotFound         = errors.New("booking: user not found")
	ErrSeatsNotHeld         = errors.New("booking: one or more seats are no longer held by this hold")
	ErrConcurrentWrite      = errors.New("booking: concurrent modification, retry")

	ErrBookingNotFound         = errors.New("booking: booking not found")
	ErrBookingAlreadyCancelled = errors.New("booking: booking is already cancelled")
	ErrSeatsNotBooked          = errors.New("booking: one or more seats are no longer booked by this booking")
)
