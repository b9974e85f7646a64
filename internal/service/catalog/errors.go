// Package catalog covers venue, venue-seat, user and event creation: the
// "external collaborator" CRUD spec.md treats as out of scope for the core
// but which original_source/ shows the same service binary exposes, plus
// the Event/Seat Provisioner (C8).
package catalog

import "errors"

var (
	ErrVenueNotFound        = errors.New("catalog: venue not found")
	ErrUserNotFound         = errors.New("catalog: user not found")
	ErrEventNotFound        = errors.New("catalog: event not found")
	ErrMissingSeatTypePrice = errors.New("catalog: missing price for seat type")
	ErrNoValidSeats         = errors.New("catalog: no valid seats provisioned")
	ErrUnknownSeatType      = errors.New("catalog: seat type not declared by venue")
)
