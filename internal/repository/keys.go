package repository

import "time"

const (
	skVenue = "VENUE"
	skUser  = "USER"
	skEvent = "EVENT"

	// holdingPrefix identifies a hold's sort key and, under the original
	// scheme, lets a cross-partition scan for a holding_id restrict
	// itself to sort keys that could possibly match.
	holdingPrefix = "holding-"

	bookingSKLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// bookingSK renders a booking's sort key: the ISO creation timestamp, so
// bookings for an event naturally order chronologically under their
// partition, per §3's booking_date keying.
func bookingSK(t time.Time) string {
	return t.UTC().Format(bookingSKLayout)
}
