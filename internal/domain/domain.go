// Package domain holds the entities of the reservation core: venues, their
// seats, users, events, the per-event copy of each seat, holds and
// bookings, keyed the way §3 of the design describes.
package domain

import (
	"time"

	"github.com/holdline/ticketcore/internal/money"
)

// SeatState is the state of one seat within one event: the three-state
// lifecycle available -> held -> booked, with reverse transitions on
// expiry or cancellation.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"
)

type BookingState string

const (
	BookingConfirmed BookingState = "confirmed"
	BookingCancelled BookingState = "cancelled"
)

// PaymentStatus mirrors the externally-supplied payment verdict; ticketcore
// never talks to a payment processor itself.
type PaymentStatus string

const (
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
)

type Venue struct {
	ID          string
	Name        string
	City        string
	Description string
	SeatTypes   []string
	CreatedAt   time.Time
}

// VenueSeat is a seat's identity within a venue, independent of any event.
// SeatPos is row + "-" + seat_num, e.g. "A-1".
type VenueSeat struct {
	VenueID  string
	SeatPos  string
	Row      string
	SeatNum  int
	SeatType string
}

type User struct {
	ID        string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type Event struct {
	ID          string
	VenueID     string
	Name        string
	StartTime   time.Time
	DurationMin int
	Artists     []string
	Tags        []string
	Description string
	// SeatTypePrices maps a seat_type label to its event price; resolved
	// once at event-seat creation and never mutated thereafter.
	SeatTypePrices map[string]money.Amount

	HoldAttempts      int64
	SuccessfulBookings int64
	Cancellations     int64
	SeatsSold         int64

	CreatedAt time.Time
}

// EventSeat is the per-event materialization of a VenueSeat and the unit
// the state machine operates on.
type EventSeat struct {
	EventID   string
	SeatPos   string
	Row       string
	SeatNum   int
	SeatType  string
	State     SeatState
	BookingID string // set only while State == SeatBooked
	HoldingID string // set only while State == SeatHeld
	HoldTTL   int64  // seconds; set only while State == SeatHeld
	Price     money.Amount
	UpdatedAt time.Time
}

type Hold struct {
	EventID   string
	HoldingID string
	UserID    string
	Seats     []string
	CreatedAt time.Time
	ExpiresAt time.Time
	TTLSecs   int64
}

type Booking struct {
	EventID       string
	BookingID     string
	BookingDate   time.Time // also the sort key
	UserID        string
	Seats         []string
	State         BookingState
	PaymentStatus PaymentStatus
	CancelledAt   time.Time
}

// EventAnalytics is the aggregate view §4.7 requires.
type EventAnalytics struct {
	EventID     string
	VenueName   string
	Available   int64
	Held        int64
	Booked      int64
	TotalSeats  int64

	RevenueGenerated  money.Amount
	RevenueBySeatType map[string]money.Amount

	TotalBookings     int64
	ConfirmedBookings int64
	CancelledBookings int64
	LastBookingTime   time.Time

	CapacityUtilization float64
	AverageBookingValue float64
	FailedHolds         int64
	BookingSuccessRate  float64
	HoldSuccessRate     float64
	CancellationRate    float64
}
