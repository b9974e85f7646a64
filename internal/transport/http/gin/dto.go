package httpgin

import (
	"time"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/money"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// parseISOTime tolerates both a bare RFC3339 timestamp and one with
// fractional seconds, matching the lenient parsing §4.2 expects of
// ISO-8601 inputs.
func parseISOTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// --- Hold ---

type HoldRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Seats  []string `json:"seats" binding:"required"`
}

type HoldResponse struct {
	HoldingID string    `json:"holding_id"`
	SeatsHeld []string  `json:"seats_held"`
	HoldTTL   int64     `json:"hold_ttl"`
	ExpiresAt time.Time `json:"expires_at"`
}

func holdResponse(h domain.Hold) HoldResponse {
	return HoldResponse{
		HoldingID: h.HoldingID,
		SeatsHeld: h.Seats,
		HoldTTL:   h.TTLSecs,
		ExpiresAt: h.ExpiresAt,
	}
}

// --- Confirm ---

type ConfirmRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type BookingResponse struct {
	BookingID     string    `json:"booking_id"`
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	Seats         []string  `json:"seats"`
	BookingDate   time.Time `json:"booking_date"`
	State         string    `json:"state"`
	PaymentStatus string    `json:"payment_status"`
}

func bookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:     b.BookingID,
		EventID:       b.EventID,
		UserID:        b.UserID,
		Seats:         b.Seats,
		BookingDate:   b.BookingDate,
		State:         string(b.State),
		PaymentStatus: string(b.PaymentStatus),
	}
}

// --- Cancel ---

type CancelRequest struct {
	BookingID string `json:"booking_id"`
}

type CancelResponse struct {
	Message     string    `json:"message"`
	BookingID   string    `json:"booking_id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	SeatsFreed  []string  `json:"seats_freed"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// --- Seats ---

type EventSeatResponse struct {
	SeatPos   string       `json:"seat_pos"`
	Row       string       `json:"row"`
	SeatNum   int          `json:"seat_num"`
	SeatType  string       `json:"seat_type"`
	SeatState string       `json:"seat_state"`
	BookingID string       `json:"booking_id,omitempty"`
	HoldingID string       `json:"holding_id,omitempty"`
	HoldTTL   int64        `json:"hold_ttl,omitempty"`
	Price     money.Amount `json:"price"`
}

func eventSeatResponse(s domain.EventSeat) EventSeatResponse {
	return EventSeatResponse{
		SeatPos:   s.SeatPos,
		Row:       s.Row,
		SeatNum:   s.SeatNum,
		SeatType:  s.SeatType,
		SeatState: string(s.State),
		BookingID: s.BookingID,
		HoldingID: s.HoldingID,
		HoldTTL:   s.HoldTTL,
		Price:     s.Price,
	}
}

func eventSeatResponses(seats []domain.EventSeat) []EventSeatResponse {
	out := make([]EventSeatResponse, len(seats))
	for i, s := range seats {
		out[i] = eventSeatResponse(s)
	}
	return out
}

// --- Venues / Users / Events (supplemented) ---

type CreateVenueRequest struct {
	Name        string   `json:"name" binding:"required"`
	City        string   `json:"city"`
	Description string   `json:"description"`
	SeatTypes   []string `json:"seat_types" binding:"required,min=1"`
}

type VenueResponse struct {
	VenueID     string    `json:"venue_id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	SeatTypes   []string  `json:"seat_types"`
	CreatedAt   time.Time `json:"created_at"`
}

func venueResponse(v domain.Venue) VenueResponse {
	return VenueResponse{
		VenueID:     v.ID,
		Name:        v.Name,
		City:        v.City,
		Description: v.Description,
		SeatTypes:   v.SeatTypes,
		CreatedAt:   v.CreatedAt,
	}
}

type SeatInput struct {
	Row      string `json:"row" binding:"required"`
	SeatNum  int    `json:"seat_num" binding:"required"`
	SeatType string `json:"seat_type" binding:"required"`
}

type AddSeatsRequest struct {
	Seats []SeatInput `json:"seats" binding:"required,min=1,dive"`
}

type VenueSeatResponse struct {
	SeatPos  string `json:"seat_pos"`
	Row      string `json:"row"`
	SeatNum  int    `json:"seat_num"`
	SeatType string `json:"seat_type"`
}

func venueSeatResponses(seats []domain.VenueSeat) []VenueSeatResponse {
	out := make([]VenueSeatResponse, len(seats))
	for i, s := range seats {
		out[i] = VenueSeatResponse{SeatPos: s.SeatPos, Row: s.Row, SeatNum: s.SeatNum, SeatType: s.SeatType}
	}
	return out
}

type CreateUserRequest struct {
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

type UserResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func userResponse(u domain.User) UserResponse {
	return UserResponse{UserID: u.ID, Email: u.Email, Phone: u.Phone, CreatedAt: u.CreatedAt}
}

type CreateEventRequest struct {
	VenueID        string            `json:"venue_id" binding:"required"`
	Name           string            `json:"name" binding:"required"`
	StartTime      string            `json:"start_time" binding:"required"`
	DurationMin    int               `json:"duration_min"`
	Artists        []string          `json:"artists"`
	Tags           []string          `json:"tags"`
	Description    string            `json:"description"`
	SeatTypePrices map[string]int64  `json:"seat_type_prices" binding:"required"`
}

type EventResponse struct {
	EventID        string           `json:"event_id"`
	VenueID        string           `json:"venue_id"`
	Name           string           `json:"name"`
	StartTime      time.Time        `json:"start_time"`
	DurationMin    int              `json:"duration_min"`
	Artists        []string         `json:"artists"`
	Tags           []string         `json:"tags"`
	Description    string           `json:"description"`
	SeatTypePrices map[string]money.Amount `json:"seat_type_prices"`
	CreatedAt      time.Time        `json:"created_at"`
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		EventID:        e.ID,
		VenueID:        e.VenueID,
		Name:           e.Name,
		StartTime:      e.StartTime,
		DurationMin:    e.DurationMin,
		Artists:        e.Artists,
		Tags:           e.Tags,
		Description:    e.Description,
		SeatTypePrices: e.SeatTypePrices,
		CreatedAt:      e.CreatedAt,
	}
}

// --- Analytics ---

type EventAnalyticsResponse struct {
	EventID             string                  `json:"event_id"`
	VenueName           string                  `json:"venue_name"`
	Available           int64                   `json:"seats_available"`
	Held                int64                   `json:"seats_held"`
	Booked              int64                   `json:"seats_booked"`
	TotalSeats          int64                   `json:"total_seats"`
	RevenueGenerated    money.Amount            `json:"revenue_generated"`
	RevenueBySeatType   map[string]money.Amount `json:"revenue_by_seat_type"`
	TotalBookings       int64                   `json:"total_bookings"`
	ConfirmedBookings   int64                   `json:"confirmed_bookings"`
	CancelledBookings   int64                   `json:"cancelled_bookings"`
	LastBookingTime     *time.Time              `json:"last_booking_time,omitempty"`
	CapacityUtilization float64                 `json:"capacity_utilization"`
	AverageBookingValue float64                 `json:"average_booking_value"`
	FailedHolds         int64                   `json:"failed_holds"`
	BookingSuccessRate  float64                 `json:"booking_success_rate"`
	HoldSuccessRate     float64                 `json:"hold_success_rate"`
	CancellationRate    float64                 `json:"cancellation_rate"`
}

func eventAnalyticsResponse(a domain.EventAnalytics) EventAnalyticsResponse {
	resp := EventAnalyticsResponse{
		EventID:             a.EventID,
		VenueName:           a.VenueName,
		Available:           a.Available,
		Held:                a.Held,
		Booked:              a.Booked,
		TotalSeats:          a.TotalSeats,
		RevenueGenerated:    a.RevenueGenerated,
		RevenueBySeatType:   a.RevenueBySeatType,
		TotalBookings:       a.TotalBookings,
		ConfirmedBookings:   a.ConfirmedBookings,
		CancelledBookings:   a.CancelledBookings,
		CapacityUtilization: a.CapacityUtilization,
		AverageBookingValue: a.AverageBookingValue,
		FailedHolds:         a.FailedHolds,
		BookingSuccessRate:  a.BookingSuccessRate,
		HoldSuccessRate:     a.HoldSuccessRate,
		CancellationRate:    a.CancellationRate,
	}
	if !a.LastBookingTime.IsZero() {
		t := a.LastBookingTime
		resp.LastBookingTime = &t
	}
	return resp
}

type PagedSeats struct {
	Seats  []EventSeatResponse `json:"seats"`
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
}

type PagedBookings struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}

func bookingResponses(bs []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bs))
	for i, b := range bs {
		out[i] = bookingResponse(b)
	}
	return out
}

type ComprehensiveResponse struct {
	Aggregate EventAnalyticsResponse `json:"aggregate"`
	Seats     []EventSeatResponse    `json:"seats"`
	Bookings  []BookingResponse      `json:"bookings"`
}
