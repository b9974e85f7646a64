package repository

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/money"
)

// isBookingAttrs distinguishes a Booking item from an EventSeat item sharing
// the same partition: only a Booking carries a payment_status attribute.
func isBookingAttrs(a map[string]any) bool {
	_, ok := a["payment_status"]
	return ok
}

// ListBookings returns every booking under eventID, newest first, the same
// ordering the original's booking analytics and the cancel-lookup scan
// both want.
func (r *Repository) ListBookings(ctx context.Context, eventID string) ([]domain.Booking, error) {
	const op = "repository.ListBookings"

	items, err := r.store.Query(ctx, eventID, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if !isBookingAttrs(item.Attrs) {
			continue
		}
		out = append(out, bookingFromAttrs(item.Attrs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// EventAnalytics implements the Analytics Aggregator (C7): a non-mutating
// scan over the event's partition plus its bookings, tallied into the
// derived metrics §4.7 defines.
func (r *Repository) EventAnalytics(ctx context.Context, eventID string) (domain.EventAnalytics, error) {
	const op = "repository.EventAnalytics"

	event, err := r.GetEvent(ctx, eventID)
	if err != nil {
		return domain.EventAnalytics{}, err
	}

	venueName := "Unknown Venue"
	if venue, err := r.GetVenue(ctx, event.VenueID); err == nil {
		venueName = venue.Name
	}

	seats, err := r.ListEventSeats(ctx, eventID)
	if err != nil {
		return domain.EventAnalytics{}, fmt.Errorf("%s: %w", op, err)
	}

	out := domain.EventAnalytics{
		EventID:           eventID,
		VenueName:         venueName,
		RevenueBySeatType: map[string]money.Amount{},
	}
	for _, s := range seats {
		out.TotalSeats++
		switch s.State {
		case domain.SeatAvailable:
			out.Available++
		case domain.SeatHeld:
			out.Held++
		case domain.SeatBooked:
			out.Booked++
			out.RevenueGenerated = out.RevenueGenerated.Add(s.Price)
			out.RevenueBySeatType[s.SeatType] = out.RevenueBySeatType[s.SeatType].Add(s.Price)
		}
	}

	bookings, err := r.ListBookings(ctx, eventID)
	if err != nil {
		return domain.EventAnalytics{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, b := range bookings {
		switch b.State {
		case domain.BookingConfirmed:
			out.ConfirmedBookings++
		case domain.BookingCancelled:
			out.CancelledBookings++
		}
		if b.BookingDate.After(out.LastBookingTime) {
			out.LastBookingTime = b.BookingDate
		}
	}
	out.TotalBookings = out.ConfirmedBookings + out.CancelledBookings

	if out.TotalSeats > 0 {
		out.CapacityUtilization = round2(float64(out.Booked) / float64(out.TotalSeats) * 100)
	}
	if out.ConfirmedBookings > 0 {
		out.AverageBookingValue = round2(out.RevenueGenerated.Float64() / float64(out.ConfirmedBookings))
	}
	// failed_holds double-counts cancellations as failed holds; preserved
	// as specified in §9, not corrected, since intent is unconfirmed.
	out.FailedHolds = event.HoldAttempts - out.ConfirmedBookings
	if out.FailedHolds < 0 {
		out.FailedHolds = 0
	}
	if out.TotalBookings > 0 {
		out.BookingSuccessRate = round2(float64(out.ConfirmedBookings) / float64(out.TotalBookings) * 100)
		out.CancellationRate = round2(float64(out.CancelledBookings) / float64(out.TotalBookings) * 100)
	}
	if event.HoldAttempts > 0 {
		out.HoldSuccessRate = round2(float64(out.ConfirmedBookings) / float64(event.HoldAttempts) * 100)
	}

	return out, nil
}

// SeatFilter narrows ListEventSeats to the subset a caller asked for;
// a zero-value SeatFilter matches every seat.
type SeatFilter struct {
	SeatType string
	State    domain.SeatState
}

func (f SeatFilter) match(s domain.EventSeat) bool {
	if f.SeatType != "" && s.SeatType != f.SeatType {
		return false
	}
	if f.State != "" && s.State != f.State {
		return false
	}
	return true
}

// FilterEventSeats is ListEventSeats narrowed by SeatFilter, for the
// supplemented per-seat analytics view.
func (r *Repository) FilterEventSeats(ctx context.Context, eventID string, f SeatFilter) ([]domain.EventSeat, error) {
	seats, err := r.ListEventSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := seats[:0:0]
	for _, s := range seats {
		if f.match(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// BookingFilter narrows ListBookings to the subset a caller asked for.
type BookingFilter struct {
	State domain.BookingState
}

func (f BookingFilter) match(b domain.Booking) bool {
	if f.State != "" && b.State != f.State {
		return false
	}
	return true
}

// FilterBookings is ListBookings narrowed by BookingFilter, for the
// supplemented per-booking analytics view.
func (r *Repository) FilterBookings(ctx context.Context, eventID string, f BookingFilter) ([]domain.Booking, error) {
	bookings, err := r.ListBookings(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := bookings[:0:0]
	for _, b := range bookings {
		if f.match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Paginate slices a slice in-memory by offset/limit, clamping both to the
// slice's bounds; used by the filtered seat/booking analytics views.
func Paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
