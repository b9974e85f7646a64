package repository

import (
	"context"
	"testing"
	"time"

	"github.com/holdline/ticketcore/internal/domain"
)

func TestEventAnalyticsTalliesSeatsAndBookings(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}
	if _, err := r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentSuccessful, now.Add(time.Second), nil); err != nil {
		t.Fatalf("ConfirmHold: %v", err)
	}

	a, err := r.EventAnalytics(ctx, eventID)
	if err != nil {
		t.Fatalf("EventAnalytics: %v", err)
	}
	if a.TotalSeats != 2 {
		t.Fatalf("TotalSeats = %d, want 2", a.TotalSeats)
	}
	if a.Booked != 1 || a.Available != 1 {
		t.Fatalf("Booked=%d Available=%d, want 1 and 1", a.Booked, a.Available)
	}
	if a.RevenueGenerated.Float64() != 10 {
		t.Fatalf("RevenueGenerated = %v, want 10", a.RevenueGenerated.Float64())
	}
	if a.ConfirmedBookings != 1 {
		t.Fatalf("ConfirmedBookings = %d, want 1", a.ConfirmedBookings)
	}
	if a.CapacityUtilization != 50 {
		t.Fatalf("CapacityUtilization = %v, want 50", a.CapacityUtilization)
	}
}

func TestEventAnalyticsFailedHoldsFormulaIsPreserved(t *testing.T) {
	// Regression guard for the double-counting formula SPEC_FULL.md's open
	// question chose to keep as-is: a seat that is held, cancelled, then
	// rebooked still leaves its original hold counted as "failed" even
	// though every attempt ultimately succeeded.
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold1, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("first HoldSeats: %v", err)
	}
	booking, err := r.ConfirmHold(ctx, hold1.HoldingID, domain.PaymentSuccessful, now.Add(time.Second), nil)
	if err != nil {
		t.Fatalf("ConfirmHold: %v", err)
	}
	if _, err := r.CancelBooking(ctx, booking.BookingID, now.Add(2*time.Second), nil); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	hold2, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now.Add(3*time.Second), nil)
	if err != nil {
		t.Fatalf("second HoldSeats: %v", err)
	}
	if _, err := r.ConfirmHold(ctx, hold2.HoldingID, domain.PaymentSuccessful, now.Add(4*time.Second), nil); err != nil {
		t.Fatalf("second ConfirmHold: %v", err)
	}

	a, err := r.EventAnalytics(ctx, eventID)
	if err != nil {
		t.Fatalf("EventAnalytics: %v", err)
	}
	// 2 hold attempts, but only 1 booking is confirmed at scan time (the
	// first was cancelled); FailedHolds = hold_attempts - confirmed counts
	// the cancelled-then-rebooked hold as failed even though it ultimately
	// succeeded. That's the double-counting §9 says to preserve.
	if a.FailedHolds != 1 {
		t.Fatalf("FailedHolds = %d, want 1 (double-counts the cancelled booking's original hold)", a.FailedHolds)
	}
}

func TestFilterEventSeatsBySeatType(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, _ := seedVenueEventUser(t, r, now)

	seats, err := r.FilterEventSeats(context.Background(), eventID, SeatFilter{SeatType: "general"})
	if err != nil {
		t.Fatalf("FilterEventSeats: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("len(seats) = %d, want 2", len(seats))
	}

	seats, err = r.FilterEventSeats(context.Background(), eventID, SeatFilter{SeatType: "vip"})
	if err != nil {
		t.Fatalf("FilterEventSeats: %v", err)
	}
	if len(seats) != 0 {
		t.Fatalf("len(seats) = %d, want 0 for an unused seat type", len(seats))
	}
}

func TestPaginateClampsToBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := Paginate(items, 0, 2); len(got) != 2 || got[0] != 1 {
		t.Fatalf("Paginate(0,2) = %v", got)
	}
	if got := Paginate(items, 10, 2); len(got) != 0 {
		t.Fatalf("Paginate(10,2) = %v, want empty", got)
	}
	if got := Paginate(items, 3, 10); len(got) != 2 {
		t.Fatalf("Paginate(3,10) = %v, want 2 remaining items", got)
	}
	if got := Paginate(items, -1, 2); len(got) != 2 || got[0] != 1 {
		t.Fatalf("Paginate(-1,2) = %v, want offset clamped to 0", got)
	}
}

func TestListEventSeatsExcludesHoldsAndBookings(t *testing.T) {
	// A regression guard: holds and bookings share the event's partition
	// with its seats, so ListEventSeats must discriminate by attribute
	// shape rather than merely skipping the EVENT record.
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}
	if _, err := r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentSuccessful, now.Add(time.Second), nil); err != nil {
		t.Fatalf("ConfirmHold: %v", err)
	}

	seats, err := r.ListEventSeats(ctx, eventID)
	if err != nil {
		t.Fatalf("ListEventSeats: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("ListEventSeats returned %d items, want exactly the 2 provisioned seats", len(seats))
	}
	for _, s := range seats {
		if s.SeatPos != "A-1" && s.SeatPos != "A-2" {
			t.Fatalf("ListEventSeats leaked a non-seat item as seat_pos %q", s.SeatPos)
		}
	}
}
