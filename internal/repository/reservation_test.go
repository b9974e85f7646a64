package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/money"
	"github.com/holdline/ticketcore/internal/store/memory"
)

// seedVenueEventUser builds a one-venue, one-event, one-user fixture with
// two seats ("A-1", "A-2") priced at $10, and returns the repository plus
// their generated ids.
func seedVenueEventUser(t *testing.T, r *Repository, now time.Time) (eventID, userID string) {
	t.Helper()
	ctx := context.Background()

	venue := domain.Venue{ID: "venue-1", Name: "Test Arena", SeatTypes: []string{"general"}, CreatedAt: now}
	if err := r.CreateVenue(ctx, venue); err != nil {
		t.Fatalf("CreateVenue: %v", err)
	}
	seats := []domain.VenueSeat{
		{VenueID: venue.ID, SeatPos: "A-1", Row: "A", SeatNum: 1, SeatType: "general"},
		{VenueID: venue.ID, SeatPos: "A-2", Row: "A", SeatNum: 2, SeatType: "general"},
	}
	if err := r.CreateVenueSeats(ctx, seats); err != nil {
		t.Fatalf("CreateVenueSeats: %v", err)
	}

	user := domain.User{ID: "user-1", Email: "a@example.com", CreatedAt: now}
	if err := r.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	event := domain.Event{
		ID:             "event-1",
		VenueID:        venue.ID,
		Name:           "Test Show",
		StartTime:      now.Add(24 * time.Hour),
		SeatTypePrices: map[string]money.Amount{"general": money.FromUnits(10)},
		CreatedAt:      now,
	}
	if err := r.CreateEventWithSeats(ctx, event, nil); err != nil {
		t.Fatalf("CreateEventWithSeats: %v", err)
	}
	return event.ID, user.ID
}

func newTestRepo() *Repository {
	return New(memory.New())
}

func TestHoldSeatsHappyPath(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)

	hold, err := r.HoldSeats(context.Background(), eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}
	if hold.HoldingID == "" {
		t.Fatal("HoldSeats returned an empty HoldingID")
	}
	if hold.TTLSecs != 180 {
		t.Fatalf("TTLSecs = %d, want 180", hold.TTLSecs)
	}

	seats, err := r.ListEventSeats(context.Background(), eventID)
	if err != nil {
		t.Fatalf("ListEventSeats: %v", err)
	}
	var a1 domain.EventSeat
	for _, s := range seats {
		if s.SeatPos == "A-1" {
			a1 = s
		}
	}
	if a1.State != domain.SeatHeld {
		t.Fatalf("A-1 state = %q, want held", a1.State)
	}
	if a1.HoldingID != hold.HoldingID {
		t.Fatalf("A-1 holding_id = %q, want %q", a1.HoldingID, hold.HoldingID)
	}
}

func TestHoldSeatsEmptySeatsIsANoOp(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)

	hold, err := r.HoldSeats(context.Background(), eventID, userID, nil, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats with no seats returned an error: %v", err)
	}
	if hold.HoldingID != "" {
		t.Fatalf("HoldingID = %q, want empty for a no-op hold", hold.HoldingID)
	}
}

func TestHoldSeatsDeduplicatesRequestedSeats(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)

	hold, err := r.HoldSeats(context.Background(), eventID, userID, []string{"A-1", "A-1", "A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}
	if len(hold.Seats) != 1 {
		t.Fatalf("Seats = %v, want a single deduplicated entry", hold.Seats)
	}
}

func TestHoldSeatsConflictsOnAlreadyHeldSeat(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	if _, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil); err != nil {
		t.Fatalf("first HoldSeats: %v", err)
	}
	_, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now.Add(time.Second), nil)
	if !errors.Is(err, ErrSeatsUnavailable) {
		t.Fatalf("second HoldSeats err = %v, want ErrSeatsUnavailable", err)
	}
}

func TestHoldSeatsConcurrentRaceLoserGetsSeatsUnavailable(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSeatsUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error from concurrent HoldSeats: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("got %d successes and %d conflicts, want exactly one of each", successes, conflicts)
	}
}

func TestHoldSeatsReclaimsExpiredHold(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	if _, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil); err != nil {
		t.Fatalf("first HoldSeats: %v", err)
	}

	later := now.Add(181 * time.Second)
	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, later, nil)
	if err != nil {
		t.Fatalf("HoldSeats after TTL elapsed: %v", err)
	}
	if hold.HoldingID == "" {
		t.Fatal("expected a new hold to succeed once the old one's TTL elapsed")
	}
}

func TestHoldSeatsUnknownSeatFails(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)

	_, err := r.HoldSeats(context.Background(), eventID, userID, []string{"Z-99"}, now, nil)
	if !errors.Is(err, ErrSeatNotFound) {
		t.Fatalf("err = %v, want ErrSeatNotFound", err)
	}
}

func TestConfirmHoldPromotesToBooking(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}

	booking, err := r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentSuccessful, now.Add(time.Second), nil)
	if err != nil {
		t.Fatalf("ConfirmHold: %v", err)
	}
	if booking.State != domain.BookingConfirmed {
		t.Fatalf("booking state = %q, want confirmed", booking.State)
	}

	seats, _ := r.ListEventSeats(ctx, eventID)
	for _, s := range seats {
		if s.SeatPos == "A-1" {
			if s.State != domain.SeatBooked {
				t.Fatalf("A-1 state = %q, want booked", s.State)
			}
			if s.BookingID != booking.BookingID {
				t.Fatalf("A-1 booking_id = %q, want %q", s.BookingID, booking.BookingID)
			}
		}
	}

	if _, err := r.FindHoldByID(ctx, hold.HoldingID, nil); !errors.Is(err, ErrHoldNotFound) {
		t.Fatalf("hold record should be deleted on confirm, FindHoldByID err = %v", err)
	}
}

func TestConfirmHoldRejectsExpiredHold(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}

	_, err = r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentSuccessful, now.Add(181*time.Second), nil)
	if !errors.Is(err, ErrHoldExpired) {
		t.Fatalf("err = %v, want ErrHoldExpired", err)
	}
}

func TestConfirmHoldRejectsFailedPayment(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}

	_, err = r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentFailed, now.Add(time.Second), nil)
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("err = %v, want ErrPaymentFailed", err)
	}

	// The seat must still be held, not silently booked or freed.
	seats, _ := r.ListEventSeats(ctx, eventID)
	for _, s := range seats {
		if s.SeatPos == "A-1" && s.State != domain.SeatHeld {
			t.Fatalf("A-1 state = %q after failed payment, want held", s.State)
		}
	}
}

func TestCancelBookingFreesSeatsAndAllowsRebooking(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}
	booking, err := r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentSuccessful, now.Add(time.Second), nil)
	if err != nil {
		t.Fatalf("ConfirmHold: %v", err)
	}

	cancelled, err := r.CancelBooking(ctx, booking.BookingID, now.Add(2*time.Second), nil)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.State != domain.BookingCancelled {
		t.Fatalf("booking state = %q, want cancelled", cancelled.State)
	}

	seats, _ := r.ListEventSeats(ctx, eventID)
	for _, s := range seats {
		if s.SeatPos == "A-1" && s.State != domain.SeatAvailable {
			t.Fatalf("A-1 state = %q after cancel, want available", s.State)
		}
	}

	// The freed seat must be holdable again.
	secondHold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now.Add(3*time.Second), nil)
	if err != nil {
		t.Fatalf("re-hold after cancel: %v", err)
	}
	if secondHold.HoldingID == "" {
		t.Fatal("expected a new hold after the seat was freed by cancellation")
	}
}

func TestCancelBookingTwiceFails(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	eventID, userID := seedVenueEventUser(t, r, now)
	ctx := context.Background()

	hold, err := r.HoldSeats(ctx, eventID, userID, []string{"A-1"}, now, nil)
	if err != nil {
		t.Fatalf("HoldSeats: %v", err)
	}
	booking, err := r.ConfirmHold(ctx, hold.HoldingID, domain.PaymentSuccessful, now.Add(time.Second), nil)
	if err != nil {
		t.Fatalf("ConfirmHold: %v", err)
	}
	if _, err := r.CancelBooking(ctx, booking.BookingID, now.Add(2*time.Second), nil); err != nil {
		t.Fatalf("first CancelBooking: %v", err)
	}

	_, err = r.CancelBooking(ctx, booking.BookingID, now.Add(3*time.Second), nil)
	if !errors.Is(err, ErrBookingAlreadyCancelled) {
		t.Fatalf("second CancelBooking err = %v, want ErrBookingAlreadyCancelled", err)
	}
}

func TestCreateEventWithSeatsFailsWithoutSeatTypePrice(t *testing.T) {
	r := newTestRepo()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	venue := domain.Venue{ID: "venue-1", Name: "Arena", SeatTypes: []string{"general", "vip"}, CreatedAt: now}
	if err := r.CreateVenue(ctx, venue); err != nil {
		t.Fatalf("CreateVenue: %v", err)
	}
	if err := r.CreateVenueSeats(ctx, []domain.VenueSeat{
		{VenueID: venue.ID, SeatPos: "A-1", Row: "A", SeatNum: 1, SeatType: "vip"},
	}); err != nil {
		t.Fatalf("CreateVenueSeats: %v", err)
	}

	event := domain.Event{
		ID:             "event-1",
		VenueID:        venue.ID,
		Name:           "Show",
		SeatTypePrices: map[string]money.Amount{"general": money.FromUnits(10)}, // missing "vip"
		CreatedAt:      now,
	}
	err := r.CreateEventWithSeats(ctx, event, nil)
	if !errors.Is(err, ErrMissingSeatTypePrice) {
		t.Fatalf("err = %v, want ErrMissingSeatTypePrice", err)
	}
}
