package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/holdline/ticketcore/internal/clock"
	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/store"
)

// HoldSeats implements the Hold Manager (C4): validates event/user/seat
// existence, deduplicates the requested seats, reclaims any seat whose
// held state has logically expired, and atomically writes a hold record
// plus flips each seat available -> held.
func (r *Repository) HoldSeats(ctx context.Context, eventID, userID string, seats []string, now time.Time, logger *slog.Logger) (domain.Hold, error) {
	const op = "repository.HoldSeats"

	if _, err := r.GetEvent(ctx, eventID); err != nil {
		return domain.Hold{}, err
	}
	if _, err := r.GetUser(ctx, userID); err != nil {
		return domain.Hold{}, err
	}

	seats = dedup(seats)
	if len(seats) == 0 {
		return domain.Hold{
			TTLSecs:   int64(clock.DefaultHoldTTL.Seconds()),
			ExpiresAt: now.Add(clock.DefaultHoldTTL),
		}, nil
	}

	eventSeats, err := r.ListEventSeats(ctx, eventID)
	if err != nil {
		return domain.Hold{}, fmt.Errorf("%s: %w", op, err)
	}
	seatMap := make(map[string]domain.EventSeat, len(eventSeats))
	for _, s := range eventSeats {
		seatMap[s.SeatPos] = s
	}

	for _, pos := range seats {
		if _, ok := seatMap[pos]; !ok {
			return domain.Hold{}, fmt.Errorf("%s: %w: %s", op, ErrSeatNotFound, pos)
		}
	}

	// Best-effort reclaim pass: any seat recorded held but whose TTL has
	// elapsed is reset to available outside the main transaction. This is
	// the pre-step the design calls for so the main transaction's
	// "available" predicate has a chance to succeed; it is not itself
	// atomic with the hold write.
	for _, pos := range seats {
		seat := seatMap[pos]
		if seat.State != domain.SeatHeld {
			continue
		}
		stale := seat.HoldingID
		if stale == "" {
			continue
		}
		if !r.isStaleHold(ctx, eventID, stale, now) {
			continue
		}
		err := r.store.UpdateConditional(ctx, eventID, pos, func(attrs map[string]any) {
			attrs["seat_state"] = string(domain.SeatAvailable)
			attrs["booking_id"] = ""
			attrs["holding_id"] = ""
			attrs["hold_ttl"] = int64(0)
		}, store.And(
			store.AttrEquals("seat_state", string(domain.SeatHeld)),
			store.AttrEquals("holding_id", stale),
		))
		if err != nil && logger != nil {
			logger.Debug("reclaim pre-step did not apply", "event_id", eventID, "seat_pos", pos, "error", err)
		} else if err == nil {
			seat.State = domain.SeatAvailable
			seatMap[pos] = seat
		}
	}

	var blocking []string
	for _, pos := range seats {
		seat := seatMap[pos]
		if seat.State == domain.SeatAvailable {
			continue
		}
		blocking = append(blocking, pos)
	}
	if len(blocking) > 0 {
		return domain.Hold{}, fmt.Errorf("%s: %w: %v", op, ErrSeatsUnavailable, blocking)
	}

	hold := domain.Hold{
		EventID:   eventID,
		HoldingID: clock.NewHoldingID(),
		UserID:    userID,
		Seats:     seats,
		CreatedAt: now,
		ExpiresAt: now.Add(clock.DefaultHoldTTL),
		TTLSecs:   int64(clock.DefaultHoldTTL.Seconds()),
	}

	ops := make([]store.Op, 0, len(seats)+1)
	ops = append(ops, store.PutOp(eventID, hold.HoldingID, holdAttrs(hold), store.MustNotExist))
	for _, pos := range seats {
		ops = append(ops, store.UpdateOp(eventID, pos, func(attrs map[string]any) {
			attrs["seat_state"] = string(domain.SeatHeld)
			attrs["holding_id"] = hold.HoldingID
			attrs["hold_ttl"] = hold.TTLSecs
		}, store.AttrEquals("seat_state", string(domain.SeatAvailable))))
	}

	if err := r.store.TransactWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrTransactionCancelled) {
			return domain.Hold{}, fmt.Errorf("%s: %w", op, ErrSeatsUnavailable)
		}
		return domain.Hold{}, fmt.Errorf("%s: %w", op, err)
	}

	r.bumpEventCounter(ctx, eventID, "hold_attempts", 1, logger)
	return hold, nil
}

// isStaleHold reports whether holdingID names a hold record that has
// expired (or no longer exists, which is its own kind of stale).
func (r *Repository) isStaleHold(ctx context.Context, eventID, holdingID string, now time.Time) bool {
	item, err := r.store.Get(ctx, eventID, holdingID)
	if err != nil {
		return true
	}
	h := holdFromAttrs(eventID, item.Attrs)
	return clock.IsExpired(now, h.CreatedAt, time.Duration(h.TTLSecs)*time.Second)
}

// FindHoldByID is the cross-partition lookup the original implements as a
// full table scan; ticketcore keeps the same scan shape (the design notes
// flag this as worth a secondary index, which is future work, not a
// behavior change).
func (r *Repository) FindHoldByID(ctx context.Context, holdingID string, logger *slog.Logger) (domain.Hold, error) {
	const op = "repository.FindHoldByID"

	items, err := r.store.Scan(ctx, func(item store.Item) bool {
		return len(item.SK) >= len(holdingPrefix) && item.SK == holdingID
	})
	if err != nil {
		return domain.Hold{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return domain.Hold{}, ErrHoldNotFound
	}
	if len(items) > 1 && logger != nil {
		logger.Warn("multiple holds found with same holding_id, using first", "holding_id", holdingID)
	}
	return holdFromAttrs(items[0].PK, items[0].Attrs), nil
}

// ConfirmHold implements Booking Manager confirm (C5.1).
func (r *Repository) ConfirmHold(ctx context.Context, holdingID string, payment domain.PaymentStatus, now time.Time, logger *slog.Logger) (domain.Booking, error) {
	const op = "repository.ConfirmHold"

	if payment != domain.PaymentSuccessful && payment != domain.PaymentFailed {
		return domain.Booking{}, ErrInvalidPaymentStatus
	}
	if payment == domain.PaymentFailed {
		return domain.Booking{}, ErrPaymentFailed
	}

	hold, err := r.FindHoldByID(ctx, holdingID, logger)
	if err != nil {
		return domain.Booking{}, err
	}

	if _, err := r.GetEvent(ctx, hold.EventID); err != nil {
		return domain.Booking{}, err
	}
	if _, err := r.GetUser(ctx, hold.UserID); err != nil {
		return domain.Booking{}, err
	}

	if clock.IsExpired(now, hold.CreatedAt, time.Duration(hold.TTLSecs)*time.Second) {
		return domain.Booking{}, ErrHoldExpired
	}

	eventSeats, err := r.ListEventSeats(ctx, hold.EventID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	seatMap := make(map[string]domain.EventSeat, len(eventSeats))
	for _, s := range eventSeats {
		seatMap[s.SeatPos] = s
	}

	var invalid []string
	for _, pos := range hold.Seats {
		seat, ok := seatMap[pos]
		if !ok {
			invalid = append(invalid, pos+" (seat not found)")
			continue
		}
		if seat.State != domain.SeatHeld {
			invalid = append(invalid, fmt.Sprintf("%s (state: %s)", pos, seat.State))
		} else if seat.HoldingID != holdingID {
			invalid = append(invalid, pos+" (held by different holding)")
		}
	}
	if len(invalid) > 0 {
		return domain.Booking{}, fmt.Errorf("%s: %w: %v", op, ErrSeatsNotHeld, invalid)
	}

	booking := domain.Booking{
		EventID:       hold.EventID,
		BookingID:     clock.NewBookingID(),
		BookingDate:   now,
		UserID:        hold.UserID,
		Seats:         hold.Seats,
		State:         domain.BookingConfirmed,
		PaymentStatus: payment,
	}

	ops := make([]store.Op, 0, len(hold.Seats)+2)
	ops = append(ops, store.PutOp(hold.EventID, bookingSK(now), bookingAttrs(booking), store.MustNotExist))
	for _, pos := range hold.Seats {
		ops = append(ops, store.UpdateOp(hold.EventID, pos, func(attrs map[string]any) {
			attrs["seat_state"] = string(domain.SeatBooked)
			attrs["booking_id"] = booking.BookingID
			attrs["holding_id"] = ""
			attrs["hold_ttl"] = int64(0)
			attrs["updated_at"] = now
		}, store.And(
			store.AttrEquals("seat_state", string(domain.SeatHeld)),
			store.AttrEquals("holding_id", holdingID),
		)))
	}
	ops = append(ops, store.DeleteOp(hold.EventID, holdingID, store.AttrEquals("holding_id", holdingID)))

	if err := r.store.TransactWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrTransactionCancelled) {
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrConcurrentWrite)
		}
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	r.bumpEventCounter(ctx, hold.EventID, "successful_bookings", 1, logger)
	r.bumpEventCounter(ctx, hold.EventID, "seats_sold", int64(len(hold.Seats)), logger)

	return booking, nil
}

// FindBookingByID scans for a booking record by its id, the same
// cross-partition shape as FindHoldByID.
func (r *Repository) FindBookingByID(ctx context.Context, bookingID string) (domain.Booking, error) {
	const op = "repository.FindBookingByID"

	items, err := r.store.Scan(ctx, func(item store.Item) bool {
		id, _ := item.Attrs["booking_id"].(string)
		return id == bookingID
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return domain.Booking{}, ErrBookingNotFound
	}
	return bookingFromAttrs(items[0].Attrs), nil
}

// CancelBooking implements Booking Manager cancel (C5.2).
func (r *Repository) CancelBooking(ctx context.Context, bookingID string, now time.Time, logger *slog.Logger) (domain.Booking, error) {
	const op = "repository.CancelBooking"

	booking, err := r.FindBookingByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	if _, err := r.GetEvent(ctx, booking.EventID); err != nil {
		return domain.Booking{}, err
	}

	if booking.State == domain.BookingCancelled {
		return domain.Booking{}, ErrBookingAlreadyCancelled
	}

	eventSeats, err := r.ListEventSeats(ctx, booking.EventID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	seatMap := make(map[string]domain.EventSeat, len(eventSeats))
	for _, s := range eventSeats {
		seatMap[s.SeatPos] = s
	}

	var invalid []string
	for _, pos := range booking.Seats {
		seat, ok := seatMap[pos]
		if !ok {
			invalid = append(invalid, pos+" (seat not found)")
			continue
		}
		if seat.State != domain.SeatBooked {
			invalid = append(invalid, fmt.Sprintf("%s (state: %s)", pos, seat.State))
		} else if seat.BookingID != bookingID {
			invalid = append(invalid, pos+" (booked by different booking)")
		}
	}
	if len(invalid) > 0 {
		return domain.Booking{}, fmt.Errorf("%s: %w: %v", op, ErrSeatsNotBooked, invalid)
	}

	bookingSKKey := bookingSK(booking.BookingDate)

	ops := make([]store.Op, 0, len(booking.Seats)+1)
	for _, pos := range booking.Seats {
		ops = append(ops, store.UpdateOp(booking.EventID, pos, func(attrs map[string]any) {
			attrs["seat_state"] = string(domain.SeatAvailable)
			attrs["booking_id"] = ""
			attrs["holding_id"] = ""
			attrs["hold_ttl"] = int64(0)
			attrs["updated_at"] = now
		}, store.And(
			store.AttrEquals("seat_state", string(domain.SeatBooked)),
			store.AttrEquals("booking_id", bookingID),
		)))
	}
	ops = append(ops, store.UpdateOp(booking.EventID, bookingSKKey, func(attrs map[string]any) {
		attrs["state"] = string(domain.BookingCancelled)
		attrs["cancelled_at"] = now
	}, store.And(
		store.AttrEquals("state", string(domain.BookingConfirmed)),
		store.AttrEquals("booking_id", bookingID),
	)))

	if err := r.store.TransactWrite(ctx, ops); err != nil {
		if errors.Is(err, store.ErrTransactionCancelled) {
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrConcurrentWrite)
		}
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	r.bumpEventCounter(ctx, booking.EventID, "cancellations", 1, logger)
	r.bumpEventCounter(ctx, booking.EventID, "seats_sold", -int64(len(booking.Seats)), logger)

	booking.State = domain.BookingCancelled
	booking.CancelledAt = now
	return booking, nil
}

func dedup(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
