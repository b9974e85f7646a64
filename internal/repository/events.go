package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/store"
)

// CreateEventWithSeats implements the Event/Seat Provisioner (C8): it
// validates the venue exists and every venue seat_type has a resolved
// price, then writes the event record and one event-seat per venue-seat.
// Per-seat writes are not atomic with each other or with the event write —
// a deliberate choice: an event-seat is idempotently reconstructible from
// its venue-seat, so a partial failure here is cheap to repair, unlike a
// partial hold or booking.
func (r *Repository) CreateEventWithSeats(ctx context.Context, e domain.Event, logger *slog.Logger) error {
	const op = "repository.CreateEventWithSeats"

	venue, err := r.GetVenue(ctx, e.VenueID)
	if err != nil {
		return err
	}
	for _, seatType := range venue.SeatTypes {
		if _, ok := e.SeatTypePrices[seatType]; !ok {
			return fmt.Errorf("%s: %w: %s", op, ErrMissingSeatTypePrice, seatType)
		}
	}

	if err := r.store.Put(ctx, e.ID, skEvent, eventAttrs(e), store.MustNotExist); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	venueSeats, err := r.ListVenueSeats(ctx, e.VenueID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	created := 0
	for _, vs := range venueSeats {
		price, ok := e.SeatTypePrices[vs.SeatType]
		if !ok {
			continue
		}
		seat := domain.EventSeat{
			EventID:  e.ID,
			SeatPos:  vs.SeatPos,
			Row:      vs.Row,
			SeatNum:  vs.SeatNum,
			SeatType: vs.SeatType,
			State:    domain.SeatAvailable,
			Price:    price,
		}
		if err := r.store.Put(ctx, e.ID, seat.SeatPos, eventSeatAttrs(seat), nil); err != nil {
			if logger != nil {
				logger.Warn("event seat provisioning failed", "event_id", e.ID, "seat_pos", seat.SeatPos, "error", err)
			}
			continue
		}
		created++
	}

	if created == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoValidSeats)
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const op = "repository.GetEvent"

	item, err := r.store.Get(ctx, eventID, skEvent)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return eventFromAttrs(eventID, item.Attrs), nil
}

// ListEventSeats returns every event-seat under eventID, excluding the
// event record itself.
func (r *Repository) ListEventSeats(ctx context.Context, eventID string) ([]domain.EventSeat, error) {
	const op = "repository.ListEventSeats"

	items, err := r.store.Query(ctx, eventID, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.EventSeat, 0, len(items))
	for _, item := range items {
		if !isEventSeatAttrs(item.Attrs) {
			continue
		}
		out = append(out, eventSeatFromAttrs(eventID, item.SK, item.Attrs))
	}
	return out, nil
}

// isEventSeatAttrs distinguishes an event-seat item from the event record,
// hold records, and booking records sharing the same partition: only a
// seat carries a seat_state attribute.
func isEventSeatAttrs(a map[string]any) bool {
	_, ok := a["seat_state"]
	return ok
}

// bumpEventCounter performs a non-blocking analytics increment: its
// failure must never fail the caller's primary operation (§7).
func (r *Repository) bumpEventCounter(ctx context.Context, eventID string, field string, delta int64, logger *slog.Logger) {
	err := r.store.UpdateConditional(ctx, eventID, skEvent, func(attrs map[string]any) {
		attrs[field] = asInt64(attrs[field]) + delta
	}, store.MustExist)
	if err != nil && logger != nil {
		logger.Warn("analytics counter update failed", "event_id", eventID, "field", field, "error", err)
	}
}
