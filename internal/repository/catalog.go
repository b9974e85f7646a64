package repository

import (
	"context"
	"fmt"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/store"
)

func (r *Repository) CreateVenue(ctx context.Context, v domain.Venue) error {
	const op = "repository.CreateVenue"

	if err := r.store.Put(ctx, v.ID, skVenue, venueAttrs(v), store.MustNotExist); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Repository) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	const op = "repository.GetVenue"

	item, err := r.store.Get(ctx, venueID, skVenue)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.Venue{}, ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("%s: %w", op, err)
	}
	return venueFromAttrs(venueID, item.Attrs), nil
}

func (r *Repository) CreateVenueSeats(ctx context.Context, seats []domain.VenueSeat) error {
	const op = "repository.CreateVenueSeats"

	for _, s := range seats {
		if err := r.store.Put(ctx, s.VenueID, s.SeatPos, venueSeatAttrs(s), nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ListVenueSeats returns every venue-seat under venueID, excluding the
// venue record itself.
func (r *Repository) ListVenueSeats(ctx context.Context, venueID string) ([]domain.VenueSeat, error) {
	const op = "repository.ListVenueSeats"

	items, err := r.store.Query(ctx, venueID, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.VenueSeat, 0, len(items))
	for _, item := range items {
		if item.SK == skVenue {
			continue
		}
		out = append(out, venueSeatFromAttrs(venueID, item.SK, item.Attrs))
	}
	return out, nil
}

func (r *Repository) CreateUser(ctx context.Context, u domain.User) error {
	const op = "repository.CreateUser"

	if err := r.store.Put(ctx, u.ID, skUser, userAttrs(u), store.MustNotExist); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	const op = "repository.GetUser"

	item, err := r.store.Get(ctx, userID, skUser)
	if err != nil {
		if err == store.ErrNotFound {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return userFromAttrs(userID, item.Attrs), nil
}
