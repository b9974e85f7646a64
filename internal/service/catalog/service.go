package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holdline/ticketcore/internal/clock"
	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/repository"
)

type Service struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *slog.Logger
}

func New(repo *repository.Repository, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.Real
	}
	return &Service{repo: repo, clock: clk, logger: logger}
}

// CreateVenue registers a venue and its allowed seat_type labels.
func (s *Service) CreateVenue(ctx context.Context, name, city, description string, seatTypes []string) (domain.Venue, error) {
	v := domain.Venue{
		ID:          clock.NewVenueID(),
		Name:        name,
		City:        city,
		Description: description,
		SeatTypes:   seatTypes,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateVenue(ctx, v); err != nil {
		return domain.Venue{}, fmt.Errorf("service.catalog.CreateVenue: %w", err)
	}
	return v, nil
}

func (s *Service) GetVenue(ctx context.Context, venueID string) (domain.Venue, error) {
	v, err := s.repo.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return domain.Venue{}, ErrVenueNotFound
		}
		return domain.Venue{}, fmt.Errorf("service.catalog.GetVenue: %w", err)
	}
	return v, nil
}

// AddSeats registers venue-seats, validating every seat_type against the
// venue's declared list (§3 invariant: seat_type ∈ venue.seat_types).
func (s *Service) AddSeats(ctx context.Context, venueID string, seats []domain.VenueSeat) error {
	const op = "service.catalog.AddSeats"

	venue, err := s.repo.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return fmt.Errorf("%s: %w", op, ErrVenueNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	allowed := make(map[string]struct{}, len(venue.SeatTypes))
	for _, t := range venue.SeatTypes {
		allowed[t] = struct{}{}
	}
	for i := range seats {
		seats[i].VenueID = venueID
		if _, ok := allowed[seats[i].SeatType]; !ok {
			return fmt.Errorf("%s: %w: %s", op, ErrUnknownSeatType, seats[i].SeatType)
		}
	}
	if err := s.repo.CreateVenueSeats(ctx, seats); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ListVenueSeats(ctx context.Context, venueID string) ([]domain.VenueSeat, error) {
	seats, err := s.repo.ListVenueSeats(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("service.catalog.ListVenueSeats: %w", err)
	}
	return seats, nil
}

func (s *Service) CreateUser(ctx context.Context, email, phone string) (domain.User, error) {
	u := domain.User{
		ID:        clock.NewUserID(),
		Email:     email,
		Phone:     phone,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("service.catalog.CreateUser: %w", err)
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("service.catalog.GetUser: %w", err)
	}
	return u, nil
}

// CreateEvent runs the Event/Seat Provisioner (C8): validates the venue
// exists and every seat_type has a resolved price, then materializes one
// event-seat per venue-seat.
func (s *Service) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	const op = "service.catalog.CreateEvent"

	e.ID = clock.NewEventID()
	e.CreatedAt = s.clock.Now()

	if err := s.repo.CreateEventWithSeats(ctx, e, s.logger); err != nil {
		switch {
		case errors.Is(err, repository.ErrVenueNotFound):
			return domain.Event{}, fmt.Errorf("%s: %w", op, ErrVenueNotFound)
		case errors.Is(err, repository.ErrMissingSeatTypePrice):
			return domain.Event{}, fmt.Errorf("%s: %w: %s", op, ErrMissingSeatTypePrice, err)
		case errors.Is(err, repository.ErrNoValidSeats):
			return domain.Event{}, fmt.Errorf("%s: %w", op, ErrNoValidSeats)
		default:
			return domain.Event{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return e, nil
}

func (s *Service) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	e, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("service.catalog.GetEvent: %w", err)
	}
	return e, nil
}

func (s *Service) ListEventSeats(ctx context.Context, eventID string) ([]domain.EventSeat, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	seats, err := s.repo.ListEventSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("service.catalog.ListEventSeats: %w", err)
	}
	return seats, nil
}
