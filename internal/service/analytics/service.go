package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/repository"
	redisrepo "github.com/holdline/ticketcore/internal/repository/redis"
)

type Config struct {
	EventAnalyticsTTL time.Duration
	DefaultPageSize   int
	MaxPageSize       int
}

type Service struct {
	repo   *repository.Repository
	cache  *redisrepo.Cache
	logger *slog.Logger
	cfg    Config
}

func New(repo *repository.Repository, cache *redisrepo.Cache, logger *slog.Logger, cfg Config) *Service {
	if cfg.EventAnalyticsTTL <= 0 {
		cfg.EventAnalyticsTTL = 15 * time.Second
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 500
	}
	return &Service{repo: repo, cache: cache, logger: logger, cfg: cfg}
}

// Event returns the aggregate EventAnalytics (C7), cached briefly because
// it is a non-mutating full-partition scan and every hold/confirm/cancel
// already invalidates it.
func (s *Service) Event(ctx context.Context, eventID string) (domain.EventAnalytics, error) {
	const op = "service.analytics.Event"

	loader := func(ctx context.Context) (domain.EventAnalytics, error) {
		a, err := s.repo.EventAnalytics(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return domain.EventAnalytics{}, ErrEventNotFound
			}
			return domain.EventAnalytics{}, err
		}
		return a, nil
	}

	if s.cache == nil {
		a, err := loader(ctx)
		if err != nil {
			return domain.EventAnalytics{}, fmt.Errorf("%s: %w", op, err)
		}
		return a, nil
	}

	a, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyEventAnalytics(eventID), s.cfg.EventAnalyticsTTL, loader)
	if err != nil {
		return domain.EventAnalytics{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *Service) clampPage(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		return s.cfg.MaxPageSize
	}
	return limit
}

// Seats is the per-seat analytics view: every event-seat matching the
// filter, paginated in-memory.
func (s *Service) Seats(ctx context.Context, eventID string, f repository.SeatFilter, offset, limit int) (seats []domain.EventSeat, total int, err error) {
	const op = "service.analytics.Seats"

	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, 0, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	matched, err := s.repo.FilterEventSeats(ctx, eventID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return repository.Paginate(matched, offset, s.clampPage(limit)), len(matched), nil
}

// Bookings is the per-booking analytics view: every booking matching the
// filter, newest first, paginated in-memory.
func (s *Service) Bookings(ctx context.Context, eventID string, f repository.BookingFilter, offset, limit int) (bookings []domain.Booking, total int, err error) {
	const op = "service.analytics.Bookings"

	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, 0, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	matched, err := s.repo.FilterBookings(ctx, eventID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return repository.Paginate(matched, offset, s.clampPage(limit)), len(matched), nil
}

// Comprehensive bundles the aggregate, seat and booking views into one
// payload, a thin composition over the other three methods rather than new
// logic, per the supplemented-feature design.
type Comprehensive struct {
	Aggregate domain.EventAnalytics
	Seats     []domain.EventSeat
	Bookings  []domain.Booking
}

func (s *Service) Comprehensive(ctx context.Context, eventID string) (Comprehensive, error) {
	const op = "service.analytics.Comprehensive"

	agg, err := s.Event(ctx, eventID)
	if err != nil {
		return Comprehensive{}, err
	}
	seats, _, err := s.Seats(ctx, eventID, repository.SeatFilter{}, 0, s.cfg.MaxPageSize)
	if err != nil {
		return Comprehensive{}, fmt.Errorf("%s: %w", op, err)
	}
	bookings, _, err := s.Bookings(ctx, eventID, repository.BookingFilter{}, 0, s.cfg.MaxPageSize)
	if err != nil {
		return Comprehensive{}, fmt.Errorf("%s: %w", op, err)
	}
	return Comprehensive{Aggregate: agg, Seats: seats, Bookings: bookings}, nil
}
