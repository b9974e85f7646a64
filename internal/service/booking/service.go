package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holdline/ticketcore/internal/clock"
	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/repository"
	redisrepo "github.com/holdline/ticketcore/internal/repository/redis"
)

type Service struct {
	repo   *repository.Repository
	cache  *redisrepo.Cache
	pubsub *redisrepo.EventsPubSub
	clock  clock.Clock
	logger *slog.Logger
}

func New(repo *repository.Repository, cache *redisrepo.Cache, pubsub *redisrepo.EventsPubSub, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.Real
	}
	return &Service{repo: repo, cache: cache, pubsub: pubsub, clock: clk, logger: logger}
}

// Confirm promotes a hold to a booking (C5.1).
//
// Parameters:
//   - ctx: request-scoped context.
//   - holdingID: the hold to confirm.
//   - payment: the externally-supplied payment verdict.
//
// Returns:
//   - domain.Booking: the created booking.
//   - error: booking.ErrInvalidPaymentStatus / ErrPaymentFailed /
//     ErrHoldNotFound / ErrEventNotFound / ErrUserNotFound / ErrHoldExpired /
//     ErrSeatsNotHeld / ErrConcurrentWrite.
func (s *Service) Confirm(ctx context.Context, holdingID string, payment domain.PaymentStatus) (domain.Booking, error) {
	const op = "service.booking.Confirm"

	b, err := s.repo.ConfirmHold(ctx, holdingID, payment, s.clock.Now(), s.logger)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidPaymentStatus):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrInvalidPaymentStatus)
		case errors.Is(err, repository.ErrPaymentFailed):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrPaymentFailed)
		case errors.Is(err, repository.ErrHoldNotFound):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrHoldNotFound)
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		case errors.Is(err, repository.ErrUserNotFound):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		case errors.Is(err, repository.ErrHoldExpired):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrHoldExpired)
		case errors.Is(err, repository.ErrSeatsNotHeld):
			return domain.Booking{}, fmt.Errorf("%s: %w: %s", op, ErrSeatsNotHeld, err)
		case errors.Is(err, repository.ErrConcurrentWrite):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrConcurrentWrite)
		default:
			return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.invalidate(ctx, b.EventID)
	return b, nil
}

// Cancel reverses a booking's seats to available (C5.2).
//
// Parameters:
//   - ctx: request-scoped context.
//   - bookingID: the booking to cancel.
//
// Returns:
//   - domain.Booking: the cancelled booking, with Seats listing what freed.
//   - error: booking.ErrBookingNotFound / ErrEventNotFound /
//     ErrBookingAlreadyCancelled / ErrSeatsNotBooked / ErrConcurrentWrite.
func (s *Service) Cancel(ctx context.Context, bookingID string) (domain.Booking, error) {
	const op = "service.booking.Cancel"

	b, err := s.repo.CancelBooking(ctx, bookingID, s.clock.Now(), s.logger)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		case errors.Is(err, repository.ErrBookingAlreadyCancelled):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrBookingAlreadyCancelled)
		case errors.Is(err, repository.ErrSeatsNotBooked):
			return domain.Booking{}, fmt.Errorf("%s: %w: %s", op, ErrSeatsNotBooked, err)
		case errors.Is(err, repository.ErrConcurrentWrite):
			return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrConcurrentWrite)
		default:
			return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.invalidate(ctx, b.EventID)
	return b, nil
}

func (s *Service) invalidate(ctx context.Context, eventID string) {
	if s.cache != nil {
		if err := s.cache.InvalidateEvent(ctx, eventID); err != nil && s.logger != nil {
			s.logger.Warn("cache invalidation failed", "event_id", eventID, "error", err)
		}
	}
	if s.pubsub != nil {
		if err := s.pubsub.PublishEventChanged(ctx, eventID); err != nil && s.logger != nil {
			s.logger.Warn("event-changed publish failed", "event_id", eventID, "error", err)
		}
	}
}
