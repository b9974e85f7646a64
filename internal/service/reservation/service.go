package reservation

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

// Config tunes the ambient behavior around the Hold Manager; the hold TTL
// itself is fixed at clock.DefaultHoldTTL per §4.4 and is not configurable.
type Config struct {
	// RateLimitPerMinute caps hold attempts per user; 0 disables limiting.
	RateLimitPerMinute int
}

type Service struct {
	repo    *repository.Repository
	cache   *redisrepo.Cache
	pubsub  *redisrepo.EventsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config
}

func New(
	repo *repository.Repository,
	cache *redisrepo.Cache,
	pubsub *redisrepo.EventsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	clk clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if clk == nil {
		clk = clock.Real
	}
	return &Service{repo: repo, cache: cache, pubsub: pubsub, limiter: limiter, clock: clk, logger: logger, cfg: cfg}
}

// Hold creates a hold across the requested seats (C4). Rate limiting is
// per-user and best-effort: a limiter outage never blocks a hold attempt,
// it only fails open with a logged warning.
//
// Parameters:
//   - ctx: request-scoped context.
//   - eventID: the event the seats belong to.
//   - userID: the user requesting the hold.
//   - seats: requested seat_pos values; deduplicated by the repository.
//
// Returns:
//   - domain.Hold: the created hold (HoldingID == "" for an empty request).
//   - error: reservation.ErrEventNotFound / ErrUserNotFound / ErrSeatNotFound
//     / ErrSeatsUnavailable / ErrRateLimited.
func (s *Service) Hold(ctx context.Context, eventID, userID string, seats []string) (domain.Hold, error) {
	const op = "service.reservation.Hold"

	if s.limiter != nil && s.cfg.RateLimitPerMinute > 0 {
		ok, _, retry, err := s.limiter.Allow(ctx, userID)
		if err != nil && s.logger != nil {
			s.logger.Warn("rate limiter unavailable, failing open", "error", err)
		}
		if err == nil && !ok {
			return domain.Hold{}, fmt.Errorf("%s: %w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	hold, err := s.repo.HoldSeats(ctx, eventID, userID, seats, s.clock.Now(), s.logger)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.Hold{}, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		case errors.Is(err, repository.ErrUserNotFound):
			return domain.Hold{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		case errors.Is(err, repository.ErrSeatNotFound):
			return domain.Hold{}, fmt.Errorf("%s: %w: %s", op, ErrSeatNotFound, err)
		case errors.Is(err, repository.ErrSeatsUnavailable):
			return domain.Hold{}, fmt.Errorf("%s: %w: %s", op, ErrSeatsUnavailable, err)
		default:
			return domain.Hold{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if hold.HoldingID != "" {
		s.invalidate(ctx, eventID)
	}
	return hold, nil
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
