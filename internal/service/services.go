// Package service assembles the reservation core's service seams
// (reservation, booking, analytics, catalog) behind one Services struct, the
// same shape the teacher's service.Services aggregate uses.
package service

import (
	"log/slog"

	"github.com/holdline/ticketcore/internal/clock"
	"github.com/holdline/ticketcore/internal/repository"
	redisrepo "github.com/holdline/ticketcore/internal/repository/redis"
	"github.com/holdline/ticketcore/internal/service/analytics"
	"github.com/holdline/ticketcore/internal/service/booking"
	"github.com/holdline/ticketcore/internal/service/catalog"
	"github.com/holdline/ticketcore/internal/service/reservation"
)

type Services struct {
	Reservation *reservation.Service
	Booking     *booking.Service
	Analytics   *analytics.Service
	Catalog     *catalog.Service
}

type Config struct {
	Reservation reservation.Config
	Analytics   analytics.Config
}

func NewServices(
	repo *repository.Repository,
	cache *redisrepo.Cache,
	pubsub *redisrepo.EventsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	clk clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Reservation: reservation.New(repo, cache, pubsub, limiter, clk, logger, cfg.Reservation),
		Booking:     booking.New(repo, cache, pubsub, clk, logger),
		Analytics:   analytics.New(repo, cache, logger, cfg.Analytics),
		Catalog:     catalog.New(repo, clk, logger),
	}
}
