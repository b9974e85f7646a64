package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/holdline/ticketcore/internal/clock"
	"github.com/holdline/ticketcore/internal/config"
	"github.com/holdline/ticketcore/internal/postgres"
	"github.com/holdline/ticketcore/internal/redis"
	"github.com/holdline/ticketcore/internal/repository"
	redisrepo "github.com/holdline/ticketcore/internal/repository/redis"
	"github.com/holdline/ticketcore/internal/service"
	"github.com/holdline/ticketcore/internal/service/analytics"
	"github.com/holdline/ticketcore/internal/service/reservation"
	storepg "github.com/holdline/ticketcore/internal/store/postgres"
	httpgin "github.com/holdline/ticketcore/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// The (pk, sk, attrs jsonb) single-table store is the persistence
	// contract the reservation core is built against (§4.1); repository
	// implements C3-C8 on top of it.
	st := storepg.New(pgxPool)
	repo := repository.New(st)

	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewEventsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "ticketcore:v1:rl:hold", 10, 1*time.Minute)
	idempotency := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	services := service.NewServices(repo, cache, pubsub, limiter, clock.Real, logger, service.Config{
		Reservation: reservation.Config{RateLimitPerMinute: 10},
		Analytics:   analytics.Config{},
	})

	router := httpgin.NewRouter(services, idempotency, logger, cfg.Debug)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
