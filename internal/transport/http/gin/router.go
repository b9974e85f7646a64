// Package httpgin is the HTTP surface spec.md §1 treats as an external
// collaborator: thin handlers that bind JSON, call a service, and map
// errors to the status codes §7 specifies.
package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/money"
	"github.com/holdline/ticketcore/internal/repository"
	redisrepo "github.com/holdline/ticketcore/internal/repository/redis"
	"github.com/holdline/ticketcore/internal/service"
	"github.com/holdline/ticketcore/internal/service/analytics"
	"github.com/holdline/ticketcore/internal/service/booking"
	"github.com/holdline/ticketcore/internal/service/catalog"
	"github.com/holdline/ticketcore/internal/service/reservation"
)

// NewRouter wires every route onto services. idem may be nil, in which case
// a hold request without idempotency protection simply runs every time; it
// is only consulted when the caller sends an Idempotency-Key header.
func NewRouter(services *service.Services, idem *redisrepo.IdempotencyStore, logger *slog.Logger, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), CORS(), LoggingMiddleware(logger))

	h := &handlers{services: services, idem: idem}

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	r.POST("/venues", h.createVenue)
	r.GET("/venues/:venue_id", h.getVenue)
	r.POST("/venues/:venue_id/seats", h.addSeats)
	r.GET("/venues/:venue_id/seats", h.listVenueSeats)

	r.POST("/users", h.createUser)
	r.GET("/users/:user_id", h.getUser)

	r.POST("/events", h.createEvent)
	r.GET("/events/:event_id", h.getEvent)
	r.GET("/events/:event_id/seats", h.listEventSeats)
	r.POST("/events/:event_id/hold", h.hold)
	r.GET("/events/:event_id/analytics", h.eventAnalytics)
	r.GET("/events/:event_id/seats/analytics", h.seatAnalytics)
	r.GET("/events/:event_id/bookings/analytics", h.bookingAnalytics)
	r.GET("/events/:event_id/comprehensive", h.comprehensive)

	r.POST("/:holding_id/confirm", h.confirm)
	r.POST("/:booking_id/cancel", h.cancel)

	return r
}

type handlers struct {
	services *service.Services
	idem     *redisrepo.IdempotencyStore
}

const idemLockTTL = 60 * time.Second

func (h *handlers) hold(c *gin.Context) {
	eventID := c.Param("event_id")

	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if h.idem == nil || idemKey == "" {
		hold, err := h.services.Reservation.Hold(c.Request.Context(), eventID, req.UserID, req.Seats)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondJSON(c, http.StatusOK, holdResponse(hold))
		return
	}

	ctx := c.Request.Context()
	storageKey := redisrepo.KeyIdemHold(eventID, idemKey)

	if cached, ok, err := h.idem.GetResult(ctx, storageKey); err == nil && ok {
		c.Header("Idempotency-Key", idemKey)
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	acquired, err := h.idem.AcquireLock(ctx, storageKey, idemLockTTL)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !acquired {
		if cached, ok, err := h.idem.GetResult(ctx, storageKey); err == nil && ok {
			c.Header("Idempotency-Key", idemKey)
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
		c.Header("Retry-After", "1")
		respondJSON(c, http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
		return
	}

	hold, err := h.services.Reservation.Hold(ctx, eventID, req.UserID, req.Seats)
	if err != nil {
		_ = h.idem.Release(ctx, storageKey)
		respondErr(c, err)
		return
	}

	resp := holdResponse(hold)
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.idem.SaveResult(ctx, storageKey, string(payload))
	} else {
		_ = h.idem.Release(ctx, storageKey)
	}
	c.Header("Idempotency-Key", idemKey)
	respondJSON(c, http.StatusOK, resp)
}

func (h *handlers) confirm(c *gin.Context) {
	holdingID := c.Param("holding_id")

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	b, err := h.services.Booking.Confirm(c.Request.Context(), holdingID, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, bookingResponse(b))
}

func (h *handlers) cancel(c *gin.Context) {
	bookingID := c.Param("booking_id")

	var req CancelRequest
	_ = c.ShouldBindJSON(&req) // body is optional; path param wins per §6

	b, err := h.services.Booking.Cancel(c.Request.Context(), bookingID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, CancelResponse{
		Message:     "booking cancelled",
		BookingID:   b.BookingID,
		EventID:     b.EventID,
		UserID:      b.UserID,
		SeatsFreed:  b.Seats,
		CancelledAt: b.CancelledAt,
	})
}

func (h *handlers) listEventSeats(c *gin.Context) {
	eventID := c.Param("event_id")

	seats, err := h.services.Catalog.ListEventSeats(c.Request.Context(), eventID)
	if err != nil {
		respondErr(c, err)
		return
	}
	writeJSONWithCache(c, http.StatusOK, eventSeatResponses(seats), "no-cache", true)
}

func (h *handlers) eventAnalytics(c *gin.Context) {
	eventID := c.Param("event_id")

	a, err := h.services.Analytics.Event(c.Request.Context(), eventID)
	if err != nil {
		respondErr(c, err)
		return
	}
	writeJSONWithCache(c, http.StatusOK, eventAnalyticsResponse(a), "no-cache", true)
}

func (h *handlers) seatAnalytics(c *gin.Context) {
	eventID := c.Param("event_id")
	offset, limit := pageParams(c)
	f := repository.SeatFilter{
		SeatType: c.Query("seat_type"),
		State:    domain.SeatState(c.Query("seat_state")),
	}

	seats, total, err := h.services.Analytics.Seats(c.Request.Context(), eventID, f, offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, PagedSeats{Seats: eventSeatResponses(seats), Total: total, Offset: offset, Limit: limit})
}

func (h *handlers) bookingAnalytics(c *gin.Context) {
	eventID := c.Param("event_id")
	offset, limit := pageParams(c)
	f := repository.BookingFilter{State: domain.BookingState(c.Query("state"))}

	bookings, total, err := h.services.Analytics.Bookings(c.Request.Context(), eventID, f, offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, PagedBookings{Bookings: bookingResponses(bookings), Total: total, Offset: offset, Limit: limit})
}

func (h *handlers) comprehensive(c *gin.Context) {
	eventID := c.Param("event_id")

	comp, err := h.services.Analytics.Comprehensive(c.Request.Context(), eventID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, ComprehensiveResponse{
		Aggregate: eventAnalyticsResponse(comp.Aggregate),
		Seats:     eventSeatResponses(comp.Seats),
		Bookings:  bookingResponses(comp.Bookings),
	})
}

func (h *handlers) createVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	v, err := h.services.Catalog.CreateVenue(c.Request.Context(), req.Name, req.City, req.Description, req.SeatTypes)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, venueResponse(v))
}

func (h *handlers) getVenue(c *gin.Context) {
	v, err := h.services.Catalog.GetVenue(c.Request.Context(), c.Param("venue_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, venueResponse(v))
}

func (h *handlers) addSeats(c *gin.Context) {
	venueID := c.Param("venue_id")

	var req AddSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	seats := make([]domain.VenueSeat, len(req.Seats))
	for i, s := range req.Seats {
		seats[i] = domain.VenueSeat{
			SeatPos:  s.Row + "-" + strconv.Itoa(s.SeatNum),
			Row:      s.Row,
			SeatNum:  s.SeatNum,
			SeatType: s.SeatType,
		}
	}
	if err := h.services.Catalog.AddSeats(c.Request.Context(), venueID, seats); err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, venueSeatResponses(seats))
}

func (h *handlers) listVenueSeats(c *gin.Context) {
	seats, err := h.services.Catalog.ListVenueSeats(c.Request.Context(), c.Param("venue_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, venueSeatResponses(seats))
}

func (h *handlers) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	u, err := h.services.Catalog.CreateUser(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, userResponse(u))
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.services.Catalog.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, userResponse(u))
}

func (h *handlers) createEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	startTime, err := parseISOTime(req.StartTime)
	if err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid start_time: " + err.Error()})
		return
	}

	prices := make(map[string]money.Amount, len(req.SeatTypePrices))
	for k, v := range req.SeatTypePrices {
		prices[k] = money.FromUnits(v)
	}

	e, err := h.services.Catalog.CreateEvent(c.Request.Context(), domain.Event{
		VenueID:        req.VenueID,
		Name:           req.Name,
		StartTime:      startTime,
		DurationMin:    req.DurationMin,
		Artists:        req.Artists,
		Tags:           req.Tags,
		Description:    req.Description,
		SeatTypePrices: prices,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, eventResponse(e))
}

func (h *handlers) getEvent(c *gin.Context) {
	e, err := h.services.Catalog.GetEvent(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondJSON(c, http.StatusOK, eventResponse(e))
}

func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return
}

func respondJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// respondErr maps a service error to the status codes §7 specifies:
// ValidationError->400, NotFound->404, Conflict->409, Gone->410, else 500.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reservation.ErrEventNotFound),
		errors.Is(err, reservation.ErrUserNotFound),
		errors.Is(err, booking.ErrEventNotFound),
		errors.Is(err, booking.ErrUserNotFound),
		errors.Is(err, booking.ErrHoldNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, analytics.ErrEventNotFound),
		errors.Is(err, catalog.ErrVenueNotFound),
		errors.Is(err, catalog.ErrUserNotFound),
		errors.Is(err, catalog.ErrEventNotFound):
		status = http.StatusNotFound

	case errors.Is(err, booking.ErrHoldExpired):
		status = http.StatusGone

	case errors.Is(err, reservation.ErrSeatsUnavailable),
		errors.Is(err, booking.ErrSeatsNotHeld),
		errors.Is(err, booking.ErrSeatsNotBooked),
		errors.Is(err, booking.ErrConcurrentWrite):
		status = http.StatusConflict

	case errors.Is(err, reservation.ErrRateLimited):
		status = http.StatusTooManyRequests

	case errors.Is(err, reservation.ErrSeatNotFound),
		errors.Is(err, booking.ErrInvalidPaymentStatus),
		errors.Is(err, booking.ErrPaymentFailed),
		errors.Is(err, booking.ErrBookingAlreadyCancelled),
		errors.Is(err, catalog.ErrMissingSeatTypePrice),
		errors.Is(err, catalog.ErrNoValidSeats),
		errors.Is(err, catalog.ErrUnknownSeatType):
		status = http.StatusBadRequest
	}

	respondJSON(c, status, ErrorResponse{Error: err.Error()})
}
