package repository

import (
	"time"

	"github.com/holdline/ticketcore/internal/domain"
	"github.com/holdline/ticketcore/internal/money"
)

func venueAttrs(v domain.Venue) map[string]any {
	return map[string]any{
		"name":        v.Name,
		"city":        v.City,
		"description": v.Description,
		"seat_types":  v.SeatTypes,
		"created_at":  v.CreatedAt,
	}
}

func venueFromAttrs(id string, a map[string]any) domain.Venue {
	return domain.Venue{
		ID:          id,
		Name:        str(a["name"]),
		City:        str(a["city"]),
		Description: str(a["description"]),
		SeatTypes:   strSlice(a["seat_types"]),
		CreatedAt:   asTime(a["created_at"]),
	}
}

func venueSeatAttrs(s domain.VenueSeat) map[string]any {
	return map[string]any{
		"row":       s.Row,
		"seat_num":  s.SeatNum,
		"seat_type": s.SeatType,
	}
}

func venueSeatFromAttrs(venueID, seatPos string, a map[string]any) domain.VenueSeat {
	return domain.VenueSeat{
		VenueID:  venueID,
		SeatPos:  seatPos,
		Row:      str(a["row"]),
		SeatNum:  asInt(a["seat_num"]),
		SeatType: str(a["seat_type"]),
	}
}

func userAttrs(u domain.User) map[string]any {
	return map[string]any{
		"email":      u.Email,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
	}
}

func userFromAttrs(id string, a map[string]any) domain.User {
	return domain.User{
		ID:        id,
		Email:     str(a["email"]),
		Phone:     str(a["phone"]),
		CreatedAt: asTime(a["created_at"]),
	}
}

func eventAttrs(e domain.Event) map[string]any {
	prices := make(map[string]any, len(e.SeatTypePrices))
	for k, v := range e.SeatTypePrices {
		prices[k] = int64(v)
	}
	return map[string]any{
		"venue_id":            e.VenueID,
		"name":                e.Name,
		"start_time":          e.StartTime,
		"duration_min":        e.DurationMin,
		"artists":             e.Artists,
		"tags":                e.Tags,
		"description":         e.Description,
		"seat_type_prices":    prices,
		"hold_attempts":       e.HoldAttempts,
		"successful_bookings": e.SuccessfulBookings,
		"cancellations":       e.Cancellations,
		"seats_sold":          e.SeatsSold,
		"created_at":          e.CreatedAt,
	}
}

func eventFromAttrs(id string, a map[string]any) domain.Event {
	prices := map[string]money.Amount{}
	if m, ok := a["seat_type_prices"].(map[string]any); ok {
		for k, v := range m {
			prices[k] = money.Amount(asInt64(v))
		}
	}
	return domain.Event{
		ID:                 id,
		VenueID:            str(a["venue_id"]),
		Name:               str(a["name"]),
		StartTime:          asTime(a["start_time"]),
		DurationMin:        asInt(a["duration_min"]),
		Artists:            strSlice(a["artists"]),
		Tags:               strSlice(a["tags"]),
		Description:        str(a["description"]),
		SeatTypePrices:     prices,
		HoldAttempts:       asInt64(a["hold_attempts"]),
		SuccessfulBookings: asInt64(a["successful_bookings"]),
		Cancellations:      asInt64(a["cancellations"]),
		SeatsSold:          asInt64(a["seats_sold"]),
		CreatedAt:          asTime(a["created_at"]),
	}
}

func eventSeatAttrs(s domain.EventSeat) map[string]any {
	return map[string]any{
		"row":        s.Row,
		"seat_num":   s.SeatNum,
		"seat_type":  s.SeatType,
		"seat_state": string(s.State),
		"booking_id": s.BookingID,
		"holding_id": s.HoldingID,
		"hold_ttl":   s.HoldTTL,
		"price":      int64(s.Price),
		"updated_at": s.UpdatedAt,
	}
}

func eventSeatFromAttrs(eventID, seatPos string, a map[string]any) domain.EventSeat {
	return domain.EventSeat{
		EventID:   eventID,
		SeatPos:   seatPos,
		Row:       str(a["row"]),
		SeatNum:   asInt(a["seat_num"]),
		SeatType:  str(a["seat_type"]),
		State:     domain.SeatState(str(a["seat_state"])),
		BookingID: str(a["booking_id"]),
		HoldingID: str(a["holding_id"]),
		HoldTTL:   asInt64(a["hold_ttl"]),
		Price:     money.Amount(asInt64(a["price"])),
		UpdatedAt: asTime(a["updated_at"]),
	}
}

func holdAttrs(h domain.Hold) map[string]any {
	return map[string]any{
		"holding_id": h.HoldingID,
		"user_id":    h.UserID,
		"seats":      h.Seats,
		"created_at": h.CreatedAt,
		"expires_at": h.ExpiresAt,
		"ttl":        h.TTLSecs,
	}
}

func holdFromAttrs(eventID string, a map[string]any) domain.Hold {
	return domain.Hold{
		EventID:   eventID,
		HoldingID: str(a["holding_id"]),
		UserID:    str(a["user_id"]),
		Seats:     strSlice(a["seats"]),
		CreatedAt: asTime(a["created_at"]),
		ExpiresAt: asTime(a["expires_at"]),
		TTLSecs:   asInt64(a["ttl"]),
	}
}

func bookingAttrs(b domain.Booking) map[string]any {
	return map[string]any{
		"booking_id":     b.BookingID,
		"event_id":       b.EventID,
		"user_id":        b.UserID,
		"seats":          b.Seats,
		"booking_date":   b.BookingDate,
		"state":          string(b.State),
		"payment_status": string(b.PaymentStatus),
		"cancelled_at":   b.CancelledAt,
	}
}

func bookingFromAttrs(a map[string]any) domain.Booking {
	return domain.Booking{
		EventID:       str(a["event_id"]),
		BookingID:     str(a["booking_id"]),
		BookingDate:   asTime(a["booking_date"]),
		UserID:        str(a["user_id"]),
		Seats:         strSlice(a["seats"]),
		State:         domain.BookingState(str(a["state"])),
		PaymentStatus: domain.PaymentStatus(str(a["payment_status"])),
		CancelledAt:   asTime(a["cancelled_at"]),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}

func strSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			out[i] = str(e)
		}
		return out
	default:
		return nil
	}
}
