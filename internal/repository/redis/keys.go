package redis

import "fmt"

const ns = "ticketcore:v1"

func KeyEventSummary(eventID string) string {
	return fmt.Sprintf("%s:event:%s:summary", ns, eventID)
}

func KeyEventAvailability(eventID string) string {
	return fmt.Sprintf("%s:event:%s:availability", ns, eventID)
}

func KeyEventSeatMap(eventID string) string {
	return fmt.Sprintf("%s:event:%s:seatmap", ns, eventID)
}

func KeyEventAnalytics(eventID string) string {
	return fmt.Sprintf("%s:event:%s:analytics", ns, eventID)
}
