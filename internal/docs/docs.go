// Package docs registers the swagger spec ticketcore serves at /swagger/*any.
// A real build would generate this file with `swag init`; the generator
// isn't available here, so it is hand-authored to the same shape swag
// itself emits (swag.Spec + swag.Register in an init()), covering the core
// endpoints §6 specifies.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"swagger": "2.0",
	"info": {
		"title": "ticketcore API",
		"description": "Event ticketing backend: seat holds, bookings and analytics.",
		"version": "1.0"
	},
	"basePath": "/",
	"paths": {
		"/events/{event_id}/hold": {
			"post": {"summary": "Create a hold across one or more seats"}
		},
		"/{holding_id}/confirm": {
			"post": {"summary": "Confirm a hold into a booking"}
		},
		"/{booking_id}/cancel": {
			"post": {"summary": "Cancel a booking"}
		},
		"/events/{event_id}/seats": {
			"get": {"summary": "List an event's seats and their state"}
		},
		"/events/{event_id}/analytics": {
			"get": {"summary": "Aggregate analytics for an event"}
		},
		"/events": {
			"post": {"summary": "Create an event and provision its seats"}
		}
	}
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ticketcore API",
	Description:      "Event ticketing backend: seat holds, bookings and analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
