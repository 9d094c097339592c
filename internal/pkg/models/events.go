package models

import "time"

// BookingEvent is the envelope published for every booking lifecycle change
type BookingEvent struct {
	BookingID  string        `json:"booking_id"`
	CustomerID string        `json:"customer_id"`
	DriverID   string        `json:"driver_id,omitempty"`
	Status     BookingStatus `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// AssignmentEvent carries the accept deadline so driver clients can run
// their countdown off the server-issued value.
type AssignmentEvent struct {
	BookingID      string    `json:"booking_id"`
	CustomerID     string    `json:"customer_id"`
	DriverID       string    `json:"driver_id"`
	Pickup         Location  `json:"pickup"`
	Drop           Location  `json:"drop"`
	AssignedAt     time.Time `json:"assigned_at"`
	AcceptDeadline time.Time `json:"accept_deadline"`
}

// DriverActionRequest is the payload for accept/decline/start/complete commands
type DriverActionRequest struct {
	BookingID string `json:"booking_id"`
	DriverID  string `json:"driver_id"`
}

// CancelRequest is the customer cancellation payload
type CancelRequest struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
}

// SubscribeRequest asks for live tracking events of a booking
type SubscribeRequest struct {
	BookingID string `json:"booking_id"`
}
