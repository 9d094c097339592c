package constants

// NATS subjects
const (
	// Booking lifecycle
	SubjectBookingCreated   = "booking.created"
	SubjectBookingAssigned  = "booking.assigned"
	SubjectBookingAccepted  = "booking.accepted"
	SubjectBookingDeclined  = "booking.declined"
	SubjectBookingStarted   = "booking.started"
	SubjectBookingCompleted = "booking.completed"
	SubjectBookingCancelled = "booking.cancelled"

	// Driver registry
	SubjectDriverPresence = "driver.presence"

	// Live tracking
	SubjectLocationUpdate = "location.update"
)

// JetStream stream names
const (
	StreamBooking  = "BOOKING_STREAM"
	StreamDriver   = "DRIVER_STREAM"
	StreamLocation = "LOCATION_STREAM"
)
