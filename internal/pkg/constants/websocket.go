package constants

// WebSocket event types
const (
	// Common events
	EventError = "error"

	// Driver commands
	EventPresenceUpdate = "presence_update"
	EventLocationUpdate = "location_update"
	EventBookingAccept  = "booking_accept"
	EventBookingDecline = "booking_decline"
	EventRideStart      = "ride_start"
	EventRideComplete   = "ride_complete"

	// Customer commands
	EventBookingCancel    = "booking_cancel"
	EventSubscribeBooking = "subscribe_booking"

	// Server pushes
	EventBookingAssigned  = "booking_assigned"
	EventBookingAccepted  = "booking_accepted"
	EventBookingDeclined  = "booking_declined"
	EventBookingStarted   = "booking_started"
	EventBookingCompleted = "booking_completed"
	EventBookingCancelled = "booking_cancelled"
	EventDriverLocation   = "driver_location"
)

// Client roles carried in JWT claims
const (
	RoleDriver   = "driver"
	RoleCustomer = "customer"
)

// WebSocket error codes
const (
	ErrorInvalidFormat    = "invalid_format"
	ErrorValidationFailed = "validation_failed"
	ErrorUnauthorized     = "unauthorized"
	ErrorInternalError    = "internal_error"
	ErrorNotYourBooking    = "not_your_booking"
	ErrorBookingNotFound   = "booking_not_found"
	ErrorDriverBusy        = "driver_busy"
	ErrorStaleState        = "stale_state"
	ErrorInvalidTransition = "invalid_transition"
)
