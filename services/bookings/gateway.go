package bookings

import (
	"context"

	"github.com/swiftride/dispatch/internal/pkg/models"
)

// BookingGW publishes booking lifecycle events to the event bus
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/swiftride/dispatch/services/bookings BookingGW
type BookingGW interface {
	// PublishBookingCreated announces a new pending booking so the match
	// coordinator picks it up.
	PublishBookingCreated(ctx context.Context, booking *models.Booking) error
}
