package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// TrackingUC defines the location broadcaster: it ingests driver positions
// and fans them out to per-booking subscribers with at-most-once, latest-only
// delivery.
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/swiftride/dispatch/services/tracking TrackingUC
type TrackingUC interface {
	// IngestLocation records a driver position and, when the driver owns an
	// active booking, publishes a location.update event for that booking.
	// Stale positions are dropped silently.
	IngestLocation(ctx context.Context, driverID uuid.UUID, location models.Location) error

	// HandleLocationEvent caches the update as the booking's last known
	// position and fans it out to current subscribers.
	HandleLocationEvent(ctx context.Context, update models.LocationUpdate) error

	// Subscribe registers a subscriber for a booking's location stream.
	// Subscribing to a terminal booking delivers the last known position
	// once and no further events.
	Subscribe(ctx context.Context, bookingID uuid.UUID, subscriberID string) (*Subscription, error)

	// Unsubscribe removes one subscriber, typically on disconnect.
	Unsubscribe(bookingID uuid.UUID, subscriberID string)

	// CloseBooking drops every subscription of a terminated booking.
	CloseBooking(ctx context.Context, bookingID uuid.UUID)
}
