package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	"github.com/swiftride/dispatch/services/bookings"
)

// BookingGW publishes booking lifecycle events to JetStream
type BookingGW struct {
	natsClient *natspkg.Client
}

// NewBookingGW creates a new booking gateway
func NewBookingGW(natsClient *natspkg.Client) bookings.BookingGW {
	return &BookingGW{natsClient: natsClient}
}

// PublishBookingCreated announces a new pending booking
func (g *BookingGW) PublishBookingCreated(ctx context.Context, booking *models.Booking) error {
	event := models.BookingEvent{
		BookingID:  booking.ID.String(),
		CustomerID: booking.CustomerID.String(),
		Status:     booking.Status,
		Timestamp:  booking.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking created event: %w", err)
	}

	if err := g.natsClient.Publish(constants.SubjectBookingCreated, data); err != nil {
		return fmt.Errorf("failed to publish booking created event: %w", err)
	}

	logger.DebugCtx(ctx, "Published booking created event",
		logger.String("booking_id", event.BookingID))
	return nil
}
