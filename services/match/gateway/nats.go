package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	"github.com/swiftride/dispatch/services/match"
)

// MatchGW publishes coordinator events to JetStream
type MatchGW struct {
	natsClient *natspkg.Client
}

// NewMatchGW creates a new match gateway
func NewMatchGW(natsClient *natspkg.Client) match.MatchGW {
	return &MatchGW{natsClient: natsClient}
}

// PublishAssignment emits booking.assigned
func (g *MatchGW) PublishAssignment(ctx context.Context, event models.AssignmentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment event: %w", err)
	}

	if err := g.natsClient.Publish(constants.SubjectBookingAssigned, data); err != nil {
		return fmt.Errorf("failed to publish assignment event: %w", err)
	}

	logger.DebugCtx(ctx, "Published assignment event",
		logger.String("booking_id", event.BookingID),
		logger.String("driver_id", event.DriverID))
	return nil
}

// PublishBookingEvent emits a lifecycle event on the given subject
func (g *MatchGW) PublishBookingEvent(ctx context.Context, subject string, event models.BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	if err := g.natsClient.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish booking event to %s: %w", subject, err)
	}

	logger.DebugCtx(ctx, "Published booking lifecycle event",
		logger.String("subject", subject),
		logger.String("booking_id", event.BookingID))
	return nil
}
