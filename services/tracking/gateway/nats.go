package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	"github.com/swiftride/dispatch/services/tracking"
)

// TrackingGW publishes location updates to JetStream
type TrackingGW struct {
	natsClient *natspkg.Client
}

// NewTrackingGW creates a new tracking gateway
func NewTrackingGW(natsClient *natspkg.Client) tracking.TrackingGW {
	return &TrackingGW{natsClient: natsClient}
}

// PublishLocationUpdate emits a location.update event
func (g *TrackingGW) PublishLocationUpdate(ctx context.Context, update models.LocationUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal location update: %w", err)
	}

	if err := g.natsClient.Publish(constants.SubjectLocationUpdate, data); err != nil {
		return fmt.Errorf("failed to publish location update: %w", err)
	}

	logger.DebugCtx(ctx, "Published location update",
		logger.String("booking_id", update.BookingID),
		logger.String("driver_id", update.DriverID))
	return nil
}
