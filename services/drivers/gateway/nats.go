package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	"github.com/swiftride/dispatch/services/drivers"
)

// DriverGW publishes driver registry events to JetStream
type DriverGW struct {
	natsClient *natspkg.Client
}

// NewDriverGW creates a new driver gateway
func NewDriverGW(natsClient *natspkg.Client) drivers.DriverGW {
	return &DriverGW{natsClient: natsClient}
}

// PublishPresence emits a driver.presence event
func (g *DriverGW) PublishPresence(ctx context.Context, event models.PresenceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal presence event: %w", err)
	}

	if err := g.natsClient.Publish(constants.SubjectDriverPresence, data); err != nil {
		return fmt.Errorf("failed to publish presence event: %w", err)
	}

	logger.DebugCtx(ctx, "Published driver presence event",
		logger.String("driver_id", event.DriverID),
		logger.Bool("online", event.Online))
	return nil
}
