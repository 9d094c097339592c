package drivers

import (
	"context"

	"github.com/swiftride/dispatch/internal/pkg/models"
)

// DriverGW publishes driver registry events to the event bus
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/swiftride/dispatch/services/drivers DriverGW
type DriverGW interface {
	// PublishPresence emits a driver.presence event so the match coordinator
	// can re-trigger matching when a driver comes online.
	PublishPresence(ctx context.Context, event models.PresenceEvent) error
}
