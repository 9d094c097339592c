package tracking

import (
	"context"

	"github.com/swiftride/dispatch/internal/pkg/models"
)

// TrackingGW publishes location updates to the event bus
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/swiftride/dispatch/services/tracking TrackingGW
type TrackingGW interface {
	PublishLocationUpdate(ctx context.Context, update models.LocationUpdate) error
}
