package tracking

import (
	"context"

	"github.com/swiftride/dispatch/internal/pkg/models"
)

// TrackingRepo caches the last known position per booking
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/swiftride/dispatch/services/tracking TrackingRepo
type TrackingRepo interface {
	StoreBookingLocation(ctx context.Context, update models.LocationUpdate) error

	// GetBookingLocation returns the cached position, or nil when none is
	// known (expired or never written).
	GetBookingLocation(ctx context.Context, bookingID string) (*models.LocationUpdate, error)
}
