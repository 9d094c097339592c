package drivers

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// DriverUC defines the driver registry business logic: live presence,
// last known position and the current reservation of every driver.
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/swiftride/dispatch/services/drivers DriverUC
type DriverUC interface {
	// RegisterDriver adds a driver to the registry and persists it.
	RegisterDriver(ctx context.Context, driver *models.Driver) error

	// GetDriver returns a snapshot of the driver's registry state.
	GetDriver(ctx context.Context, driverID uuid.UUID) (*models.Driver, error)

	// SetPresence toggles a driver online or offline. Going offline while
	// holding an active booking fails with ErrDriverBusy.
	SetPresence(ctx context.Context, driverID uuid.UUID, online bool) error

	// UpdatePosition records a driver position. Updates older than the last
	// recorded one are dropped with ErrStaleUpdate.
	UpdatePosition(ctx context.Context, driverID uuid.UUID, location models.Location) error

	// FindAvailable returns online, unreserved drivers. With a query point the
	// result is nearest-first within the configured radius, ties broken by
	// driver id ascending.
	FindAvailable(ctx context.Context, near *models.GeoLocation) ([]models.NearbyDriver, error)

	// Reserve claims the driver for a booking with compare-and-set semantics.
	Reserve(ctx context.Context, driverID, bookingID uuid.UUID) error

	// Release clears the driver's reservation with compare-and-set semantics:
	// only the named booking's claim is cleared. Releasing an unreserved
	// driver, or one the given booking no longer holds, is a no-op.
	Release(ctx context.Context, driverID, bookingID uuid.UUID) error
}
