package drivers

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// DriverRepo defines driver persistence and the availability geo index
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/swiftride/dispatch/services/drivers DriverRepo
type DriverRepo interface {
	// Postgres-backed durable driver records
	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, driverID uuid.UUID) (*models.Driver, error)
	SaveDriver(ctx context.Context, driver *models.Driver) error

	// Redis-backed availability index and position cache
	AddAvailableDriver(ctx context.Context, driverID string, location models.Location) error
	RemoveAvailableDriver(ctx context.Context, driverID string) error
	FindNearbyDrivers(ctx context.Context, near models.GeoLocation, radiusKm float64) ([]models.NearbyDriver, error)
	StoreDriverLocation(ctx context.Context, driverID string, location models.Location) error
}
