package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/database"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/internal/utils"
	"github.com/swiftride/dispatch/services/drivers"
)

// DriverRepo persists driver records in Postgres and maintains the Redis
// availability geo index and position cache.
type DriverRepo struct {
	cfg   *models.Config
	db    *database.PostgresClient
	redis *database.RedisClient
}

// NewDriverRepo creates a new driver repository
func NewDriverRepo(cfg *models.Config, db *database.PostgresClient, redis *database.RedisClient) drivers.DriverRepo {
	return &DriverRepo{
		cfg:   cfg,
		db:    db,
		redis: redis,
	}
}

// CreateDriver inserts a new driver record
func (r *DriverRepo) CreateDriver(ctx context.Context, driver *models.Driver) error {
	query := `
		INSERT INTO drivers (id, fullname, vehicle_plate, presence, current_booking_id, updated_at)
		VALUES (:id, :fullname, :vehicle_plate, :presence, :current_booking_id, :updated_at)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, driver)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

// GetDriver loads a driver record by id
func (r *DriverRepo) GetDriver(ctx context.Context, driverID uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	query := `
		SELECT id, fullname, vehicle_plate, presence, current_booking_id, updated_at
		FROM drivers
		WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, &driver, query, driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUnknownDriver
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return &driver, nil
}

// SaveDriver writes the driver's mutable registry state
func (r *DriverRepo) SaveDriver(ctx context.Context, driver *models.Driver) error {
	query := `
		UPDATE drivers
		SET presence = :presence,
		    current_booking_id = :current_booking_id,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, driver)
	if err != nil {
		return fmt.Errorf("failed to save driver: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check save result: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrUnknownDriver
	}
	return nil
}

// AddAvailableDriver adds the driver to the availability set and geo index
func (r *DriverRepo) AddAvailableDriver(ctx context.Context, driverID string, location models.Location) error {
	if err := r.redis.SAdd(ctx, constants.KeyAvailableDrivers, driverID); err != nil {
		return fmt.Errorf("failed to add driver to availability set: %w", err)
	}

	if err := r.redis.GeoAdd(ctx, constants.KeyDriverGeo, location.Longitude, location.Latitude, driverID); err != nil {
		return fmt.Errorf("failed to add driver to geo index: %w", err)
	}
	return nil
}

// RemoveAvailableDriver removes the driver from the availability set and geo index
func (r *DriverRepo) RemoveAvailableDriver(ctx context.Context, driverID string) error {
	if err := r.redis.SRem(ctx, constants.KeyAvailableDrivers, driverID); err != nil {
		return fmt.Errorf("failed to remove driver from availability set: %w", err)
	}

	if err := r.redis.ZRem(ctx, constants.KeyDriverGeo, driverID); err != nil {
		return fmt.Errorf("failed to remove driver from geo index: %w", err)
	}
	return nil
}

// FindNearbyDrivers queries the geo index for available drivers within the
// radius, nearest first.
func (r *DriverRepo) FindNearbyDrivers(ctx context.Context, near models.GeoLocation, radiusKm float64) ([]models.NearbyDriver, error) {
	locations, err := r.redis.GeoRadius(ctx, constants.KeyDriverGeo, near.Longitude, near.Latitude, radiusKm, "km")
	if err != nil {
		return nil, fmt.Errorf("failed to query geo index: %w", err)
	}

	result := make([]models.NearbyDriver, 0, len(locations))
	for _, loc := range locations {
		// Membership in the availability set is the source of truth, the geo
		// index may briefly hold removed drivers.
		isAvailable, err := r.redis.SIsMember(ctx, constants.KeyAvailableDrivers, loc.Name)
		if err != nil || !isAvailable {
			continue
		}

		result = append(result, models.NearbyDriver{
			ID: loc.Name,
			Location: models.Location{
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			},
			Distance: loc.Dist,
		})
	}
	return result, nil
}

// StoreDriverLocation caches the driver's last known position
func (r *DriverRepo) StoreDriverLocation(ctx context.Context, driverID string, location models.Location) error {
	key := fmt.Sprintf(constants.KeyDriverLocation, driverID)
	fields := map[string]interface{}{
		constants.FieldLatitude:  strconv.FormatFloat(location.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(location.Longitude, 'f', -1, 64),
		constants.FieldGeohash:   utils.EncodeLocation(location, constants.GeohashPrecision),
		constants.FieldTimestamp: strconv.FormatInt(location.Timestamp.UnixMilli(), 10),
	}

	if err := r.redis.HMSet(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store driver location: %w", err)
	}
	return r.redis.Expire(ctx, key, r.cfg.Tracking.LocationTTL)
}
