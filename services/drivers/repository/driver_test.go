package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/database"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/drivers"
)

func setupDriverRepo(t *testing.T) (drivers.DriverRepo, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	mr := miniredis.RunT(t)
	redisClient := database.NewRedisClientFromClient(redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	}))

	cfg := &models.Config{
		Tracking: models.TrackingConfig{LocationTTL: 5 * time.Minute},
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewDriverRepo(cfg, database.NewPostgresClientFromDB(db), redisClient)
	return repo, mock, mr
}

func TestCreateDriver_Success(t *testing.T) {
	repo, mock, _ := setupDriverRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO drivers")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	driver := &models.Driver{
		ID:           uuid.New(),
		FullName:     "Budi Santoso",
		VehiclePlate: "B 1234 XYZ",
		Presence:     models.PresenceOffline,
		UpdatedAt:    models.Now(),
	}
	err := repo.CreateDriver(context.Background(), driver)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDriver_Success(t *testing.T) {
	repo, mock, _ := setupDriverRepo(t)

	driverID := uuid.New()
	bookingID := uuid.New()
	now := models.Now()

	rows := sqlmock.NewRows([]string{
		"id", "fullname", "vehicle_plate", "presence", "current_booking_id", "updated_at",
	}).AddRow(driverID, "Budi Santoso", "B 1234 XYZ", models.PresenceOnline, bookingID, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, fullname, vehicle_plate")).
		WithArgs(driverID).
		WillReturnRows(rows)

	driver, err := repo.GetDriver(context.Background(), driverID)
	require.NoError(t, err)
	assert.Equal(t, driverID, driver.ID)
	assert.Equal(t, models.PresenceOnline, driver.Presence)
	require.NotNil(t, driver.CurrentBookingID)
	assert.Equal(t, bookingID, *driver.CurrentBookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDriver_NotFound(t *testing.T) {
	repo, mock, _ := setupDriverRepo(t)

	driverID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, fullname, vehicle_plate")).
		WithArgs(driverID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetDriver(context.Background(), driverID)
	assert.ErrorIs(t, err, apperrors.ErrUnknownDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDriver_NotFound(t *testing.T) {
	repo, mock, _ := setupDriverRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE drivers")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	driver := &models.Driver{ID: uuid.New(), Presence: models.PresenceOnline, UpdatedAt: models.Now()}
	err := repo.SaveDriver(context.Background(), driver)
	assert.ErrorIs(t, err, apperrors.ErrUnknownDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityIndexRoundTrip(t *testing.T) {
	repo, _, mr := setupDriverRepo(t)
	ctx := context.Background()

	driverID := uuid.New().String()
	location := models.Location{Latitude: -6.175392, Longitude: 106.827153}

	require.NoError(t, repo.AddAvailableDriver(ctx, driverID, location))
	assert.True(t, mr.Exists(constants.KeyAvailableDrivers))
	assert.True(t, mr.Exists(constants.KeyDriverGeo))

	nearby, err := repo.FindNearbyDrivers(ctx, models.GeoLocation{
		Latitude:  -6.176,
		Longitude: 106.828,
	}, 5)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, driverID, nearby[0].ID)
	assert.Less(t, nearby[0].Distance, 1.0)

	require.NoError(t, repo.RemoveAvailableDriver(ctx, driverID))
	nearby, err = repo.FindNearbyDrivers(ctx, models.GeoLocation{
		Latitude:  -6.176,
		Longitude: 106.828,
	}, 5)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestFindNearbyDrivers_FiltersNonMembers(t *testing.T) {
	repo, _, mr := setupDriverRepo(t)
	ctx := context.Background()

	member := uuid.New().String()
	ghost := uuid.New().String()
	location := models.Location{Latitude: -6.175392, Longitude: 106.827153}

	require.NoError(t, repo.AddAvailableDriver(ctx, member, location))
	require.NoError(t, repo.AddAvailableDriver(ctx, ghost, location))
	// The ghost left the availability set but lingers in the geo index.
	mr.SRem(constants.KeyAvailableDrivers, ghost)

	nearby, err := repo.FindNearbyDrivers(ctx, models.GeoLocation{
		Latitude:  -6.175392,
		Longitude: 106.827153,
	}, 5)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, member, nearby[0].ID)
}

func TestStoreDriverLocation(t *testing.T) {
	repo, _, mr := setupDriverRepo(t)
	ctx := context.Background()

	driverID := uuid.New().String()
	location := models.Location{
		Latitude:  -6.175392,
		Longitude: 106.827153,
		Timestamp: models.Now(),
	}
	require.NoError(t, repo.StoreDriverLocation(ctx, driverID, location))

	key := fmt.Sprintf(constants.KeyDriverLocation, driverID)
	assert.True(t, mr.Exists(key))
	assert.NotEmpty(t, mr.HGet(key, constants.FieldLatitude))
	assert.NotEmpty(t, mr.HGet(key, constants.FieldGeohash))
	assert.Len(t, mr.HGet(key, constants.FieldGeohash), int(constants.GeohashPrecision))

	ttl := mr.TTL(key)
	assert.Equal(t, 5*time.Minute, ttl)
}
