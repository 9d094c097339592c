package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/drivers"
	"github.com/swiftride/dispatch/services/drivers/mocks"
)

func newRegistryForTest(t *testing.T) (drivers.DriverUC, *mocks.MockDriverRepo, *mocks.MockDriverGW) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDriverRepo(ctrl)
	gw := mocks.NewMockDriverGW(ctrl)

	cfg := &models.Config{
		Match: models.MatchConfig{SearchRadiusKm: 5},
	}
	return NewDriverUC(cfg, repo, gw), repo, gw
}

func registerDriver(t *testing.T, uc drivers.DriverUC, repo *mocks.MockDriverRepo) *models.Driver {
	t.Helper()
	repo.EXPECT().CreateDriver(gomock.Any(), gomock.Any()).Return(nil)

	driver := &models.Driver{
		FullName:     "Budi Santoso",
		VehiclePlate: "B 1234 XYZ",
	}
	require.NoError(t, uc.RegisterDriver(context.Background(), driver))
	return driver
}

func TestRegisterDriverStartsOffline(t *testing.T) {
	uc, repo, _ := newRegistryForTest(t)

	driver := registerDriver(t, uc, repo)
	assert.NotEqual(t, uuid.Nil, driver.ID)

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOffline, loaded.Presence)
	assert.Nil(t, loaded.CurrentBookingID)
}

func TestGetDriverUnknown(t *testing.T) {
	uc, repo, _ := newRegistryForTest(t)

	driverID := uuid.New()
	repo.EXPECT().GetDriver(gomock.Any(), driverID).Return(nil, apperrors.ErrUnknownDriver)

	_, err := uc.GetDriver(context.Background(), driverID)
	assert.ErrorIs(t, err, apperrors.ErrUnknownDriver)
}

func TestSetPresenceOnline(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil)
	// No position yet, so the driver is not added to the geo index.
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), driver.ID.String()).Return(nil)
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.SetPresence(context.Background(), driver.ID, true))

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOnline, loaded.Presence)
}

func TestSetPresenceOfflineWhileBusy(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), driver.ID.String()).Return(nil).Times(2)
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.SetPresence(context.Background(), driver.ID, true))
	require.NoError(t, uc.Reserve(context.Background(), driver.ID, uuid.New()))

	err := uc.SetPresence(context.Background(), driver.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrDriverBusy)
}

func TestSetPresenceRollbackOnPersistenceFailure(t *testing.T) {
	uc, repo, _ := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(assert.AnError)

	err := uc.SetPresence(context.Background(), driver.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOffline, loaded.Presence)
}

func TestUpdatePositionDropsOutOfOrder(t *testing.T) {
	uc, repo, _ := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	now := models.Now()
	repo.EXPECT().StoreDriverLocation(gomock.Any(), driver.ID.String(), gomock.Any()).Return(nil)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), driver.ID.String()).Return(nil)

	fresh := models.Location{Latitude: -6.17, Longitude: 106.82, Timestamp: now}
	require.NoError(t, uc.UpdatePosition(context.Background(), driver.ID, fresh))

	// Arrives later over the network but was sampled earlier.
	stale := models.Location{Latitude: -6.18, Longitude: 106.83, Timestamp: now.Add(-time.Second)}
	err := uc.UpdatePosition(context.Background(), driver.ID, stale)
	assert.ErrorIs(t, err, apperrors.ErrStaleUpdate)

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Position)
	assert.Equal(t, fresh.Latitude, loaded.Position.Latitude)
}

func TestReserveCompareAndSet(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), driver.ID.String()).Return(nil).AnyTimes()
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.SetPresence(context.Background(), driver.ID, true))

	bookingID := uuid.New()
	require.NoError(t, uc.Reserve(context.Background(), driver.ID, bookingID))

	// A concurrent match pass loses the claim.
	err := uc.Reserve(context.Background(), driver.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CurrentBookingID)
	assert.Equal(t, bookingID, *loaded.CurrentBookingID)
}

func TestReserveOfflineDriver(t *testing.T) {
	uc, repo, _ := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	err := uc.Reserve(context.Background(), driver.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)
}

func TestReleaseRoundTrip(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), driver.ID.String()).Return(nil).AnyTimes()
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil)

	bookingID := uuid.New()
	require.NoError(t, uc.SetPresence(context.Background(), driver.ID, true))
	require.NoError(t, uc.Reserve(context.Background(), driver.ID, bookingID))
	require.NoError(t, uc.Release(context.Background(), driver.ID, bookingID))

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.CurrentBookingID)
	assert.True(t, loaded.Available())

	// Releasing an unreserved driver is a no-op.
	require.NoError(t, uc.Release(context.Background(), driver.ID, bookingID))
}

func TestReleaseIgnoresSupersededBooking(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	driver := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), driver.ID.String()).Return(nil).AnyTimes()
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.SetPresence(context.Background(), driver.ID, true))

	current := uuid.New()
	require.NoError(t, uc.Reserve(context.Background(), driver.ID, current))

	// A late release for an older booking must not clear the current claim.
	require.NoError(t, uc.Release(context.Background(), driver.ID, uuid.New()))

	loaded, err := uc.GetDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CurrentBookingID)
	assert.Equal(t, current, *loaded.CurrentBookingID)
	assert.False(t, loaded.Available())
}

func TestFindAvailableWithoutQueryPoint(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	online := registerDriver(t, uc, repo)
	offline := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), online.ID.String()).Return(nil)
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.SetPresence(context.Background(), online.ID, true))

	result, err := uc.FindAvailable(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, online.ID.String(), result[0].ID)
	assert.NotEqual(t, offline.ID.String(), result[0].ID)
}

func TestFindAvailableFiltersLaggingGeoIndex(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	free := registerDriver(t, uc, repo)
	busy := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	require.NoError(t, uc.SetPresence(context.Background(), free.ID, true))
	require.NoError(t, uc.SetPresence(context.Background(), busy.ID, true))
	require.NoError(t, uc.Reserve(context.Background(), busy.ID, uuid.New()))

	near := models.GeoLocation{Latitude: -6.175392, Longitude: 106.827153}
	// The geo index still returns the reserved driver.
	repo.EXPECT().FindNearbyDrivers(gomock.Any(), near, 5.0).Return([]models.NearbyDriver{
		{ID: busy.ID.String(), Distance: 0.3},
		{ID: free.ID.String(), Distance: 1.2},
	}, nil)

	result, err := uc.FindAvailable(context.Background(), &near)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, free.ID.String(), result[0].ID)
}

func TestFindAvailableSortsByDistanceThenID(t *testing.T) {
	uc, repo, gw := newRegistryForTest(t)
	first := registerDriver(t, uc, repo)
	second := registerDriver(t, uc, repo)

	repo.EXPECT().SaveDriver(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().RemoveAvailableDriver(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	gw.EXPECT().PublishPresence(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	require.NoError(t, uc.SetPresence(context.Background(), first.ID, true))
	require.NoError(t, uc.SetPresence(context.Background(), second.ID, true))

	near := models.GeoLocation{Latitude: -6.175392, Longitude: 106.827153}
	repo.EXPECT().FindNearbyDrivers(gomock.Any(), near, 5.0).Return([]models.NearbyDriver{
		{ID: second.ID.String(), Distance: 2.5},
		{ID: first.ID.String(), Distance: 0.7},
	}, nil)

	result, err := uc.FindAvailable(context.Background(), &near)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, first.ID.String(), result[0].ID)
	assert.Equal(t, second.ID.String(), result[1].ID)
}
