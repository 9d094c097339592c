package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/database"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/bookings"
)

func setupBookingRepo(t *testing.T) (bookings.BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewBookingRepo(&models.Config{}, database.NewPostgresClientFromDB(db)), mock
}

func bookingColumns() []string {
	return []string{
		"id", "customer_id", "driver_id",
		"pickup_latitude", "pickup_longitude", "pickup_address",
		"drop_latitude", "drop_longitude", "drop_address",
		"trip_type", "status", "cancel_reason", "reassignments",
		"created_at", "assigned_at", "accept_deadline", "updated_at",
	}
}

func sampleBooking() *models.Booking {
	now := models.Now()
	return &models.Booking{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Pickup:     models.Location{Latitude: -6.175392, Longitude: 106.827153, Address: "Monas"},
		Drop:       models.Location{Latitude: -6.137654, Longitude: 106.817125, Address: "Kota Tua"},
		TripType:   "standard",
		Status:     models.BookingStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateBooking(context.Background(), sampleBooking())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_DBError(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(sql.ErrConnDone)

	err := repo.CreateBooking(context.Background(), sampleBooking())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBooking_Success(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	booking := sampleBooking()
	rows := sqlmock.NewRows(bookingColumns()).AddRow(
		booking.ID, booking.CustomerID, nil,
		booking.Pickup.Latitude, booking.Pickup.Longitude, booking.Pickup.Address,
		booking.Drop.Latitude, booking.Drop.Longitude, booking.Drop.Address,
		booking.TripType, booking.Status, "", 0,
		booking.CreatedAt, nil, nil, booking.UpdatedAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, customer_id, driver_id")).
		WithArgs(booking.ID).
		WillReturnRows(rows)

	got, err := repo.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
	assert.Equal(t, booking.CustomerID, got.CustomerID)
	assert.Nil(t, got.DriverID)
	assert.Equal(t, models.BookingStatusPending, got.Status)
	assert.Equal(t, booking.Pickup.Address, got.Pickup.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBooking_NotFound(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	bookingID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, customer_id, driver_id")).
		WithArgs(bookingID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBooking(context.Background(), bookingID)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_Success(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	booking := sampleBooking()
	driverID := uuid.New()
	booking.DriverID = &driverID
	booking.Status = models.BookingStatusAssigned

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateBooking(context.Background(), booking)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBooking_NotFound(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateBooking(context.Background(), sampleBooking())
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveBookings_Success(t *testing.T) {
	repo, mock := setupBookingRepo(t)

	first := sampleBooking()
	second := sampleBooking()
	second.Status = models.BookingStatusAccepted
	driverID := uuid.New()
	second.DriverID = &driverID

	rows := sqlmock.NewRows(bookingColumns()).
		AddRow(
			first.ID, first.CustomerID, nil,
			first.Pickup.Latitude, first.Pickup.Longitude, first.Pickup.Address,
			first.Drop.Latitude, first.Drop.Longitude, first.Drop.Address,
			first.TripType, first.Status, "", 0,
			first.CreatedAt, nil, nil, first.UpdatedAt,
		).
		AddRow(
			second.ID, second.CustomerID, second.DriverID,
			second.Pickup.Latitude, second.Pickup.Longitude, second.Pickup.Address,
			second.Drop.Latitude, second.Drop.Longitude, second.Drop.Address,
			second.TripType, second.Status, "", 1,
			second.CreatedAt, nil, nil, second.UpdatedAt,
		)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(models.BookingStatusCompleted, models.BookingStatusCancelled).
		WillReturnRows(rows)

	result, err := repo.ListActiveBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, first.ID, result[0].ID)
	assert.Equal(t, second.ID, result[1].ID)
	require.NotNil(t, result[1].DriverID)
	assert.Equal(t, driverID, *result[1].DriverID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
