package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/database"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/bookings"
)

// BookingRepo persists booking records in Postgres
type BookingRepo struct {
	cfg *models.Config
	db  *database.PostgresClient
}

// NewBookingRepo creates a new booking repository
func NewBookingRepo(cfg *models.Config, db *database.PostgresClient) bookings.BookingRepo {
	return &BookingRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateBooking inserts a new booking record
func (r *BookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_id, driver_id,
			pickup_latitude, pickup_longitude, pickup_address,
			drop_latitude, drop_longitude, drop_address,
			trip_type, status, cancel_reason, reassignments,
			created_at, assigned_at, accept_deadline, updated_at
		) VALUES (
			:id, :customer_id, :driver_id,
			:pickup_latitude, :pickup_longitude, :pickup_address,
			:drop_latitude, :drop_longitude, :drop_address,
			:trip_type, :status, :cancel_reason, :reassignments,
			:created_at, :assigned_at, :accept_deadline, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, booking.ToDTO())
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetBooking loads a booking record by id
func (r *BookingRepo) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	var dto models.BookingDTO
	query := `
		SELECT id, customer_id, driver_id,
		       pickup_latitude, pickup_longitude, pickup_address,
		       drop_latitude, drop_longitude, drop_address,
		       trip_type, status, cancel_reason, reassignments,
		       created_at, assigned_at, accept_deadline, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, &dto, query, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return dto.ToBooking(), nil
}

// UpdateBooking writes the booking's mutable state
func (r *BookingRepo) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET driver_id = :driver_id,
		    status = :status,
		    cancel_reason = :cancel_reason,
		    reassignments = :reassignments,
		    assigned_at = :assigned_at,
		    accept_deadline = :accept_deadline,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, booking.ToDTO())
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrBookingNotFound
	}
	return nil
}

// ListActiveBookings loads every non-terminal booking
func (r *BookingRepo) ListActiveBookings(ctx context.Context) ([]*models.Booking, error) {
	var dtos []models.BookingDTO
	query := `
		SELECT id, customer_id, driver_id,
		       pickup_latitude, pickup_longitude, pickup_address,
		       drop_latitude, drop_longitude, drop_address,
		       trip_type, status, cancel_reason, reassignments,
		       created_at, assigned_at, accept_deadline, updated_at
		FROM bookings
		WHERE status NOT IN ($1, $2)`

	err := r.db.GetDB().SelectContext(ctx, &dtos, query,
		models.BookingStatusCompleted, models.BookingStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}

	result := make([]*models.Booking, 0, len(dtos))
	for i := range dtos {
		result = append(result, dtos[i].ToBooking())
	}
	return result, nil
}
