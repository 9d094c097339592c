package bookings

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// BookingRepo defines durable booking persistence
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/swiftride/dispatch/services/bookings BookingRepo
type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error

	// ListActiveBookings loads every non-terminal booking, used to warm the
	// in-memory store after a restart.
	ListActiveBookings(ctx context.Context) ([]*models.Booking, error)
}
