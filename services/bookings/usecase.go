package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// BookingUC defines the booking store: a per-booking finite state machine
// with write-through persistence. All transitions are linearized per booking;
// the loser of a concurrent transition race gets ErrStaleState and performs
// no side effect.
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/swiftride/dispatch/services/bookings BookingUC
type BookingUC interface {
	// CreateBooking stores a new pending booking and announces it on the bus.
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)

	// GetBooking returns a snapshot of the booking.
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)

	// Assign moves pending -> assigned, stamping AssignedAt and AcceptDeadline.
	Assign(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// Accept moves assigned -> accepted for the assigned driver. Accepting an
	// already accepted (or later) booking by the same driver is an idempotent
	// no-op returning current state. An accept racing a completed timeout
	// decline gets ErrStaleState.
	Accept(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// Decline moves assigned -> pending for the assigned driver, clearing the
	// driver and counting a reassignment.
	Decline(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// DeclineExpired applies the timeout path: assigned -> pending, but only
	// while the booking is still assigned and past its accept deadline.
	DeclineExpired(ctx context.Context, bookingID uuid.UUID, now time.Time) (*models.Booking, error)

	// Start moves accepted -> inride.
	Start(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// Complete moves inride -> completed. Idempotent for the same driver.
	Complete(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// Cancel moves any non-terminal state to cancelled. Cancelling an already
	// cancelled booking is an idempotent no-op.
	Cancel(ctx context.Context, bookingID uuid.UUID, reason models.CancelReason) (*models.Booking, error)

	// ListExpiredAssigned returns snapshots of assigned bookings whose accept
	// deadline passed, for the coordinator's sweep.
	ListExpiredAssigned(ctx context.Context, now time.Time) ([]*models.Booking, error)

	// ListPending returns snapshots of pending bookings, used to re-trigger
	// matching when a driver comes online.
	ListPending(ctx context.Context) ([]*models.Booking, error)
}
