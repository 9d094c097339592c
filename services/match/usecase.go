package match

import (
	"context"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// MatchUC defines the match coordinator: it owns driver assignment, the
// accept/decline race resolution and the deadline sweep.
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/swiftride/dispatch/services/match MatchUC
type MatchUC interface {
	// RequestMatch assigns a pending booking to the best available driver
	// near its pickup. ErrNoDriverAvailable leaves the booking pending for
	// later re-triggers. Calling it for a non-pending booking is a no-op.
	RequestMatch(ctx context.Context, bookingID uuid.UUID) error

	// RematchPending re-runs matching for every pending booking, triggered
	// when a driver comes online.
	RematchPending(ctx context.Context) error

	// OnAccept handles a driver accepting their assignment.
	OnAccept(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// OnDecline handles a driver declining, releasing them and re-matching.
	OnDecline(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// OnTimeout applies the accept-deadline timeout path for one booking.
	OnTimeout(ctx context.Context, bookingID uuid.UUID) error

	// OnStart handles the driver starting the ride.
	OnStart(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// OnComplete finishes the ride and frees the driver.
	OnComplete(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error)

	// OnCancel handles a customer cancelling their booking, releasing any
	// reserved driver.
	OnCancel(ctx context.Context, bookingID, customerID uuid.UUID) (*models.Booking, error)

	// StartSweep runs the recurring accept-deadline sweep until the context
	// is cancelled.
	StartSweep(ctx context.Context)
}
