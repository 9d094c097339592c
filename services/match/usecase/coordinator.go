package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/internal/utils"
	"github.com/swiftride/dispatch/services/bookings"
	"github.com/swiftride/dispatch/services/drivers"
	"github.com/swiftride/dispatch/services/match"
)

type matchUC struct {
	cfg       *models.Config
	driverUC  drivers.DriverUC
	bookingUC bookings.BookingUC
	gw        match.MatchGW
}

// NewMatchUC creates the match coordinator use case
func NewMatchUC(
	cfg *models.Config,
	driverUC drivers.DriverUC,
	bookingUC bookings.BookingUC,
	gw match.MatchGW,
) match.MatchUC {
	return &matchUC{
		cfg:       cfg,
		driverUC:  driverUC,
		bookingUC: bookingUC,
		gw:        gw,
	}
}

// RequestMatch walks the nearest-first candidate list, reserving a driver and
// assigning the booking. Losing a reserve race moves on to the next candidate,
// bounded by the candidate budget.
func (uc *matchUC) RequestMatch(ctx context.Context, bookingID uuid.UUID) error {
	return nrpkg.WithSegment(ctx, "match.RequestMatch", func() error {
		booking, err := uc.bookingUC.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			// Duplicate created events and concurrent match triggers land
			// here, nothing left to do.
			logger.DebugCtx(ctx, "Skipping match for non-pending booking",
				logger.String("booking_id", bookingID.String()),
				logger.String("status", string(booking.Status)))
			return nil
		}

		near := &models.GeoLocation{
			Latitude:  booking.Pickup.Latitude,
			Longitude: booking.Pickup.Longitude,
		}
		candidates, err := uc.driverUC.FindAvailable(ctx, near)
		if err != nil {
			return err
		}

		attempts := 0
		for _, candidate := range candidates {
			if attempts >= uc.cfg.Match.CandidateBudget {
				break
			}

			driverID, err := uuid.Parse(candidate.ID)
			if err != nil {
				continue
			}
			attempts++

			if err := uc.driverUC.Reserve(ctx, driverID, bookingID); err != nil {
				if errors.Is(err, apperrors.ErrAlreadyAssigned) {
					// Lost the reserve race, try the next candidate.
					continue
				}
				logger.WarnCtx(ctx, "Failed to reserve candidate",
					logger.String("driver_id", candidate.ID),
					logger.Err(err))
				continue
			}

			assigned, err := uc.bookingUC.Assign(ctx, bookingID, driverID)
			if err != nil {
				if releaseErr := uc.driverUC.Release(ctx, driverID, bookingID); releaseErr != nil {
					logger.ErrorCtx(ctx, "Failed to release driver after assign failure",
						logger.String("driver_id", driverID.String()),
						logger.Err(releaseErr))
				}
				if errors.Is(err, apperrors.ErrInvalidTransition) {
					// The booking left pending while we were reserving
					// (cancelled or assigned elsewhere), nothing to do.
					return nil
				}
				return err
			}

			uc.publishAssignment(ctx, assigned)
			return nil
		}

		logger.InfoCtx(ctx, "No driver available for booking",
			logger.String("booking_id", bookingID.String()),
			logger.Int("candidates", len(candidates)))
		return apperrors.ErrNoDriverAvailable
	})
}

func (uc *matchUC) publishAssignment(ctx context.Context, booking *models.Booking) {
	event := models.AssignmentEvent{
		BookingID:  booking.ID.String(),
		CustomerID: booking.CustomerID.String(),
		DriverID:   booking.DriverID.String(),
		Pickup:     booking.Pickup,
		Drop:       booking.Drop,
	}
	if booking.AssignedAt != nil {
		event.AssignedAt = *booking.AssignedAt
	}
	if booking.AcceptDeadline != nil {
		event.AcceptDeadline = *booking.AcceptDeadline
	}

	if err := uc.gw.PublishAssignment(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish assignment event",
			logger.String("booking_id", event.BookingID),
			logger.Err(err))
	}

	tripKm := utils.CalculateDistance(
		utils.GeoPointFromLocation(booking.Pickup),
		utils.GeoPointFromLocation(booking.Drop))
	logger.InfoCtx(ctx, "Booking assigned",
		logger.String("booking_id", event.BookingID),
		logger.String("driver_id", event.DriverID),
		logger.Float64("trip_km", tripKm))
}

// RematchPending re-runs matching for every pending booking
func (uc *matchUC) RematchPending(ctx context.Context) error {
	pending, err := uc.bookingUC.ListPending(ctx)
	if err != nil {
		return err
	}

	for _, booking := range pending {
		if err := uc.RequestMatch(ctx, booking.ID); err != nil &&
			!errors.Is(err, apperrors.ErrNoDriverAvailable) {
			logger.WarnCtx(ctx, "Rematch attempt failed",
				logger.String("booking_id", booking.ID.String()),
				logger.Err(err))
		}
	}
	return nil
}

// OnAccept applies the driver's accept and publishes the outcome
func (uc *matchUC) OnAccept(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	booking, err := uc.bookingUC.Accept(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	uc.publishLifecycle(ctx, constants.SubjectBookingAccepted, booking, "")
	return booking, nil
}

// OnDecline applies the driver's decline, releases them and re-matches
func (uc *matchUC) OnDecline(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	booking, err := uc.bookingUC.Decline(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	if err := uc.driverUC.Release(ctx, driverID, bookingID); err != nil {
		logger.ErrorCtx(ctx, "Failed to release declining driver",
			logger.String("driver_id", driverID.String()),
			logger.Err(err))
	}

	uc.publishLifecycle(ctx, constants.SubjectBookingDeclined, booking, "declined")
	return booking, uc.rematchOrCancel(ctx, booking)
}

// OnTimeout forces the decline path for a booking past its accept deadline.
// An accept that won the race first makes this a no-op.
func (uc *matchUC) OnTimeout(ctx context.Context, bookingID uuid.UUID) error {
	return nrpkg.WithSegment(ctx, "match.OnTimeout", func() error {
		before, err := uc.bookingUC.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		assignedDriver := before.DriverID

		booking, err := uc.bookingUC.DeclineExpired(ctx, bookingID, models.Now())
		if err != nil {
			if errors.Is(err, apperrors.ErrStaleState) {
				return nil
			}
			return err
		}

		if assignedDriver != nil {
			if err := uc.driverUC.Release(ctx, *assignedDriver, bookingID); err != nil {
				logger.ErrorCtx(ctx, "Failed to release timed-out driver",
					logger.String("driver_id", assignedDriver.String()),
					logger.Err(err))
			}
		}

		uc.publishLifecycle(ctx, constants.SubjectBookingDeclined, booking, "accept_timeout")
		return uc.rematchOrCancel(ctx, booking)
	})
}

// rematchOrCancel re-runs matching for a booking returned to pending, or
// cancels it once the reassignment cap is exhausted.
func (uc *matchUC) rematchOrCancel(ctx context.Context, booking *models.Booking) error {
	if booking.Status != models.BookingStatusPending {
		return nil
	}

	if booking.Reassignments >= uc.cfg.Match.MaxReassignments {
		cancelled, err := uc.bookingUC.Cancel(ctx, booking.ID, models.CancelReasonNoDriverAvailable)
		if err != nil {
			return err
		}

		uc.publishLifecycle(ctx, constants.SubjectBookingCancelled, cancelled, string(models.CancelReasonNoDriverAvailable))
		logger.InfoCtx(ctx, "Booking cancelled after exhausting reassignments",
			logger.String("booking_id", booking.ID.String()),
			logger.Int("reassignments", booking.Reassignments))
		return nil
	}

	if err := uc.RequestMatch(ctx, booking.ID); err != nil {
		if errors.Is(err, apperrors.ErrNoDriverAvailable) {
			// Recoverable, the booking stays pending until a driver comes
			// online or the next created-event retry.
			return nil
		}
		return err
	}
	return nil
}

// OnStart applies the ride start and publishes the outcome
func (uc *matchUC) OnStart(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	booking, err := uc.bookingUC.Start(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	uc.publishLifecycle(ctx, constants.SubjectBookingStarted, booking, "")
	return booking, nil
}

// OnComplete finishes the ride and frees the driver
func (uc *matchUC) OnComplete(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	booking, err := uc.bookingUC.Complete(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	if err := uc.driverUC.Release(ctx, driverID, bookingID); err != nil {
		logger.ErrorCtx(ctx, "Failed to release driver after completion",
			logger.String("driver_id", driverID.String()),
			logger.Err(err))
	}

	uc.publishLifecycle(ctx, constants.SubjectBookingCompleted, booking, "")
	return booking, nil
}

// OnCancel applies a customer cancellation and releases any reserved driver
func (uc *matchUC) OnCancel(ctx context.Context, bookingID, customerID uuid.UUID) (*models.Booking, error) {
	booking, err := uc.bookingUC.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, apperrors.ErrNotYourBooking
	}

	cancelled, err := uc.bookingUC.Cancel(ctx, bookingID, models.CancelReasonCustomer)
	if err != nil {
		return nil, err
	}

	// Release is idempotent, a pending booking with no driver skips it.
	if cancelled.DriverID != nil {
		if err := uc.driverUC.Release(ctx, *cancelled.DriverID, bookingID); err != nil {
			logger.ErrorCtx(ctx, "Failed to release driver after cancellation",
				logger.String("driver_id", cancelled.DriverID.String()),
				logger.Err(err))
		}
	}

	uc.publishLifecycle(ctx, constants.SubjectBookingCancelled, cancelled, string(models.CancelReasonCustomer))
	return cancelled, nil
}

func (uc *matchUC) publishLifecycle(ctx context.Context, subject string, booking *models.Booking, reason string) {
	event := models.BookingEvent{
		BookingID:  booking.ID.String(),
		CustomerID: booking.CustomerID.String(),
		Status:     booking.Status,
		Reason:     reason,
		Timestamp:  booking.UpdatedAt,
	}
	if booking.DriverID != nil {
		event.DriverID = booking.DriverID.String()
	}

	if err := uc.gw.PublishBookingEvent(ctx, subject, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish booking lifecycle event",
			logger.String("subject", subject),
			logger.String("booking_id", event.BookingID),
			logger.Err(err))
	}
}
