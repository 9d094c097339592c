package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/services/bookings"
)

// errNoop signals an idempotent retry: the transition already happened, skip
// persistence and return current state.
var errNoop = errors.New("transition already applied")

// bookingEntry holds the authoritative in-memory state of one booking.
// The mutex linearizes all transitions for that booking.
type bookingEntry struct {
	mu      sync.Mutex
	booking *models.Booking
}

type bookingUC struct {
	cfg  *models.Config
	repo bookings.BookingRepo
	gw   bookings.BookingGW

	mu      sync.RWMutex
	entries map[uuid.UUID]*bookingEntry
}

// NewBookingUC creates the booking store, warming the in-memory state with
// every non-terminal booking from the persistence store.
func NewBookingUC(
	ctx context.Context,
	cfg *models.Config,
	repo bookings.BookingRepo,
	gw bookings.BookingGW,
) (bookings.BookingUC, error) {
	uc := &bookingUC{
		cfg:     cfg,
		repo:    repo,
		gw:      gw,
		entries: make(map[uuid.UUID]*bookingEntry),
	}

	active, err := repo.ListActiveBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to warm booking store: %w", err)
	}
	for _, b := range active {
		uc.entries[b.ID] = &bookingEntry{booking: b}
	}

	logger.Info("Booking store warmed",
		logger.Int("active_bookings", len(active)))
	return uc, nil
}

// entry returns the in-memory entry for a booking, lazily hydrating from the
// persistence store.
func (uc *bookingUC) entry(ctx context.Context, bookingID uuid.UUID) (*bookingEntry, error) {
	uc.mu.RLock()
	e, ok := uc.entries[bookingID]
	uc.mu.RUnlock()
	if ok {
		return e, nil
	}

	booking, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBookingNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: load booking: %v", apperrors.ErrPersistence, err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if existing, ok := uc.entries[bookingID]; ok {
		return existing, nil
	}
	e = &bookingEntry{booking: booking}
	uc.entries[bookingID] = e
	return e, nil
}

// transition applies a state change under the booking mutex with write-through
// persistence. On persistence failure the in-memory state is rolled back and
// ErrPersistence returned, so memory never diverges from the store.
func (uc *bookingUC) transition(ctx context.Context, bookingID uuid.UUID, apply func(*models.Booking) error) (*models.Booking, error) {
	e, err := uc.entry(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.booking.Clone()
	if err := apply(e.booking); err != nil {
		if errors.Is(err, errNoop) {
			return e.booking.Clone(), nil
		}
		*e.booking = *prev
		return nil, err
	}
	e.booking.UpdatedAt = models.Now()

	if err := uc.repo.UpdateBooking(ctx, e.booking); err != nil {
		*e.booking = *prev
		return nil, fmt.Errorf("%w: save booking: %v", apperrors.ErrPersistence, err)
	}

	return e.booking.Clone(), nil
}

// CreateBooking stores a new pending booking and announces it
func (uc *bookingUC) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	return nrpkg.WithSegmentAndReturn(ctx, "bookings.CreateBooking", func() (*models.Booking, error) {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer id: %w", err)
		}

		now := models.Now()
		booking := &models.Booking{
			ID:         uuid.New(),
			CustomerID: customerID,
			Pickup:     req.Pickup,
			Drop:       req.Drop,
			TripType:   req.TripType,
			Status:     models.BookingStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := uc.repo.CreateBooking(ctx, booking); err != nil {
			return nil, fmt.Errorf("%w: create booking: %v", apperrors.ErrPersistence, err)
		}

		uc.mu.Lock()
		uc.entries[booking.ID] = &bookingEntry{booking: booking.Clone()}
		uc.mu.Unlock()

		if err := uc.gw.PublishBookingCreated(ctx, booking); err != nil {
			// Matching is re-triggered by presence events, so creation still
			// succeeds when the announcement fails.
			logger.WarnCtx(ctx, "Failed to publish booking created event",
				logger.String("booking_id", booking.ID.String()),
				logger.Err(err))
		}

		logger.InfoCtx(ctx, "Booking created",
			logger.String("booking_id", booking.ID.String()),
			logger.String("customer_id", customerID.String()))
		return booking.Clone(), nil
	})
}

// GetBooking returns a snapshot of the booking
func (uc *bookingUC) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	e, err := uc.entry(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.booking.Clone(), nil
}

// Assign moves pending -> assigned, stamping the accept deadline
func (uc *bookingUC) Assign(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		if b.Status != models.BookingStatusPending {
			if b.Status == models.BookingStatusAssigned && b.DriverID != nil && *b.DriverID == driverID {
				return errNoop
			}
			return apperrors.ErrInvalidTransition
		}

		now := models.Now()
		deadline := now.Add(uc.cfg.Match.AcceptTimeout)
		b.Status = models.BookingStatusAssigned
		b.DriverID = &driverID
		b.AssignedAt = &now
		b.AcceptDeadline = &deadline
		return nil
	})
}

// Accept moves assigned -> accepted. An accept arriving after the deadline
// loses to the timeout path deterministically.
func (uc *bookingUC) Accept(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		switch b.Status {
		case models.BookingStatusAssigned:
			if b.DriverID == nil || *b.DriverID != driverID {
				return apperrors.ErrNotYourBooking
			}
			if b.AcceptDeadline != nil && models.Now().After(*b.AcceptDeadline) {
				return apperrors.ErrStaleState
			}
			b.Status = models.BookingStatusAccepted
			return nil

		case models.BookingStatusAccepted, models.BookingStatusInRide, models.BookingStatusCompleted:
			// Retried accept after the transition already happened.
			if b.DriverID != nil && *b.DriverID == driverID {
				return errNoop
			}
			return apperrors.ErrNotYourBooking

		case models.BookingStatusPending:
			// A reassigned booking means the driver lost the race against a
			// decline or timeout. A never-assigned one is caller misuse.
			if b.Reassignments > 0 {
				return apperrors.ErrStaleState
			}
			return apperrors.ErrInvalidTransition

		default: // cancelled
			return apperrors.ErrStaleState
		}
	})
}

// Decline moves assigned -> pending, clearing the driver and counting the
// reassignment. A decline racing a completed accept must not strip the driver
// who just accepted.
func (uc *bookingUC) Decline(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		switch b.Status {
		case models.BookingStatusAssigned:
			if b.DriverID == nil || *b.DriverID != driverID {
				return apperrors.ErrNotYourBooking
			}
			declineToPending(b)
			return nil

		case models.BookingStatusPending:
			// Retried decline after the booking already returned to pending.
			if b.Reassignments > 0 {
				return errNoop
			}
			return apperrors.ErrInvalidTransition

		default:
			return apperrors.ErrStaleState
		}
	})
}

// DeclineExpired applies the timeout path. It only fires while the booking is
// still assigned and past its deadline; an accept that won first makes this a
// harmless ErrStaleState.
func (uc *bookingUC) DeclineExpired(ctx context.Context, bookingID uuid.UUID, now time.Time) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		if b.Status != models.BookingStatusAssigned {
			return apperrors.ErrStaleState
		}
		if b.AcceptDeadline == nil || now.Before(*b.AcceptDeadline) {
			return apperrors.ErrStaleState
		}
		declineToPending(b)
		return nil
	})
}

func declineToPending(b *models.Booking) {
	b.Status = models.BookingStatusPending
	b.DriverID = nil
	b.AssignedAt = nil
	b.AcceptDeadline = nil
	b.Reassignments++
}

// Start moves accepted -> inride
func (uc *bookingUC) Start(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		switch b.Status {
		case models.BookingStatusAccepted:
			if b.DriverID == nil || *b.DriverID != driverID {
				return apperrors.ErrNotYourBooking
			}
			b.Status = models.BookingStatusInRide
			return nil

		case models.BookingStatusInRide:
			if b.DriverID != nil && *b.DriverID == driverID {
				return errNoop
			}
			return apperrors.ErrNotYourBooking

		default:
			return apperrors.ErrInvalidTransition
		}
	})
}

// Complete moves inride -> completed
func (uc *bookingUC) Complete(ctx context.Context, bookingID, driverID uuid.UUID) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		switch b.Status {
		case models.BookingStatusInRide:
			if b.DriverID == nil || *b.DriverID != driverID {
				return apperrors.ErrNotYourBooking
			}
			b.Status = models.BookingStatusCompleted
			return nil

		case models.BookingStatusCompleted:
			if b.DriverID != nil && *b.DriverID == driverID {
				return errNoop
			}
			return apperrors.ErrNotYourBooking

		default:
			return apperrors.ErrInvalidTransition
		}
	})
}

// Cancel moves any non-terminal state to cancelled. The driver reference is
// kept on the record so the coordinator can release the reservation.
func (uc *bookingUC) Cancel(ctx context.Context, bookingID uuid.UUID, reason models.CancelReason) (*models.Booking, error) {
	return uc.transition(ctx, bookingID, func(b *models.Booking) error {
		switch b.Status {
		case models.BookingStatusCancelled:
			return errNoop
		case models.BookingStatusCompleted:
			return apperrors.ErrInvalidTransition
		default:
			b.Status = models.BookingStatusCancelled
			b.CancelReason = reason
			b.AcceptDeadline = nil
			return nil
		}
	})
}

// ListExpiredAssigned snapshots assigned bookings past their accept deadline
func (uc *bookingUC) ListExpiredAssigned(ctx context.Context, now time.Time) ([]*models.Booking, error) {
	return uc.listSnapshot(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusAssigned &&
			b.AcceptDeadline != nil && now.After(*b.AcceptDeadline)
	}), nil
}

// ListPending snapshots pending bookings for re-matching
func (uc *bookingUC) ListPending(ctx context.Context) ([]*models.Booking, error) {
	return uc.listSnapshot(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusPending
	}), nil
}

func (uc *bookingUC) listSnapshot(match func(*models.Booking) bool) []*models.Booking {
	uc.mu.RLock()
	entries := make([]*bookingEntry, 0, len(uc.entries))
	for _, e := range uc.entries {
		entries = append(entries, e)
	}
	uc.mu.RUnlock()

	result := make([]*models.Booking, 0)
	for _, e := range entries {
		e.mu.Lock()
		if match(e.booking) {
			result = append(result, e.booking.Clone())
		}
		e.mu.Unlock()
	}
	return result
}
