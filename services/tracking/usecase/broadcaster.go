package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/services/bookings"
	"github.com/swiftride/dispatch/services/drivers"
	"github.com/swiftride/dispatch/services/tracking"
)

type trackingUC struct {
	cfg       *models.Config
	driverUC  drivers.DriverUC
	bookingUC bookings.BookingUC
	repo      tracking.TrackingRepo
	gw        tracking.TrackingGW

	mu   sync.RWMutex
	subs map[string]map[string]*tracking.Subscription // bookingID -> subscriberID
}

// NewTrackingUC creates the location broadcaster use case
func NewTrackingUC(
	cfg *models.Config,
	driverUC drivers.DriverUC,
	bookingUC bookings.BookingUC,
	repo tracking.TrackingRepo,
	gw tracking.TrackingGW,
) tracking.TrackingUC {
	return &trackingUC{
		cfg:       cfg,
		driverUC:  driverUC,
		bookingUC: bookingUC,
		repo:      repo,
		gw:        gw,
		subs:      make(map[string]map[string]*tracking.Subscription),
	}
}

// IngestLocation records a driver position and announces it when the driver
// owns an active booking.
func (uc *trackingUC) IngestLocation(ctx context.Context, driverID uuid.UUID, location models.Location) error {
	return nrpkg.WithSegment(ctx, "tracking.IngestLocation", func() error {
		if err := uc.driverUC.UpdatePosition(ctx, driverID, location); err != nil {
			if errors.Is(err, apperrors.ErrStaleUpdate) {
				// Out-of-order network delivery, already logged by the
				// registry. The sender keeps streaming.
				return nil
			}
			return err
		}

		driver, err := uc.driverUC.GetDriver(ctx, driverID)
		if err != nil {
			return err
		}
		if driver.CurrentBookingID == nil {
			return nil
		}

		update := models.LocationUpdate{
			BookingID: driver.CurrentBookingID.String(),
			DriverID:  driverID.String(),
			Location:  location,
			CreatedAt: models.Now(),
		}

		if err := uc.gw.PublishLocationUpdate(ctx, update); err != nil {
			logger.WarnCtx(ctx, "Failed to publish location update",
				logger.String("booking_id", update.BookingID),
				logger.String("driver_id", update.DriverID),
				logger.Err(err))
		}
		return nil
	})
}

// HandleLocationEvent caches the position and fans it out to subscribers
func (uc *trackingUC) HandleLocationEvent(ctx context.Context, update models.LocationUpdate) error {
	if err := uc.repo.StoreBookingLocation(ctx, update); err != nil {
		logger.WarnCtx(ctx, "Failed to cache booking location",
			logger.String("booking_id", update.BookingID),
			logger.Err(err))
	}

	uc.mu.RLock()
	subscribers := make([]*tracking.Subscription, 0, len(uc.subs[update.BookingID]))
	for _, sub := range uc.subs[update.BookingID] {
		subscribers = append(subscribers, sub)
	}
	uc.mu.RUnlock()

	for _, sub := range subscribers {
		sub.Offer(update)
	}
	return nil
}

// Subscribe registers a subscriber for a booking's location stream
func (uc *trackingUC) Subscribe(ctx context.Context, bookingID uuid.UUID, subscriberID string) (*tracking.Subscription, error) {
	booking, err := uc.bookingUC.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	sub := tracking.NewSubscription(bookingID.String(), subscriberID)

	if booking.Status.Terminal() {
		// Deliver the last known position once and end the stream.
		if last, err := uc.repo.GetBookingLocation(ctx, bookingID.String()); err == nil && last != nil {
			sub.Offer(*last)
		}
		sub.Close()
		return sub, nil
	}

	uc.mu.Lock()
	if uc.subs[sub.BookingID] == nil {
		uc.subs[sub.BookingID] = make(map[string]*tracking.Subscription)
	}
	if existing, ok := uc.subs[sub.BookingID][subscriberID]; ok {
		existing.Close()
	}
	uc.subs[sub.BookingID][subscriberID] = sub
	uc.mu.Unlock()

	// Catch-up for reconnects: the newest cached position seeds the mailbox.
	if last, err := uc.repo.GetBookingLocation(ctx, bookingID.String()); err == nil && last != nil {
		sub.Offer(*last)
	}

	logger.DebugCtx(ctx, "Tracking subscription added",
		logger.String("booking_id", sub.BookingID),
		logger.String("subscriber_id", subscriberID))
	return sub, nil
}

// Unsubscribe removes one subscriber
func (uc *trackingUC) Unsubscribe(bookingID uuid.UUID, subscriberID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	subscribers, ok := uc.subs[bookingID.String()]
	if !ok {
		return
	}
	if sub, ok := subscribers[subscriberID]; ok {
		sub.Close()
		delete(subscribers, subscriberID)
	}
	if len(subscribers) == 0 {
		delete(uc.subs, bookingID.String())
	}
}

// CloseBooking drops every subscription of a terminated booking
func (uc *trackingUC) CloseBooking(ctx context.Context, bookingID uuid.UUID) {
	uc.mu.Lock()
	subscribers := uc.subs[bookingID.String()]
	delete(uc.subs, bookingID.String())
	uc.mu.Unlock()

	for _, sub := range subscribers {
		sub.Close()
	}

	if len(subscribers) > 0 {
		logger.InfoCtx(ctx, "Tracking subscriptions closed for terminated booking",
			logger.String("booking_id", bookingID.String()),
			logger.Int("subscribers", len(subscribers)))
	}
}
