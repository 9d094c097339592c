package usecase

import (
	"context"
	"time"

	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
)

// StartSweep runs the accept-deadline sweep until ctx is cancelled. The
// interval is a quarter of the accept timeout so an expired assignment is
// picked up well before the next would expire.
func (uc *matchUC) StartSweep(ctx context.Context) {
	interval := uc.cfg.Match.AcceptTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}

	logger.Info("Starting accept-deadline sweep",
		logger.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Accept-deadline sweep stopped")
			return
		case <-ticker.C:
			uc.sweepExpired(ctx)
		}
	}
}

// sweepExpired finds assigned bookings past their deadline and forces the
// timeout path for each. Individual failures never stop the sweep.
func (uc *matchUC) sweepExpired(ctx context.Context) {
	expired, err := uc.bookingUC.ListExpiredAssigned(ctx, models.Now())
	if err != nil {
		logger.Error("Failed to list expired assignments", logger.Err(err))
		return
	}

	for _, booking := range expired {
		if err := uc.OnTimeout(ctx, booking.ID); err != nil {
			logger.Error("Failed to time out assignment",
				logger.String("booking_id", booking.ID.String()),
				logger.Err(err))
		}
	}
}
