package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/services/drivers"
)

// driverEntry holds the authoritative in-memory state of one driver.
// Every mutation happens under the entry mutex so presence, position and
// reservation changes for the same driver are linearized.
type driverEntry struct {
	mu     sync.Mutex
	driver *models.Driver
}

type driverUC struct {
	cfg  *models.Config
	repo drivers.DriverRepo
	gw   drivers.DriverGW

	mu      sync.RWMutex
	entries map[uuid.UUID]*driverEntry
}

// NewDriverUC creates the driver registry use case
func NewDriverUC(
	cfg *models.Config,
	repo drivers.DriverRepo,
	gw drivers.DriverGW,
) drivers.DriverUC {
	return &driverUC{
		cfg:     cfg,
		repo:    repo,
		gw:      gw,
		entries: make(map[uuid.UUID]*driverEntry),
	}
}

// entry returns the in-memory entry for a driver, lazily hydrating from the
// persistence store on first access after a restart.
func (uc *driverUC) entry(ctx context.Context, driverID uuid.UUID) (*driverEntry, error) {
	uc.mu.RLock()
	e, ok := uc.entries[driverID]
	uc.mu.RUnlock()
	if ok {
		return e, nil
	}

	driver, err := uc.repo.GetDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownDriver) {
			return nil, apperrors.ErrUnknownDriver
		}
		return nil, fmt.Errorf("%w: load driver: %v", apperrors.ErrPersistence, err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if existing, ok := uc.entries[driverID]; ok {
		return existing, nil
	}
	e = &driverEntry{driver: driver}
	uc.entries[driverID] = e
	return e, nil
}

func cloneDriver(d *models.Driver) *models.Driver {
	cp := *d
	if d.Position != nil {
		pos := *d.Position
		cp.Position = &pos
	}
	if d.CurrentBookingID != nil {
		id := *d.CurrentBookingID
		cp.CurrentBookingID = &id
	}
	return &cp
}

// RegisterDriver adds a new driver, persisting it before exposing it to
// matching.
func (uc *driverUC) RegisterDriver(ctx context.Context, driver *models.Driver) error {
	return nrpkg.WithSegment(ctx, "drivers.RegisterDriver", func() error {
		if driver.ID == uuid.Nil {
			driver.ID = uuid.New()
		}
		driver.Presence = models.PresenceOffline
		driver.CurrentBookingID = nil
		driver.UpdatedAt = models.Now()

		if err := uc.repo.CreateDriver(ctx, driver); err != nil {
			return fmt.Errorf("%w: create driver: %v", apperrors.ErrPersistence, err)
		}

		uc.mu.Lock()
		uc.entries[driver.ID] = &driverEntry{driver: cloneDriver(driver)}
		uc.mu.Unlock()

		logger.InfoCtx(ctx, "Driver registered",
			logger.String("driver_id", driver.ID.String()))
		return nil
	})
}

// GetDriver returns a snapshot copy of the driver state
func (uc *driverUC) GetDriver(ctx context.Context, driverID uuid.UUID) (*models.Driver, error) {
	e, err := uc.entry(ctx, driverID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneDriver(e.driver), nil
}

// SetPresence toggles a driver online or offline with write-through
// persistence. A driver holding an active booking cannot go offline, that
// would orphan the ride.
func (uc *driverUC) SetPresence(ctx context.Context, driverID uuid.UUID, online bool) error {
	return nrpkg.WithSegment(ctx, "drivers.SetPresence", func() error {
		e, err := uc.entry(ctx, driverID)
		if err != nil {
			return err
		}

		e.mu.Lock()
		defer e.mu.Unlock()

		d := e.driver
		if !online && d.CurrentBookingID != nil {
			return apperrors.ErrDriverBusy
		}

		prevPresence := d.Presence
		prevUpdated := d.UpdatedAt
		if online {
			d.Presence = models.PresenceOnline
		} else {
			d.Presence = models.PresenceOffline
		}
		d.UpdatedAt = models.Now()

		if err := uc.repo.SaveDriver(ctx, d); err != nil {
			d.Presence = prevPresence
			d.UpdatedAt = prevUpdated
			return fmt.Errorf("%w: save driver presence: %v", apperrors.ErrPersistence, err)
		}

		uc.syncAvailability(ctx, d)

		event := models.PresenceEvent{
			DriverID:  d.ID.String(),
			Online:    online,
			Timestamp: d.UpdatedAt,
		}
		if d.Position != nil {
			event.Location = models.GeoLocation{
				Latitude:  d.Position.Latitude,
				Longitude: d.Position.Longitude,
			}
		}
		if err := uc.gw.PublishPresence(ctx, event); err != nil {
			logger.WarnCtx(ctx, "Failed to publish presence event",
				logger.String("driver_id", d.ID.String()),
				logger.Err(err))
		}

		return nil
	})
}

// UpdatePosition applies a position update, dropping out-of-order timestamps.
func (uc *driverUC) UpdatePosition(ctx context.Context, driverID uuid.UUID, location models.Location) error {
	e, err := uc.entry(ctx, driverID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.driver
	if d.Position != nil && !location.Timestamp.After(d.Position.Timestamp) {
		logger.DebugCtx(ctx, "Dropping stale position update",
			logger.String("driver_id", driverID.String()),
			logger.Time("update_ts", location.Timestamp),
			logger.Time("last_ts", d.Position.Timestamp))
		return apperrors.ErrStaleUpdate
	}

	d.Position = &location
	d.UpdatedAt = models.Now()

	if err := uc.repo.StoreDriverLocation(ctx, d.ID.String(), location); err != nil {
		logger.WarnCtx(ctx, "Failed to cache driver location",
			logger.String("driver_id", d.ID.String()),
			logger.Err(err))
	}
	uc.syncAvailability(ctx, d)

	return nil
}

// syncAvailability mirrors the driver's availability into the Redis geo index.
// Index errors are logged, the in-memory registry stays authoritative.
// Callers hold the entry mutex.
func (uc *driverUC) syncAvailability(ctx context.Context, d *models.Driver) {
	if d.Available() && d.Position != nil {
		if err := uc.repo.AddAvailableDriver(ctx, d.ID.String(), *d.Position); err != nil {
			logger.WarnCtx(ctx, "Failed to add driver to availability index",
				logger.String("driver_id", d.ID.String()),
				logger.Err(err))
		}
		return
	}

	if err := uc.repo.RemoveAvailableDriver(ctx, d.ID.String()); err != nil {
		logger.WarnCtx(ctx, "Failed to remove driver from availability index",
			logger.String("driver_id", d.ID.String()),
			logger.Err(err))
	}
}

// FindAvailable returns online unreserved drivers, nearest-first when a
// query point is given.
func (uc *driverUC) FindAvailable(ctx context.Context, near *models.GeoLocation) ([]models.NearbyDriver, error) {
	return nrpkg.WithSegmentAndReturn(ctx, "drivers.FindAvailable", func() ([]models.NearbyDriver, error) {
		if near == nil {
			return uc.listAvailable(), nil
		}

		candidates, err := uc.repo.FindNearbyDrivers(ctx, *near, uc.cfg.Match.SearchRadiusKm)
		if err != nil {
			return nil, fmt.Errorf("%w: geo query: %v", apperrors.ErrPersistence, err)
		}

		// The geo index can lag behind the registry, so every candidate is
		// re-checked against authoritative in-memory state.
		result := make([]models.NearbyDriver, 0, len(candidates))
		for _, candidate := range candidates {
			driverID, err := uuid.Parse(candidate.ID)
			if err != nil {
				continue
			}
			e, err := uc.entry(ctx, driverID)
			if err != nil {
				continue
			}
			e.mu.Lock()
			available := e.driver.Available()
			e.mu.Unlock()
			if available {
				result = append(result, candidate)
			}
		}

		sort.Slice(result, func(i, j int) bool {
			if result[i].Distance != result[j].Distance {
				return result[i].Distance < result[j].Distance
			}
			return result[i].ID < result[j].ID
		})
		return result, nil
	})
}

// listAvailable snapshots every available driver ordered by id for
// deterministic selection without a query point.
func (uc *driverUC) listAvailable() []models.NearbyDriver {
	uc.mu.RLock()
	entries := make([]*driverEntry, 0, len(uc.entries))
	for _, e := range uc.entries {
		entries = append(entries, e)
	}
	uc.mu.RUnlock()

	result := make([]models.NearbyDriver, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if e.driver.Available() {
			nd := models.NearbyDriver{ID: e.driver.ID.String()}
			if e.driver.Position != nil {
				nd.Location = *e.driver.Position
			}
			result = append(result, nd)
		}
		e.mu.Unlock()
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Reserve claims the driver for a booking. Exactly one concurrent caller
// wins, the rest get ErrAlreadyAssigned.
func (uc *driverUC) Reserve(ctx context.Context, driverID, bookingID uuid.UUID) error {
	return nrpkg.WithSegment(ctx, "drivers.Reserve", func() error {
		e, err := uc.entry(ctx, driverID)
		if err != nil {
			return err
		}

		e.mu.Lock()
		defer e.mu.Unlock()

		d := e.driver
		if !d.Available() {
			return apperrors.ErrAlreadyAssigned
		}

		prevUpdated := d.UpdatedAt
		d.CurrentBookingID = &bookingID
		d.UpdatedAt = models.Now()

		if err := uc.repo.SaveDriver(ctx, d); err != nil {
			d.CurrentBookingID = nil
			d.UpdatedAt = prevUpdated
			return fmt.Errorf("%w: save reservation: %v", apperrors.ErrPersistence, err)
		}

		uc.syncAvailability(ctx, d)

		logger.InfoCtx(ctx, "Driver reserved",
			logger.String("driver_id", driverID.String()),
			logger.String("booking_id", bookingID.String()))
		return nil
	})
}

// Release clears the reservation the given booking holds on the driver.
// Already-free drivers are a no-op, and so is a release naming a booking the
// driver no longer serves: a retried decline of an old booking must not strip
// a reservation that meanwhile belongs to a new one.
func (uc *driverUC) Release(ctx context.Context, driverID, bookingID uuid.UUID) error {
	return nrpkg.WithSegment(ctx, "drivers.Release", func() error {
		e, err := uc.entry(ctx, driverID)
		if err != nil {
			return err
		}

		e.mu.Lock()
		defer e.mu.Unlock()

		d := e.driver
		if d.CurrentBookingID == nil {
			return nil
		}
		if *d.CurrentBookingID != bookingID {
			logger.DebugCtx(ctx, "Skipping release, reservation belongs to another booking",
				logger.String("driver_id", driverID.String()),
				logger.String("booking_id", bookingID.String()),
				logger.String("reserved_by", d.CurrentBookingID.String()))
			return nil
		}

		prevBooking := d.CurrentBookingID
		prevUpdated := d.UpdatedAt
		d.CurrentBookingID = nil
		d.UpdatedAt = models.Now()

		if err := uc.repo.SaveDriver(ctx, d); err != nil {
			d.CurrentBookingID = prevBooking
			d.UpdatedAt = prevUpdated
			return fmt.Errorf("%w: save release: %v", apperrors.ErrPersistence, err)
		}

		uc.syncAvailability(ctx, d)

		logger.InfoCtx(ctx, "Driver released",
			logger.String("driver_id", driverID.String()))
		return nil
	})
}
