package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/database"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/tracking"
)

// TrackingRepo caches per-booking last known positions in Redis
type TrackingRepo struct {
	cfg   *models.Config
	redis *database.RedisClient
}

// NewTrackingRepo creates a new tracking repository
func NewTrackingRepo(cfg *models.Config, redis *database.RedisClient) tracking.TrackingRepo {
	return &TrackingRepo{
		cfg:   cfg,
		redis: redis,
	}
}

// StoreBookingLocation writes the booking's last known position with a TTL
func (r *TrackingRepo) StoreBookingLocation(ctx context.Context, update models.LocationUpdate) error {
	key := fmt.Sprintf(constants.KeyBookingLocation, update.BookingID)
	fields := map[string]interface{}{
		constants.FieldDriverID:  update.DriverID,
		constants.FieldLatitude:  strconv.FormatFloat(update.Location.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(update.Location.Longitude, 'f', -1, 64),
		constants.FieldTimestamp: strconv.FormatInt(update.Location.Timestamp.UnixMilli(), 10),
	}

	if err := r.redis.HMSet(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store booking location: %w", err)
	}
	return r.redis.Expire(ctx, key, r.cfg.Tracking.LocationTTL)
}

// GetBookingLocation reads the cached position, nil when absent
func (r *TrackingRepo) GetBookingLocation(ctx context.Context, bookingID string) (*models.LocationUpdate, error) {
	key := fmt.Sprintf(constants.KeyBookingLocation, bookingID)
	values, err := r.redis.HMGet(ctx, key,
		constants.FieldDriverID,
		constants.FieldLatitude,
		constants.FieldLongitude,
		constants.FieldTimestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking location: %w", err)
	}
	if len(values) < 4 || values[0] == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(values[1], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(values[2], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached longitude: %w", err)
	}
	tsMilli, err := strconv.ParseInt(values[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached timestamp: %w", err)
	}

	ts := time.UnixMilli(tsMilli).UTC()
	return &models.LocationUpdate{
		BookingID: bookingID,
		DriverID:  values[0],
		Location: models.Location{
			Latitude:  lat,
			Longitude: lng,
			Timestamp: ts,
		},
		CreatedAt: ts,
	}, nil
}
