package models

import (
	"time"

	"github.com/google/uuid"
)

// DriverPresence represents a driver's availability flag
type DriverPresence string

const (
	PresenceOffline DriverPresence = "offline"
	PresenceOnline  DriverPresence = "online"
)

// Driver represents a driver's live registry state: presence, last known
// position and the booking currently reserving them (if any).
type Driver struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	FullName         string         `json:"fullname" db:"fullname"`
	VehiclePlate     string         `json:"vehicle_plate" db:"vehicle_plate"`
	Presence         DriverPresence `json:"presence" db:"presence"`
	Position         *Location      `json:"position,omitempty"`
	CurrentBookingID *uuid.UUID     `json:"current_booking_id,omitempty" db:"current_booking_id"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// Available reports whether the driver can take a new booking.
func (d *Driver) Available() bool {
	return d.Presence == PresenceOnline && d.CurrentBookingID == nil
}

// NearbyDriver is a driver candidate returned by the geo index, with the
// straight-line distance from the query point in kilometers.
type NearbyDriver struct {
	ID       string   `json:"id"`
	Location Location `json:"location"`
	Distance float64  `json:"distance_km"`
}

// DriverRequest is the provisioning payload for registering a driver
type DriverRequest struct {
	FullName     string `json:"fullname"`
	VehiclePlate string `json:"vehicle_plate"`
}

// DriverCredentials is returned on registration so the driver app can open
// its WebSocket session immediately.
type DriverCredentials struct {
	Driver    *Driver `json:"driver"`
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expires_at"`
}

// PresenceRequest is the driver command payload for toggling availability
type PresenceRequest struct {
	Online   bool         `json:"online"`
	Location *GeoLocation `json:"location,omitempty"`
}

// PresenceEvent is published when a driver toggles online/offline
type PresenceEvent struct {
	DriverID  string      `json:"driver_id"`
	Online    bool        `json:"online"`
	Location  GeoLocation `json:"location"`
	Timestamp time.Time   `json:"timestamp"`
}
