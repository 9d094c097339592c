package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the current lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAssigned  BookingStatus = "assigned"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusInRide    BookingStatus = "inride"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether the status is immutable.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Active reports whether the booking currently holds a driver reservation.
func (s BookingStatus) Active() bool {
	return s == BookingStatusAssigned || s == BookingStatusAccepted || s == BookingStatusInRide
}

// CancelReason records why a booking ended up cancelled
type CancelReason string

const (
	CancelReasonCustomer          CancelReason = "customer_cancelled"
	CancelReasonNoDriverAvailable CancelReason = "no_driver_available"
)

// Booking represents a single ride request moving through the lifecycle
type Booking struct {
	ID             uuid.UUID     `json:"booking_id" db:"id"`
	CustomerID     uuid.UUID     `json:"customer_id" db:"customer_id"`
	DriverID       *uuid.UUID    `json:"driver_id,omitempty" db:"driver_id"`
	Pickup         Location      `json:"pickup"`
	Drop           Location      `json:"drop"`
	TripType       string        `json:"trip_type" db:"trip_type"`
	Status         BookingStatus `json:"status" db:"status"`
	CancelReason   CancelReason  `json:"cancel_reason,omitempty" db:"cancel_reason"`
	Reassignments  int           `json:"reassignments" db:"reassignments"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	AssignedAt     *time.Time    `json:"assigned_at,omitempty" db:"assigned_at"`
	AcceptDeadline *time.Time    `json:"accept_deadline,omitempty" db:"accept_deadline"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy so callers never share mutable state with the store.
func (b *Booking) Clone() *Booking {
	cp := *b
	if b.DriverID != nil {
		id := *b.DriverID
		cp.DriverID = &id
	}
	if b.AssignedAt != nil {
		t := *b.AssignedAt
		cp.AssignedAt = &t
	}
	if b.AcceptDeadline != nil {
		t := *b.AcceptDeadline
		cp.AcceptDeadline = &t
	}
	return &cp
}

// BookingRequest is the customer-facing payload to create a booking
type BookingRequest struct {
	CustomerID string   `json:"customer_id"`
	Pickup     Location `json:"pickup"`
	Drop       Location `json:"drop"`
	TripType   string   `json:"trip_type"`
}

// BookingDTO flattens the nested Location structs for database operations
type BookingDTO struct {
	ID              uuid.UUID     `db:"id"`
	CustomerID      uuid.UUID     `db:"customer_id"`
	DriverID        *uuid.UUID    `db:"driver_id"`
	PickupLatitude  float64       `db:"pickup_latitude"`
	PickupLongitude float64       `db:"pickup_longitude"`
	PickupAddress   string        `db:"pickup_address"`
	DropLatitude    float64       `db:"drop_latitude"`
	DropLongitude   float64       `db:"drop_longitude"`
	DropAddress     string        `db:"drop_address"`
	TripType        string        `db:"trip_type"`
	Status          BookingStatus `db:"status"`
	CancelReason    CancelReason  `db:"cancel_reason"`
	Reassignments   int           `db:"reassignments"`
	CreatedAt       time.Time     `db:"created_at"`
	AssignedAt      *time.Time    `db:"assigned_at"`
	AcceptDeadline  *time.Time    `db:"accept_deadline"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

// ToDTO converts a Booking to a BookingDTO
func (b *Booking) ToDTO() *BookingDTO {
	return &BookingDTO{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		DriverID:        b.DriverID,
		PickupLatitude:  b.Pickup.Latitude,
		PickupLongitude: b.Pickup.Longitude,
		PickupAddress:   b.Pickup.Address,
		DropLatitude:    b.Drop.Latitude,
		DropLongitude:   b.Drop.Longitude,
		DropAddress:     b.Drop.Address,
		TripType:        b.TripType,
		Status:          b.Status,
		CancelReason:    b.CancelReason,
		Reassignments:   b.Reassignments,
		CreatedAt:       b.CreatedAt,
		AssignedAt:      b.AssignedAt,
		AcceptDeadline:  b.AcceptDeadline,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToBooking converts a BookingDTO back to a Booking
func (dto *BookingDTO) ToBooking() *Booking {
	return &Booking{
		ID:         dto.ID,
		CustomerID: dto.CustomerID,
		DriverID:   dto.DriverID,
		Pickup: Location{
			Latitude:  dto.PickupLatitude,
			Longitude: dto.PickupLongitude,
			Address:   dto.PickupAddress,
		},
		Drop: Location{
			Latitude:  dto.DropLatitude,
			Longitude: dto.DropLongitude,
			Address:   dto.DropAddress,
		},
		TripType:       dto.TripType,
		Status:         dto.Status,
		CancelReason:   dto.CancelReason,
		Reassignments:  dto.Reassignments,
		CreatedAt:      dto.CreatedAt,
		AssignedAt:     dto.AssignedAt,
		AcceptDeadline: dto.AcceptDeadline,
		UpdatedAt:      dto.UpdatedAt,
	}
}
