// Package apperrors defines the sentinel errors shared across the dispatch
// coordinator. Callers classify failures with errors.Is; races and staleness
// are absorbed internally wherever a safe default exists, only
// caller-actionable failures cross component boundaries.
package apperrors

import "errors"

var (
	// ErrUnknownDriver is returned for operations on an unregistered driver.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrDriverBusy is returned when a driver holding an active booking
	// attempts to go offline.
	ErrDriverBusy = errors.New("driver has an active booking")

	// ErrAlreadyAssigned is returned when a reserve attempt loses the
	// compare-and-set race for a driver.
	ErrAlreadyAssigned = errors.New("driver already assigned")

	// ErrStaleUpdate marks an out-of-order position update. Dropped and
	// logged, never surfaced to the sending client.
	ErrStaleUpdate = errors.New("stale position update")

	// ErrInvalidTransition is a structural misuse of the booking state
	// machine: the requested edge does not exist from the current state.
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrStaleState is returned to the loser of a transition race. The
	// losing call performed no side effect.
	ErrStaleState = errors.New("booking state changed concurrently")

	// ErrNoDriverAvailable means the candidate pool was empty or exhausted.
	// Recoverable: the booking stays pending and matching is retried.
	ErrNoDriverAvailable = errors.New("no driver available")

	// ErrNotYourBooking is returned when a driver acts on a booking that is
	// not assigned to them.
	ErrNotYourBooking = errors.New("booking not assigned to this driver")

	// ErrBookingNotFound is returned for operations on an unknown booking id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrPersistence wraps write-through failures. The in-memory transition
	// has been rolled back when this is returned.
	ErrPersistence = errors.New("persistence failure")
)
