package match

import (
	"context"

	"github.com/swiftride/dispatch/internal/pkg/models"
)

// MatchGW publishes booking lifecycle events produced by the coordinator
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/swiftride/dispatch/services/match MatchGW
type MatchGW interface {
	// PublishAssignment emits booking.assigned with the accept deadline so
	// driver clients can run their countdown off the server-issued value.
	PublishAssignment(ctx context.Context, event models.AssignmentEvent) error

	// PublishBookingEvent emits a lifecycle event on the given subject.
	PublishBookingEvent(ctx context.Context, subject string, event models.BookingEvent) error
}
