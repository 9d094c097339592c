package tracking

import (
	"sync"

	"github.com/swiftride/dispatch/internal/pkg/models"
)

// Subscription is one subscriber's view of a booking's location stream. The
// single-slot mailbox keeps only the newest unread update: a position is
// stale the moment a newer one exists, so buffering for slow readers would
// deliver wrong data later.
type Subscription struct {
	BookingID    string
	SubscriberID string

	updates   chan models.LocationUpdate
	done      chan struct{}
	closeOnce sync.Once
}

// NewSubscription creates a subscription with a single-slot mailbox
func NewSubscription(bookingID, subscriberID string) *Subscription {
	return &Subscription{
		BookingID:    bookingID,
		SubscriberID: subscriberID,
		updates:      make(chan models.LocationUpdate, 1),
		done:         make(chan struct{}),
	}
}

// Updates returns the mailbox channel. At most one update is ever pending.
func (s *Subscription) Updates() <-chan models.LocationUpdate {
	return s.updates
}

// Done is closed when the subscription ends
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Offer delivers an update, replacing an unread older one. Never blocks.
func (s *Subscription) Offer(update models.LocationUpdate) {
	select {
	case <-s.done:
		return
	default:
	}

	for {
		select {
		case s.updates <- update:
			return
		default:
			// Mailbox full, evict the unread update and retry.
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
