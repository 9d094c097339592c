package nats

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/swiftride/dispatch/internal/pkg/constants"
)

// StreamConfigBuilder helps build stream configurations
type StreamConfigBuilder struct {
	config StreamConfig
}

// NewStreamConfigBuilder creates a new stream configuration builder
func NewStreamConfigBuilder(name string) *StreamConfigBuilder {
	return &StreamConfigBuilder{
		config: StreamConfig{
			Name:      name,
			Retention: jetstream.LimitsPolicy,
			Storage:   jetstream.FileStorage,
			Replicas:  1,
			MaxAge:    24 * time.Hour,
			MaxBytes:  100 * 1024 * 1024, // 100MB
			MaxMsgs:   1000000,
			Discard:   jetstream.DiscardOld,
		},
	}
}

// WithSubjects sets the subjects for the stream
func (b *StreamConfigBuilder) WithSubjects(subjects ...string) *StreamConfigBuilder {
	b.config.Subjects = subjects
	return b
}

// WithRetention sets the retention policy
func (b *StreamConfigBuilder) WithRetention(retention jetstream.RetentionPolicy) *StreamConfigBuilder {
	b.config.Retention = retention
	return b
}

// WithStorage sets the storage type
func (b *StreamConfigBuilder) WithStorage(storage jetstream.StorageType) *StreamConfigBuilder {
	b.config.Storage = storage
	return b
}

// WithMaxAge sets the maximum age for messages
func (b *StreamConfigBuilder) WithMaxAge(maxAge time.Duration) *StreamConfigBuilder {
	b.config.MaxAge = maxAge
	return b
}

// WithMaxBytes sets the maximum bytes for the stream
func (b *StreamConfigBuilder) WithMaxBytes(maxBytes int64) *StreamConfigBuilder {
	b.config.MaxBytes = maxBytes
	return b
}

// WithMaxMsgs sets the maximum number of messages
func (b *StreamConfigBuilder) WithMaxMsgs(maxMsgs int64) *StreamConfigBuilder {
	b.config.MaxMsgs = maxMsgs
	return b
}

// Build returns the stream configuration
func (b *StreamConfigBuilder) Build() StreamConfig {
	return b.config
}

// ConsumerConfigBuilder helps build consumer configurations
type ConsumerConfigBuilder struct {
	config ConsumerConfig
}

// NewConsumerConfigBuilder creates a new consumer configuration builder
func NewConsumerConfigBuilder(streamName, consumerName string) *ConsumerConfigBuilder {
	return &ConsumerConfigBuilder{
		config: ConsumerConfig{
			StreamName:    streamName,
			ConsumerName:  consumerName,
			DeliverPolicy: jetstream.DeliverAllPolicy,
			AckPolicy:     jetstream.AckExplicitPolicy,
			AckWait:       30 * time.Second,
			MaxDeliver:    3,
			ReplayPolicy:  jetstream.ReplayInstantPolicy,
			MaxAckPending: 1000,
		},
	}
}

// WithSubject sets the filter subject
func (b *ConsumerConfigBuilder) WithSubject(subject string) *ConsumerConfigBuilder {
	b.config.FilterSubject = subject
	return b
}

// WithDeliverPolicy sets the deliver policy
func (b *ConsumerConfigBuilder) WithDeliverPolicy(policy jetstream.DeliverPolicy) *ConsumerConfigBuilder {
	b.config.DeliverPolicy = policy
	return b
}

// WithMaxDeliver sets the maximum delivery attempts
func (b *ConsumerConfigBuilder) WithMaxDeliver(maxDeliver int) *ConsumerConfigBuilder {
	b.config.MaxDeliver = maxDeliver
	return b
}

// WithAckWait sets the acknowledgment wait time
func (b *ConsumerConfigBuilder) WithAckWait(ackWait time.Duration) *ConsumerConfigBuilder {
	b.config.AckWait = ackWait
	return b
}

// Build returns the consumer configuration
func (b *ConsumerConfigBuilder) Build() ConsumerConfig {
	return b.config
}

// DefaultStreamConfigs returns the stream configurations for the dispatch
// coordinator.
func DefaultStreamConfigs() []StreamConfig {
	return []StreamConfig{
		NewStreamConfigBuilder(constants.StreamBooking).
			WithSubjects("booking.>").
			WithRetention(jetstream.InterestPolicy).
			WithStorage(jetstream.FileStorage).
			WithMaxAge(7 * 24 * time.Hour). // 7 days for audit
			WithMaxBytes(200 * 1024 * 1024).
			WithMaxMsgs(2000000).
			Build(),

		NewStreamConfigBuilder(constants.StreamDriver).
			WithSubjects(constants.SubjectDriverPresence).
			WithRetention(jetstream.InterestPolicy).
			WithStorage(jetstream.FileStorage).
			WithMaxAge(24 * time.Hour).
			WithMaxBytes(50 * 1024 * 1024).
			WithMaxMsgs(500000).
			Build(),

		NewStreamConfigBuilder(constants.StreamLocation).
			WithSubjects(constants.SubjectLocationUpdate).
			WithRetention(jetstream.InterestPolicy).
			WithStorage(jetstream.MemoryStorage). // positions are stale fast
			WithMaxAge(2 * time.Hour).
			WithMaxBytes(100 * 1024 * 1024).
			WithMaxMsgs(1000000).
			Build(),
	}
}

// DefaultConsumerConfigs returns the durable consumer configurations keyed by
// consumer name.
func DefaultConsumerConfigs() map[string]ConsumerConfig {
	return map[string]ConsumerConfig{
		// Match coordinator reacts to fresh bookings and to drivers
		// coming online (re-scan trigger for pending bookings).
		"booking_created_match": NewConsumerConfigBuilder(constants.StreamBooking, "booking_created_match").
			WithSubject(constants.SubjectBookingCreated).
			WithDeliverPolicy(jetstream.DeliverAllPolicy).
			WithMaxDeliver(5).
			Build(),

		"driver_presence_match": NewConsumerConfigBuilder(constants.StreamDriver, "driver_presence_match").
			WithSubject(constants.SubjectDriverPresence).
			WithDeliverPolicy(jetstream.DeliverNewPolicy).
			WithMaxDeliver(3).
			Build(),

		// Realtime layer pushes lifecycle events to connected clients.
		"booking_events_realtime": NewConsumerConfigBuilder(constants.StreamBooking, "booking_events_realtime").
			WithSubject("booking.>").
			WithDeliverPolicy(jetstream.DeliverNewPolicy).
			WithMaxDeliver(3).
			Build(),

		// Tracking drops subscriptions once a booking terminates.
		"booking_completed_tracking": NewConsumerConfigBuilder(constants.StreamBooking, "booking_completed_tracking").
			WithSubject(constants.SubjectBookingCompleted).
			WithDeliverPolicy(jetstream.DeliverNewPolicy).
			WithMaxDeliver(3).
			Build(),

		"booking_cancelled_tracking": NewConsumerConfigBuilder(constants.StreamBooking, "booking_cancelled_tracking").
			WithSubject(constants.SubjectBookingCancelled).
			WithDeliverPolicy(jetstream.DeliverNewPolicy).
			WithMaxDeliver(3).
			Build(),

		// Tracking caches the last known position and fans out to
		// per-booking subscribers.
		"location_update_tracking": NewConsumerConfigBuilder(constants.StreamLocation, "location_update_tracking").
			WithSubject(constants.SubjectLocationUpdate).
			WithDeliverPolicy(jetstream.DeliverNewPolicy).
			WithMaxDeliver(2). // fast fail, a newer position supersedes
			Build(),
	}
}
