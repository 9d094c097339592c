package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/services/tracking"
)

// TrackingHandler consumes location updates and booking termination events
type TrackingHandler struct {
	trackingUC tracking.TrackingUC
	natsClient *natspkg.Client
	nrApp      *newrelic.Application
}

// NewTrackingHandler creates a new tracking NATS handler
func NewTrackingHandler(
	trackingUC tracking.TrackingUC,
	natsClient *natspkg.Client,
	nrApp *newrelic.Application,
) *TrackingHandler {
	return &TrackingHandler{
		trackingUC: trackingUC,
		natsClient: natsClient,
		nrApp:      nrApp,
	}
}

// InitNATSConsumers creates and starts the broadcaster's durable consumers
func (h *TrackingHandler) InitNATSConsumers() error {
	consumerConfigs := natspkg.DefaultConsumerConfigs()

	for _, name := range []string{"location_update_tracking", "booking_completed_tracking", "booking_cancelled_tracking"} {
		config := consumerConfigs[name]
		if err := h.natsClient.CreateConsumer(config); err != nil {
			return fmt.Errorf("failed to create %s consumer: %w", name, err)
		}

		var handler natspkg.JetStreamMessageHandler
		if name == "location_update_tracking" {
			handler = h.handleLocationUpdateJS
		} else {
			handler = h.handleBookingTerminatedJS
		}

		if err := h.natsClient.ConsumeMessages(config.StreamName, config.ConsumerName, handler); err != nil {
			return fmt.Errorf("failed to start consuming %s: %w", name, err)
		}
	}

	logger.Info("Tracking NATS consumers initialized")
	return nil
}

// handleLocationUpdateJS fans a location update out to booking subscribers
func (h *TrackingHandler) handleLocationUpdateJS(msg jetstream.Msg) error {
	txn := h.nrApp.StartTransaction("NATS.Tracking.HandleLocationUpdate")
	defer txn.End()

	nrpkg.AddTransactionAttribute(txn, "message.subject", msg.Subject())
	ctx := newrelic.NewContext(context.Background(), txn)

	var update models.LocationUpdate
	if err := json.Unmarshal(msg.Data(), &update); err != nil {
		logger.ErrorCtx(ctx, "Failed to unmarshal location update",
			logger.Err(err))
		return nil
	}

	nrpkg.AddTransactionAttribute(txn, "booking.id", update.BookingID)

	if err := h.trackingUC.HandleLocationEvent(ctx, update); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return err
	}
	return nil
}

// handleBookingTerminatedJS drops subscriptions when a booking ends
func (h *TrackingHandler) handleBookingTerminatedJS(msg jetstream.Msg) error {
	txn := h.nrApp.StartTransaction("NATS.Tracking.HandleBookingTerminated")
	defer txn.End()

	nrpkg.AddTransactionAttribute(txn, "message.subject", msg.Subject())
	ctx := newrelic.NewContext(context.Background(), txn)

	var event models.BookingEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, "Failed to unmarshal booking termination event",
			logger.Err(err))
		return nil
	}

	bookingID, err := uuid.Parse(event.BookingID)
	if err != nil {
		logger.ErrorCtx(ctx, "Termination event carries invalid booking id",
			logger.String("booking_id", event.BookingID))
		return nil
	}

	h.trackingUC.CloseBooking(ctx, bookingID)
	return nil
}
