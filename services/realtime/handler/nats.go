package handler

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	wspkg "github.com/swiftride/dispatch/internal/pkg/websocket"
)

// RealtimeHandler consumes booking lifecycle events and pushes them to the
// connected WebSocket clients of both booking participants.
type RealtimeHandler struct {
	manager    *wspkg.Manager
	natsClient *natspkg.Client
	nrApp      *newrelic.Application
}

// NewRealtimeHandler creates a new realtime NATS handler
func NewRealtimeHandler(
	manager *wspkg.Manager,
	natsClient *natspkg.Client,
	nrApp *newrelic.Application,
) *RealtimeHandler {
	return &RealtimeHandler{
		manager:    manager,
		natsClient: natsClient,
		nrApp:      nrApp,
	}
}

// InitNATSConsumers creates and starts the realtime push consumer
func (h *RealtimeHandler) InitNATSConsumers() error {
	config := natspkg.DefaultConsumerConfigs()["booking_events_realtime"]
	if err := h.natsClient.CreateConsumer(config); err != nil {
		return fmt.Errorf("failed to create booking_events_realtime consumer: %w", err)
	}

	if err := h.natsClient.ConsumeMessages(config.StreamName, config.ConsumerName, h.handleBookingEventJS); err != nil {
		return fmt.Errorf("failed to start consuming booking events: %w", err)
	}

	logger.Info("Realtime NATS consumers initialized")
	return nil
}

// handleBookingEventJS fans one lifecycle event out to connected clients.
// Disconnected participants are skipped, they catch up over HTTP.
func (h *RealtimeHandler) handleBookingEventJS(msg jetstream.Msg) error {
	txn := h.nrApp.StartTransaction("NATS.Realtime.HandleBookingEvent")
	defer txn.End()

	subject := msg.Subject()
	nrpkg.AddTransactionAttribute(txn, "message.subject", subject)

	if subject == constants.SubjectBookingAssigned {
		return h.pushAssignment(msg.Data())
	}

	pushEvent, ok := pushEventForSubject(subject)
	if !ok {
		// booking.created needs no client push, the creation response
		// already carries the booking.
		return nil
	}

	var event models.BookingEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error("Failed to unmarshal booking event",
			logger.String("subject", subject),
			logger.Err(err))
		return nil
	}

	h.manager.NotifyClient(event.CustomerID, pushEvent, event)
	if event.DriverID != "" {
		h.manager.NotifyClient(event.DriverID, pushEvent, event)
	}
	return nil
}

// pushAssignment delivers the offer to the driver and the progress update to
// the customer.
func (h *RealtimeHandler) pushAssignment(data []byte) error {
	var event models.AssignmentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Error("Failed to unmarshal assignment event",
			logger.Err(err))
		return nil
	}

	h.manager.NotifyClient(event.DriverID, constants.EventBookingAssigned, event)
	h.manager.NotifyClient(event.CustomerID, constants.EventBookingAssigned, event)
	return nil
}

func pushEventForSubject(subject string) (string, bool) {
	switch subject {
	case constants.SubjectBookingAccepted:
		return constants.EventBookingAccepted, true
	case constants.SubjectBookingDeclined:
		return constants.EventBookingDeclined, true
	case constants.SubjectBookingStarted:
		return constants.EventBookingStarted, true
	case constants.SubjectBookingCompleted:
		return constants.EventBookingCompleted, true
	case constants.SubjectBookingCancelled:
		return constants.EventBookingCancelled, true
	default:
		return "", false
	}
}
