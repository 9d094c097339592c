package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	natspkg "github.com/swiftride/dispatch/internal/pkg/nats"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/services/match"
)

// MatchHandler consumes the JetStream events that trigger matching
type MatchHandler struct {
	matchUC    match.MatchUC
	natsClient *natspkg.Client
	nrApp      *newrelic.Application
}

// NewMatchHandler creates a new match NATS handler
func NewMatchHandler(
	matchUC match.MatchUC,
	natsClient *natspkg.Client,
	nrApp *newrelic.Application,
) *MatchHandler {
	return &MatchHandler{
		matchUC:    matchUC,
		natsClient: natsClient,
		nrApp:      nrApp,
	}
}

// InitNATSConsumers creates and starts the coordinator's durable consumers
func (h *MatchHandler) InitNATSConsumers() error {
	consumerConfigs := natspkg.DefaultConsumerConfigs()

	createdConfig := consumerConfigs["booking_created_match"]
	if err := h.natsClient.CreateConsumer(createdConfig); err != nil {
		return fmt.Errorf("failed to create booking created consumer: %w", err)
	}
	if err := h.natsClient.ConsumeMessages(createdConfig.StreamName, createdConfig.ConsumerName, h.handleBookingCreatedJS); err != nil {
		return fmt.Errorf("failed to start consuming booking created events: %w", err)
	}

	presenceConfig := consumerConfigs["driver_presence_match"]
	if err := h.natsClient.CreateConsumer(presenceConfig); err != nil {
		return fmt.Errorf("failed to create driver presence consumer: %w", err)
	}
	if err := h.natsClient.ConsumeMessages(presenceConfig.StreamName, presenceConfig.ConsumerName, h.handleDriverPresenceJS); err != nil {
		return fmt.Errorf("failed to start consuming driver presence events: %w", err)
	}

	logger.Info("Match coordinator NATS consumers initialized")
	return nil
}

// handleBookingCreatedJS triggers matching for a freshly created booking
func (h *MatchHandler) handleBookingCreatedJS(msg jetstream.Msg) error {
	txn := h.nrApp.StartTransaction("NATS.Match.HandleBookingCreated")
	defer txn.End()

	nrpkg.AddTransactionAttribute(txn, "message.subject", msg.Subject())
	ctx := newrelic.NewContext(context.Background(), txn)

	var event models.BookingEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, "Failed to unmarshal booking created event",
			logger.Err(err))
		// Malformed payloads never parse, redelivery would loop forever.
		return nil
	}

	bookingID, err := uuid.Parse(event.BookingID)
	if err != nil {
		logger.ErrorCtx(ctx, "Booking created event carries invalid id",
			logger.String("booking_id", event.BookingID))
		return nil
	}

	nrpkg.AddTransactionAttribute(txn, "booking.id", event.BookingID)

	if err := h.matchUC.RequestMatch(ctx, bookingID); err != nil {
		if errors.Is(err, apperrors.ErrNoDriverAvailable) {
			// Stays pending, presence events will retry.
			return nil
		}
		nrpkg.NoticeTransactionError(txn, err)
		logger.ErrorCtx(ctx, "Failed to match created booking",
			logger.String("booking_id", event.BookingID),
			logger.Err(err))
		return err
	}
	return nil
}

// handleDriverPresenceJS re-triggers matching when a driver comes online
func (h *MatchHandler) handleDriverPresenceJS(msg jetstream.Msg) error {
	txn := h.nrApp.StartTransaction("NATS.Match.HandleDriverPresence")
	defer txn.End()

	nrpkg.AddTransactionAttribute(txn, "message.subject", msg.Subject())
	ctx := newrelic.NewContext(context.Background(), txn)

	var event models.PresenceEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, "Failed to unmarshal presence event",
			logger.Err(err))
		return nil
	}

	if !event.Online {
		return nil
	}

	nrpkg.AddTransactionAttribute(txn, "driver.id", event.DriverID)
	logger.InfoCtx(ctx, "Driver online, re-matching pending bookings",
		logger.String("driver_id", event.DriverID))

	if err := h.matchUC.RematchPending(ctx); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return err
	}
	return nil
}
