package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/tracking"
)

// handlePresenceUpdate toggles the driver online or offline
func (h *WebSocketHandler) handlePresenceUpdate(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	driverID, ok := h.requireDriver(client)
	if !ok {
		return
	}

	var req models.PresenceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, constants.ErrorInvalidFormat, "invalid presence payload")
		return
	}

	if err := h.driverUC.SetPresence(ctx, driverID, req.Online); err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}

	h.manager.NotifyClient(client.UserID, constants.EventPresenceUpdate, models.PresenceEvent{
		DriverID:  client.UserID,
		Online:    req.Online,
		Timestamp: models.Now(),
	})
}

// handleLocationUpdate ingests one driver position sample. Success is silent,
// position streams are too chatty to ack one by one.
func (h *WebSocketHandler) handleLocationUpdate(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	driverID, ok := h.requireDriver(client)
	if !ok {
		return
	}

	var location models.Location
	if err := json.Unmarshal(data, &location); err != nil {
		h.sendError(client, constants.ErrorInvalidFormat, "invalid location payload")
		return
	}
	if location.Timestamp.IsZero() {
		location.Timestamp = models.Now()
	}

	if err := h.trackingUC.IngestLocation(ctx, driverID, location); err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
	}
}

// handleBookingAccept claims the assignment for the connected driver
func (h *WebSocketHandler) handleBookingAccept(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	driverID, bookingID, ok := h.parseDriverAction(client, data)
	if !ok {
		return
	}

	booking, err := h.matchUC.OnAccept(ctx, bookingID, driverID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}
	h.manager.NotifyClient(client.UserID, constants.EventBookingAccepted, booking)
}

// handleBookingDecline hands the assignment back for re-matching
func (h *WebSocketHandler) handleBookingDecline(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	driverID, bookingID, ok := h.parseDriverAction(client, data)
	if !ok {
		return
	}

	booking, err := h.matchUC.OnDecline(ctx, bookingID, driverID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}
	h.manager.NotifyClient(client.UserID, constants.EventBookingDeclined, booking)
}

// handleRideStart moves an accepted booking into the in-ride state
func (h *WebSocketHandler) handleRideStart(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	driverID, bookingID, ok := h.parseDriverAction(client, data)
	if !ok {
		return
	}

	booking, err := h.matchUC.OnStart(ctx, bookingID, driverID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}
	h.manager.NotifyClient(client.UserID, constants.EventBookingStarted, booking)
}

// handleRideComplete finishes the ride and frees the driver
func (h *WebSocketHandler) handleRideComplete(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	driverID, bookingID, ok := h.parseDriverAction(client, data)
	if !ok {
		return
	}

	booking, err := h.matchUC.OnComplete(ctx, bookingID, driverID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}
	h.manager.NotifyClient(client.UserID, constants.EventBookingCompleted, booking)
}

// handleBookingCancel cancels the customer's own booking
func (h *WebSocketHandler) handleBookingCancel(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	customerID, err := uuid.Parse(client.UserID)
	if err != nil {
		h.sendError(client, constants.ErrorUnauthorized, "invalid client identity")
		return
	}

	var req models.CancelRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, constants.ErrorInvalidFormat, "invalid cancel payload")
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		h.sendError(client, constants.ErrorValidationFailed, "invalid booking id")
		return
	}

	booking, err := h.matchUC.OnCancel(ctx, bookingID, customerID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}
	h.manager.NotifyClient(client.UserID, constants.EventBookingCancelled, booking)
}

// handleSubscribeBooking opens a live tracking stream for a booking the
// client is part of, pumping updates until the booking ends or the client
// disconnects.
func (h *WebSocketHandler) handleSubscribeBooking(ctx context.Context, client *models.WebSocketClient, data json.RawMessage) {
	var req models.SubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, constants.ErrorInvalidFormat, "invalid subscribe payload")
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		h.sendError(client, constants.ErrorValidationFailed, "invalid booking id")
		return
	}

	booking, err := h.bookingUC.GetBooking(ctx, bookingID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}
	if !h.mayTrack(client, booking) {
		h.sendError(client, constants.ErrorNotYourBooking, "not a participant of this booking")
		return
	}

	sub, err := h.trackingUC.Subscribe(ctx, bookingID, client.UserID)
	if err != nil {
		h.sendError(client, wsErrorCode(err), err.Error())
		return
	}

	h.trackSubscription(client, req.BookingID)
	go h.pumpLocations(client, sub)
}

// pumpLocations forwards tracking updates to the client until the stream
// closes. The final buffered position is drained before exiting so a
// terminal-booking snapshot still reaches the client.
func (h *WebSocketHandler) pumpLocations(client *models.WebSocketClient, sub *tracking.Subscription) {
	send := func(update models.LocationUpdate) {
		if err := h.manager.SendMessage(client, constants.EventDriverLocation, update); err != nil {
			logger.Warn("Failed to push location update",
				logger.String("user_id", client.UserID),
				logger.String("booking_id", sub.BookingID),
				logger.Err(err))
		}
	}

	for {
		select {
		case <-sub.Done():
			select {
			case update := <-sub.Updates():
				send(update)
			default:
			}
			return
		case update := <-sub.Updates():
			send(update)
		}
	}
}

// requireDriver resolves the client identity for driver-only commands
func (h *WebSocketHandler) requireDriver(client *models.WebSocketClient) (uuid.UUID, bool) {
	if client.Role != constants.RoleDriver {
		h.sendError(client, constants.ErrorUnauthorized, "driver role required")
		return uuid.Nil, false
	}
	driverID, err := uuid.Parse(client.UserID)
	if err != nil {
		h.sendError(client, constants.ErrorUnauthorized, "invalid client identity")
		return uuid.Nil, false
	}
	return driverID, true
}

// parseDriverAction validates a booking action command from a driver
func (h *WebSocketHandler) parseDriverAction(client *models.WebSocketClient, data json.RawMessage) (uuid.UUID, uuid.UUID, bool) {
	driverID, ok := h.requireDriver(client)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	var req models.DriverActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, constants.ErrorInvalidFormat, "invalid action payload")
		return uuid.Nil, uuid.Nil, false
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		h.sendError(client, constants.ErrorValidationFailed, "invalid booking id")
		return uuid.Nil, uuid.Nil, false
	}
	return driverID, bookingID, true
}

// mayTrack restricts tracking streams to the booking's participants
func (h *WebSocketHandler) mayTrack(client *models.WebSocketClient, booking *models.Booking) bool {
	if booking.CustomerID.String() == client.UserID {
		return true
	}
	return booking.DriverID != nil && booking.DriverID.String() == client.UserID
}

// wsErrorCode maps coordinator errors onto wire-level error codes
func wsErrorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotYourBooking):
		return constants.ErrorNotYourBooking
	case errors.Is(err, apperrors.ErrBookingNotFound):
		return constants.ErrorBookingNotFound
	case errors.Is(err, apperrors.ErrDriverBusy):
		return constants.ErrorDriverBusy
	case errors.Is(err, apperrors.ErrStaleState):
		return constants.ErrorStaleState
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return constants.ErrorInvalidTransition
	case errors.Is(err, apperrors.ErrUnknownDriver):
		return constants.ErrorValidationFailed
	default:
		return constants.ErrorInternalError
	}
}
