package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	wspkg "github.com/swiftride/dispatch/internal/pkg/websocket"
	"github.com/swiftride/dispatch/services/bookings"
	"github.com/swiftride/dispatch/services/drivers"
	"github.com/swiftride/dispatch/services/match"
	"github.com/swiftride/dispatch/services/tracking"
)

// WebSocketHandler terminates client connections and routes their commands
// to the coordinator use cases. One instance serves all connections.
type WebSocketHandler struct {
	manager    *wspkg.Manager
	driverUC   drivers.DriverUC
	bookingUC  bookings.BookingUC
	matchUC    match.MatchUC
	trackingUC tracking.TrackingUC
	nrApp      *newrelic.Application

	mu   sync.Mutex
	subs map[string][]string // client userID -> subscribed booking IDs
}

// NewWebSocketHandler creates the realtime WebSocket handler
func NewWebSocketHandler(
	manager *wspkg.Manager,
	driverUC drivers.DriverUC,
	bookingUC bookings.BookingUC,
	matchUC match.MatchUC,
	trackingUC tracking.TrackingUC,
	nrApp *newrelic.Application,
) *WebSocketHandler {
	return &WebSocketHandler{
		manager:    manager,
		driverUC:   driverUC,
		bookingUC:  bookingUC,
		matchUC:    matchUC,
		trackingUC: trackingUC,
		nrApp:      nrApp,
		subs:       make(map[string][]string),
	}
}

// HandleWebSocket upgrades the HTTP request and runs the message loop
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	return h.manager.HandleConnection(c, h.handleClient)
}

// RegisterRoutes wires the realtime WebSocket endpoint. Authentication
// happens during the upgrade handshake, not via middleware.
func (h *WebSocketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleWebSocket)
}

func (h *WebSocketHandler) handleClient(client *models.WebSocketClient, conn *websocket.Conn) error {
	client.Conn = conn
	h.manager.AddClient(client)
	defer func() {
		h.dropSubscriptions(client)
		h.manager.RemoveClient(client.UserID)
		logger.Info("WebSocket client disconnected",
			logger.String("user_id", client.UserID))
	}()

	logger.Info("WebSocket client connected",
		logger.String("user_id", client.UserID),
		logger.String("role", client.Role))

	for {
		var msg models.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("WebSocket read failed",
					logger.String("user_id", client.UserID),
					logger.Err(err))
			}
			return nil
		}

		h.routeMessage(client, msg)
	}
}

// routeMessage dispatches one client command. Command failures are reported
// back on the socket, they never tear the connection down.
func (h *WebSocketHandler) routeMessage(client *models.WebSocketClient, msg models.WSMessage) {
	txn := h.nrApp.StartTransaction("WS." + msg.Event)
	defer txn.End()
	txn.AddAttribute("client.user_id", client.UserID)
	txn.AddAttribute("client.role", client.Role)

	ctx := newrelic.NewContext(context.Background(), txn)

	switch msg.Event {
	case constants.EventPresenceUpdate:
		h.handlePresenceUpdate(ctx, client, msg.Data)
	case constants.EventLocationUpdate:
		h.handleLocationUpdate(ctx, client, msg.Data)
	case constants.EventBookingAccept:
		h.handleBookingAccept(ctx, client, msg.Data)
	case constants.EventBookingDecline:
		h.handleBookingDecline(ctx, client, msg.Data)
	case constants.EventRideStart:
		h.handleRideStart(ctx, client, msg.Data)
	case constants.EventRideComplete:
		h.handleRideComplete(ctx, client, msg.Data)
	case constants.EventBookingCancel:
		h.handleBookingCancel(ctx, client, msg.Data)
	case constants.EventSubscribeBooking:
		h.handleSubscribeBooking(ctx, client, msg.Data)
	default:
		h.sendError(client, constants.ErrorInvalidFormat, "unknown event: "+msg.Event)
	}
}

func (h *WebSocketHandler) sendError(client *models.WebSocketClient, code, message string) {
	if err := h.manager.SendErrorMessage(client, code, message); err != nil {
		logger.Warn("Failed to send WebSocket error",
			logger.String("user_id", client.UserID),
			logger.Err(err))
	}
}

// trackSubscription remembers a booking subscription for disconnect cleanup
func (h *WebSocketHandler) trackSubscription(client *models.WebSocketClient, bookingID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, id := range h.subs[client.UserID] {
		if id == bookingID {
			return
		}
	}
	h.subs[client.UserID] = append(h.subs[client.UserID], bookingID)
}

// dropSubscriptions ends every tracking stream the client had open
func (h *WebSocketHandler) dropSubscriptions(client *models.WebSocketClient) {
	h.mu.Lock()
	bookingIDs := h.subs[client.UserID]
	delete(h.subs, client.UserID)
	h.mu.Unlock()

	for _, id := range bookingIDs {
		if bookingID, err := uuid.Parse(id); err == nil {
			h.trackingUC.Unsubscribe(bookingID, client.UserID)
		}
	}
}
