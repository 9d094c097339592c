package http

import (
	"errors"
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/internal/utils"
	"github.com/swiftride/dispatch/services/match"
)

// MatchHandler exposes internal, API-key protected coordinator operations
// for system triggers and operational tooling.
type MatchHandler struct {
	matchUC match.MatchUC
}

// NewMatchHandler creates a new match HTTP handler
func NewMatchHandler(matchUC match.MatchUC) *MatchHandler {
	return &MatchHandler{matchUC: matchUC}
}

// RequestMatch handles POST /internal/bookings/:id/match
func (h *MatchHandler) RequestMatch(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid booking id")
	}

	txn := nrpkg.FromEchoContext(c)
	nrpkg.AddTransactionAttribute(txn, "booking.id", bookingID.String())

	if err := h.matchUC.RequestMatch(c.Request().Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBookingNotFound):
			return utils.NotFoundResponse(c, "Booking not found")
		case errors.Is(err, apperrors.ErrNoDriverAvailable):
			// Recoverable, the booking stays pending.
			return utils.SuccessResponse(c, nethttp.StatusAccepted, "No driver available, booking stays pending", nil)
		default:
			nrpkg.NoticeTransactionError(txn, err)
			return utils.InternalServerErrorResponse(c, "Match attempt failed")
		}
	}

	return utils.SuccessResponse(c, nethttp.StatusOK, "Match requested", nil)
}

// Timeout handles POST /internal/bookings/:id/timeout, forcing the deadline
// check for one booking ahead of the sweep.
func (h *MatchHandler) Timeout(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid booking id")
	}

	if err := h.matchUC.OnTimeout(c.Request().Context(), bookingID); err != nil {
		if errors.Is(err, apperrors.ErrBookingNotFound) {
			return utils.NotFoundResponse(c, "Booking not found")
		}
		return utils.InternalServerErrorResponse(c, "Timeout handling failed")
	}

	return utils.SuccessResponse(c, nethttp.StatusOK, "Timeout processed", nil)
}

// RegisterRoutes wires the coordinator triggers under the internal API key guard
func (h *MatchHandler) RegisterRoutes(e *echo.Echo, apiKeyMW echo.MiddlewareFunc) {
	g := e.Group("/internal/bookings", apiKeyMW)
	g.POST("/:id/match", h.RequestMatch)
	g.POST("/:id/timeout", h.Timeout)
}
