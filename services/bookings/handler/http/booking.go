package http

import (
	"errors"
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/internal/utils"
	"github.com/swiftride/dispatch/services/bookings"
)

// BookingHandler exposes the customer-facing booking REST endpoints
type BookingHandler struct {
	bookingUC bookings.BookingUC
}

// NewBookingHandler creates a new booking HTTP handler
func NewBookingHandler(bookingUC bookings.BookingUC) *BookingHandler {
	return &BookingHandler{bookingUC: bookingUC}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing identity")
	}

	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	// The authenticated identity is authoritative, whatever the body says.
	req.CustomerID = userID.String()

	txn := nrpkg.FromEchoContext(c)
	nrpkg.AddTransactionAttribute(txn, "customer.id", req.CustomerID)

	booking, err := h.bookingUC.CreateBooking(c.Request().Context(), &req)
	if err != nil {
		logger.Error("Failed to create booking",
			logger.String("customer_id", req.CustomerID),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to create booking")
	}

	return utils.SuccessResponse(c, nethttp.StatusCreated, "Booking created", booking)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid booking id")
	}

	booking, err := h.bookingUC.GetBooking(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBookingNotFound) {
			return utils.NotFoundResponse(c, "Booking not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to load booking")
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing identity")
	}
	if booking.CustomerID != userID && (booking.DriverID == nil || *booking.DriverID != userID) {
		return utils.ForbiddenResponse(c, "Not your booking")
	}

	return utils.SuccessResponse(c, nethttp.StatusOK, "", booking)
}

// RegisterRoutes wires the booking endpoints behind JWT authentication
func (h *BookingHandler) RegisterRoutes(e *echo.Echo, jwtMW echo.MiddlewareFunc) {
	g := e.Group("/bookings", jwtMW)
	g.POST("", h.CreateBooking)
	g.GET("/:id", h.GetBooking)
}
