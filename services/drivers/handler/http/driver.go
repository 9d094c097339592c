package http

import (
	"errors"
	nethttp "net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/constants"
	jwtpkg "github.com/swiftride/dispatch/internal/pkg/jwt"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/models"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/internal/utils"
	"github.com/swiftride/dispatch/services/drivers"
)

// DriverHandler exposes internal driver provisioning endpoints
type DriverHandler struct {
	driverUC drivers.DriverUC
	cfg      *models.Config
}

// NewDriverHandler creates a new driver HTTP handler
func NewDriverHandler(driverUC drivers.DriverUC, cfg *models.Config) *DriverHandler {
	return &DriverHandler{
		driverUC: driverUC,
		cfg:      cfg,
	}
}

// RegisterDriver handles POST /internal/drivers. The response carries a JWT
// so the driver app can connect without a separate token exchange.
func (h *DriverHandler) RegisterDriver(c echo.Context) error {
	var req models.DriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.VehiclePlate) == "" {
		return utils.BadRequestResponse(c, "fullname and vehicle_plate are required")
	}

	driver := &models.Driver{
		ID:           uuid.New(),
		FullName:     req.FullName,
		VehiclePlate: req.VehiclePlate,
		Presence:     models.PresenceOffline,
	}

	txn := nrpkg.FromEchoContext(c)
	nrpkg.AddTransactionAttribute(txn, "driver.id", driver.ID.String())

	if err := h.driverUC.RegisterDriver(c.Request().Context(), driver); err != nil {
		logger.Error("Failed to register driver",
			logger.String("driver_id", driver.ID.String()),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to register driver")
	}

	token, expiresAt, err := jwtpkg.GenerateToken(driver.ID, constants.RoleDriver, h.cfg.JWT)
	if err != nil {
		logger.Error("Failed to issue driver token",
			logger.String("driver_id", driver.ID.String()),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to issue driver token")
	}

	return utils.SuccessResponse(c, nethttp.StatusCreated, "Driver registered", models.DriverCredentials{
		Driver:    driver,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// GetDriver handles GET /internal/drivers/:id
func (h *DriverHandler) GetDriver(c echo.Context) error {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid driver id")
	}

	driver, err := h.driverUC.GetDriver(c.Request().Context(), driverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownDriver) {
			return utils.NotFoundResponse(c, "Driver not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to load driver")
	}

	return utils.SuccessResponse(c, nethttp.StatusOK, "", driver)
}

// SetPresence handles PUT /internal/drivers/:id/presence, letting operational
// tooling force a driver's presence when the driver app is unreachable.
func (h *DriverHandler) SetPresence(c echo.Context) error {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid driver id")
	}

	var req models.PresenceRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	txn := nrpkg.FromEchoContext(c)
	nrpkg.AddTransactionAttribute(txn, "driver.id", driverID.String())

	if err := h.driverUC.SetPresence(c.Request().Context(), driverID, req.Online); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnknownDriver):
			return utils.NotFoundResponse(c, "Driver not found")
		case errors.Is(err, apperrors.ErrDriverBusy):
			return utils.ConflictResponse(c, "Driver has an active booking")
		default:
			logger.Error("Failed to set driver presence",
				logger.String("driver_id", driverID.String()),
				logger.Err(err))
			return utils.InternalServerErrorResponse(c, "Failed to set presence")
		}
	}

	return utils.SuccessResponse(c, nethttp.StatusOK, "Presence updated", nil)
}

// RegisterRoutes wires the driver endpoints under the internal API key guard
func (h *DriverHandler) RegisterRoutes(e *echo.Echo, apiKeyMW echo.MiddlewareFunc) {
	g := e.Group("/internal/drivers", apiKeyMW)
	g.POST("", h.RegisterDriver)
	g.GET("/:id", h.GetDriver)
	g.PUT("/:id/presence", h.SetPresence)
}
