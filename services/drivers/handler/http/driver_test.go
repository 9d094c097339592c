package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/drivers/mocks"
)

func newPresenceContext(e *echo.Echo, driverID string, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, "/internal/drivers/"+driverID+"/presence", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(driverID)
	return c, rec
}

func TestSetPresence_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriverUC := mocks.NewMockDriverUC(ctrl)
	handler := NewDriverHandler(mockDriverUC, &models.Config{})

	e := echo.New()
	driverID := uuid.New()
	c, rec := newPresenceContext(e, driverID.String(), `{"online": true}`)

	mockDriverUC.EXPECT().SetPresence(gomock.Any(), driverID, true).Return(nil)

	err := handler.SetPresence(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Presence updated", response["message"])
}

func TestSetPresence_DriverBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriverUC := mocks.NewMockDriverUC(ctrl)
	handler := NewDriverHandler(mockDriverUC, &models.Config{})

	e := echo.New()
	driverID := uuid.New()
	c, rec := newPresenceContext(e, driverID.String(), `{"online": false}`)

	// Forcing a driver offline mid-ride must be rejected, not applied.
	mockDriverUC.EXPECT().SetPresence(gomock.Any(), driverID, false).
		Return(apperrors.ErrDriverBusy)

	err := handler.SetPresence(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "Driver has an active booking", response["error"])
	assert.Equal(t, float64(http.StatusConflict), response["code"])
}

func TestSetPresence_UnknownDriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriverUC := mocks.NewMockDriverUC(ctrl)
	handler := NewDriverHandler(mockDriverUC, &models.Config{})

	e := echo.New()
	driverID := uuid.New()
	c, rec := newPresenceContext(e, driverID.String(), `{"online": true}`)

	mockDriverUC.EXPECT().SetPresence(gomock.Any(), driverID, true).
		Return(apperrors.ErrUnknownDriver)

	err := handler.SetPresence(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetPresence_InvalidDriverID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriverUC := mocks.NewMockDriverUC(ctrl)
	handler := NewDriverHandler(mockDriverUC, &models.Config{})

	e := echo.New()
	c, rec := newPresenceContext(e, "not-a-uuid", `{"online": true}`)

	err := handler.SetPresence(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
