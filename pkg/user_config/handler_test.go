package user_config

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexkonto/flexkonto/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_GetConfig(t *testing.T) {
	service, _, _ := setup()
	handler := NewHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	handler.GetConfig(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"weeklyTargetHours":41,"yearlyVacationDays":25,"initialOvertimeBalance":0,"vacationCarryover":0}`, w.Body.String())
}

func TestHandler_UpdateConfig(t *testing.T) {
	service, _, _ := setup()
	handler := NewHandler(service)
	body, _ := json.Marshal(ConfigDTO{WeeklyTargetHours: 40, YearlyVacationDays: 30, InitialOvertimeBalance: -75, VacationCarryover: 1.5})
	req := httptest.NewRequest(http.MethodPost, "/api/config", bytes.NewBuffer(body)).WithContext(ctx)
	w := httptest.NewRecorder()

	handler.UpdateConfig(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var dto ConfigDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, -75, dto.InitialOvertimeBalance)

	cfg, err := service.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.WeeklyTargetHours)
	assert.Equal(t, 1.5, cfg.VacationCarryover)
}

func TestHandler_UpdateConfig_Invalid(t *testing.T) {
	service, _, _ := setup()
	handler := NewHandler(service)

	for _, body := range []string{"", `{"weeklyTargetHours": 200}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/config", bytes.NewBufferString(body)).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.UpdateConfig(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		var errResponse rest.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
		assert.NotEmpty(t, errResponse.Error)
	}
}
