package balance

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

func TestHandler_GetBalance(t *testing.T) {
	service, _ := setup(t)
	handler := NewHandler(service, NewCsvLedgerRenderer())
	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	handler.GetBalance(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"today": "2025-01-08",
		"yearFlex": -1365,
		"overtime": 0,
		"month": -945,
		"week": 15,
		"vacation": 24,
		"weeks": [
			{"week": "2025-W01", "work": 480, "target": 1440, "flexDelta": -960, "overtime": 0},
			{"week": "2025-W02", "work": 975, "target": 1440, "flexDelta": -465, "overtime": 0}
		]
	}`, w.Body.String())
}

func TestHandler_GetLedger(t *testing.T) {
	t.Run("should answer JSON by default", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service, NewCsvLedgerRenderer())
		req := httptest.NewRequest(http.MethodGet, "/api/balance/ledger?from=2025-01-04&to=2025-01-06", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetLedger(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var rows []LedgerRowDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
		require.Len(t, rows, 3)
		assert.Equal(t, LedgerRowDTO{Date: "2025-01-04", Weekend: true, Running: 60}, rows[0])
		assert.Equal(t, LedgerRowDTO{Date: "2025-01-06", Target: 480, Work: 495, Delta: 15, Running: 75}, rows[2])
	})

	t.Run("should render CSV when asked to", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service, NewCsvLedgerRenderer())
		req := httptest.NewRequest(http.MethodGet, "/api/balance/ledger?from=2025-01-06&to=2025-01-08", nil).WithContext(ctx)
		req.Header.Set("Accept", "text/csv")
		w := httptest.NewRecorder()

		handler.GetLedger(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "Date,Weekday,Target,Work,Absence,Delta,Running,Missing\n"+
			"2025-01-06,Mon,08:00,08:15,00:00,00:15,01:15,false\n"+
			"2025-01-07,Tue,08:00,00:00,08:00,00:00,01:15,false\n"+
			"2025-01-08,Wed,08:00,00:00,00:00,-08:00,-06:45,true\n", w.Body.String())
	})

	t.Run("should resolve an ISO week to Monday through Sunday", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service, NewCsvLedgerRenderer())
		req := httptest.NewRequest(http.MethodGet, "/api/balance/ledger?week=2025-W02", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetLedger(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var rows []LedgerRowDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
		require.Len(t, rows, 7)
		assert.Equal(t, LedgerRowDTO{Date: "2025-01-06", Target: 480, Work: 495, Delta: 15, Running: 75}, rows[0])
		assert.Equal(t, "2025-01-12", rows[6].Date)
		assert.True(t, rows[6].Weekend)
	})

	t.Run("should extend a week range up to untilWeek", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service, NewCsvLedgerRenderer())
		req := httptest.NewRequest(http.MethodGet, "/api/balance/ledger?week=2025-W01&untilWeek=2025-W02", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetLedger(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var rows []LedgerRowDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
		require.Len(t, rows, 14)
		assert.Equal(t, "2024-12-30", rows[0].Date)
		assert.Equal(t, "2025-01-12", rows[13].Date)
	})

	t.Run("should reject bad weeks", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service, NewCsvLedgerRenderer())

		for _, query := range []string{"?week=2025-03", "?week=2025-W53", "?week=2025-W02&untilWeek=xx", "?week=2025-W03&untilWeek=2025-W02"} {
			req := httptest.NewRequest(http.MethodGet, "/api/balance/ledger"+query, nil).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetLedger(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
			var errResponse rest.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
			assert.NotEmpty(t, errResponse.Error)
		}
	})

	t.Run("should reject bad ranges", func(t *testing.T) {
		service, _ := setup(t)
		handler := NewHandler(service, NewCsvLedgerRenderer())

		for _, query := range []string{"", "?from=2025-01-06", "?from=06.01.2025&to=2025-01-08", "?from=2025-01-08&to=2025-01-06"} {
			req := httptest.NewRequest(http.MethodGet, "/api/balance/ledger"+query, nil).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetLedger(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
			var errResponse rest.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
			assert.NotEmpty(t, errResponse.Error)
		}
	})
}

func TestHandler_Calculate(t *testing.T) {
	service, _ := setup(t)
	handler := NewHandler(service, NewCsvLedgerRenderer())

	body := `{"t1":"07:00","t2":"12:00","t3":"12:30","t4":"15:45","date":"2025-01-06"}`
	req := httptest.NewRequest(http.MethodPost, "/api/calculator", bytes.NewBufferString(body)).WithContext(ctx)
	w := httptest.NewRecorder()
	handler.Calculate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"rawDuration": 495,
		"pauseDuration": 45,
		"netDuration": 480,
		"net": "08:00",
		"rulesApplied": ["Working at 09:30 (+15 min deduction)"],
		"dailyTarget": 480,
		"suggestedEnd": "15:45"
	}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/calculator", bytes.NewBufferString(`{"t1":"08:00"}`)).WithContext(ctx)
	w = httptest.NewRecorder()
	handler.Calculate(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rawDuration":0,"pauseDuration":0,"netDuration":0,"net":"00:00","rulesApplied":[],"dailyTarget":480}`, w.Body.String())

	for _, bad := range []string{"", `{"t1":"8h","t2":"12:00"}`, `{"t1":"08:00","t2":"12:00","date":"2025-1-6"}`} {
		req = httptest.NewRequest(http.MethodPost, "/api/calculator", bytes.NewBufferString(bad)).WithContext(ctx)
		w = httptest.NewRecorder()
		handler.Calculate(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", bad)
	}
}
