package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexkonto/flexkonto/internal/config"
	"github.com/flexkonto/flexkonto/internal/utils"
	"github.com/flexkonto/flexkonto/pkg/balance"
	"github.com/flexkonto/flexkonto/pkg/time_entry"
	"github.com/flexkonto/flexkonto/pkg/user"
	"github.com/flexkonto/flexkonto/pkg/user_config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApplication() *Application {
	cfg := config.Application{
		Server:   config.Server{Addr: ":0"},
		Cors:     config.Cors{AllowedOrigins: "*"},
		Defaults: config.Defaults{WeeklyTargetHours: 41, YearlyVacationDays: 25},
	}
	repos := Repositories{
		Users:   user.NewRepositoryStub(),
		Configs: user_config.NewRepositoryStub(),
		Entries: time_entry.NewRepositoryStub(),
	}
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.January, 6, 18, 0, 0, 0, time.UTC)}
	return newApplication(cfg, BuildDependencies(repos, cfg, clock))
}

func do(app *Application, method, path, uid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if uid != "" {
		req.Header.Set(userIdHeader, uid)
	}
	w := httptest.NewRecorder()
	app.srv.Handler.ServeHTTP(w, req)
	return w
}

func TestApplication_EndToEnd(t *testing.T) {
	app := testApplication()

	// register
	w := do(app, http.MethodPost, "/api/user", "", `{"username":"anna","displayName":"Anna"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created user.UserDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.Uid)

	// book a Monday
	w = do(app, http.MethodPost, "/api/entries", created.Uid, `{"date":"2025-01-06","startTime":"08:00","endTime":"17:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// balances use the configured defaults, 41h a week
	w = do(app, http.MethodGet, "/api/balance", created.Uid, "")
	require.Equal(t, http.StatusOK, w.Code)
	var balances balance.BalanceDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&balances))
	assert.Equal(t, "2025-01-06", balances.Today)
	assert.Equal(t, 3, balances.Week)
	assert.Equal(t, -3*492+3, balances.YearFlex)
	assert.Equal(t, 25.0, balances.Vacation)

	// settings
	w = do(app, http.MethodGet, "/api/config", created.Uid, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"weeklyTargetHours":41`)

	w = do(app, http.MethodGet, "/api/user/current", created.Uid, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"anna"`)
}

func TestApplication_RequiresKnownUser(t *testing.T) {
	app := testApplication()

	assert.Equal(t, http.StatusUnauthorized, do(app, http.MethodGet, "/api/entries", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(app, http.MethodGet, "/api/entries", "nobody", "").Code)
	assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/health", "", "").Code)
}

func TestApplication_CorsPreflight(t *testing.T) {
	app := testApplication()
	req := httptest.NewRequest(http.MethodOptions, "/api/entries", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	app.srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
