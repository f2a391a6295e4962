package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthApp(t *testing.T) *echo.Echo {
	t.Helper()

	gdb := newTestDB(t)
	e := echo.New()

	health := e.Group("/health", middleware.BasicAuth(func(user, password string, c echo.Context) (bool, error) {
		return user == "admin" && password == "secret", nil
	}))
	health.GET("", NewHealthHandler(gdb).GetHealth)
	return e
}

func TestGetHealth(t *testing.T) {
	e := newHealthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
}

func TestGetHealthRequiresAuth(t *testing.T) {
	e := newHealthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
