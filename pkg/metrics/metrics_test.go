package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-web/internal/rbac"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	e := echo.New()
	m := New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway) })

	for _, path := range []string{"/ok", "/ok", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	assert.Equal(t, int64(0), s.ActiveRequests)
	assert.Equal(t, int64(2), s.EndpointCounts["GET /ok"])
	assert.Equal(t, int64(2), s.StatusCodes[http.StatusOK])
	assert.Equal(t, int64(1), s.StatusCodes[http.StatusBadGateway])
}

func TestMiddleware_UnmatchedPathsShareOneLabel(t *testing.T) {
	e := echo.New()
	m := New()
	e.Use(m.Middleware())
	e.GET("/cart", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 25; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan-%d", i), nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	s := m.Snapshot()
	assert.Len(t, s.EndpointCounts, 1)
	assert.Equal(t, int64(25), s.EndpointCounts[UnmatchedEndpoint])
	assert.Equal(t, int64(25), s.StatusCodes[http.StatusNotFound])
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, http.MethodGet, methodLabel(http.MethodGet))
	assert.Equal(t, http.MethodPost, methodLabel(http.MethodPost))
	assert.Equal(t, "OTHER", methodLabel("BREW"))
	assert.Equal(t, "OTHER", methodLabel("X-RANDOM-1234"))
}

func TestMiddleware_StatusFromErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if !c.Response().Committed {
			_ = c.NoContent(http.StatusTooManyRequests)
		}
	}
	m := New()
	e.Use(m.Middleware())
	e.GET("/signout", func(c echo.Context) error { return errors.New("limited") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signout", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	s := m.Snapshot()
	assert.Equal(t, int64(1), s.StatusCodes[http.StatusTooManyRequests])
	assert.Equal(t, int64(1), s.TotalErrors)
}

func TestRecordDecision(t *testing.T) {
	m := New()
	m.RecordDecision("/dashboard/wallet", rbac.Decision{Outcome: rbac.OutcomeRedirect, Reason: rbac.ReasonNoSession})
	m.RecordDecision("/dashboard/wallet", rbac.Decision{Outcome: rbac.OutcomeRedirect, Reason: rbac.ReasonNoSession})
	m.RecordDecision("/dashboard/wallet", rbac.Decision{Outcome: rbac.OutcomeAllow, Reason: rbac.ReasonRoleMatched})

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.GuardDecisions["/dashboard/wallet"][rbac.ReasonNoSession])
	assert.Equal(t, int64(1), s.GuardDecisions["/dashboard/wallet"][rbac.ReasonRoleMatched])
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordDecision("/admin", rbac.Decision{Reason: rbac.ReasonRoleMismatch})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/metrics", nil), rec)
	require.NoError(t, m.Handler(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "guard_decisions")
	assert.Contains(t, body, "total_requests")
}
