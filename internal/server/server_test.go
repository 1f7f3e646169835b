package server_test

import (
	"net/http"
	"testing"

	"sahone-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	env := testutil.New(t, nil, nil)

	var body map[string]string
	require.Equal(t, http.StatusOK, env.JSON(t, http.MethodGet, "/health", nil, "", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsExposed(t *testing.T) {
	env := testutil.New(t, nil, nil)
	env.Do(t, http.MethodGet, "/api/menu/items", nil, "")

	status, raw := env.Do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "sahone_http_requests_total")
}

func TestErrorsRenderAsJSON(t *testing.T) {
	env := testutil.New(t, nil, nil)

	status, raw := env.Do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, testutil.ErrorMessage(t, raw))

	status, raw = env.Do(t, http.MethodGet, "/api/orders/mine", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Missing Authorization header", testutil.ErrorMessage(t, raw))
}

func TestAuthRateLimited(t *testing.T) {
	cfg := testutil.Config()
	cfg.RateLimitMax = 2
	env := testutil.New(t, cfg, nil)

	login := map[string]any{"email": "x@sahone.test", "password": "whatever1"}
	for i := 0; i < 2; i++ {
		status, _ := env.Do(t, http.MethodPost, "/api/auth/local/login", login, "")
		require.Equal(t, http.StatusUnauthorized, status)
	}
	status, raw := env.Do(t, http.MethodPost, "/api/auth/local/login", login, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests, try again later", testutil.ErrorMessage(t, raw))

	// other routes are not limited
	status, _ = env.Do(t, http.MethodGet, "/api/offers", nil, "")
	assert.Equal(t, http.StatusOK, status)
}
