package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/ratelimit"
)

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Development Origins", func(t *testing.T) {
		r := NewRouter(Config{Logger: logger.Discard()})

		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
	})

	t.Run("Production Without Origins", func(t *testing.T) {
		r := NewRouter(Config{IsProduction: true, Logger: logger.Discard()})
		gin.SetMode(gin.TestMode)

		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Production Origins", func(t *testing.T) {
		r := NewRouter(Config{IsProduction: true, ProdOrigins: "https://shareit.example, https://admin.shareit.example", Logger: logger.Discard()})
		gin.SetMode(gin.TestMode)

		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set("Origin", "https://admin.shareit.example")
		w := serve(r, req)

		assert.Equal(t, "https://admin.shareit.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouterRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(t *testing.T, trustedProxies string) *gin.Engine {
		store, err := ratelimit.NewStore(nil)
		require.NoError(t, err)
		limit, err := ratelimit.Middleware(store, "2-M")
		require.NoError(t, err)
		return NewRouter(Config{Logger: logger.Discard(), RateLimit: limit, TrustedProxies: trustedProxies})
	}

	t.Run("Same Client", func(t *testing.T) {
		r := newRouter(t, "")

		for range 2 {
			assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest("GET", "/healthz", nil)).Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest("GET", "/healthz", nil)).Code)
	})

	t.Run("Rotating Caller Headers", func(t *testing.T) {
		r := newRouter(t, "")

		codes := map[int]int{}
		for i := range 20 {
			req := httptest.NewRequest("GET", "/bookings", nil)
			req.Header.Set(auth.UserIDHeader, fmt.Sprintf("junk%d", i))
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
			codes[serve(r, req).Code]++
		}

		assert.Equal(t, 2, codes[http.StatusBadRequest], "only the first two reach identity")
		assert.Equal(t, 18, codes[http.StatusTooManyRequests])
	})

	t.Run("Trusted Proxy", func(t *testing.T) {
		r := newRouter(t, "192.0.2.0/24")

		call := func(forwardedFor string) int {
			req := httptest.NewRequest("GET", "/healthz", nil)
			req.Header.Set("X-Forwarded-For", forwardedFor)
			return serve(r, req).Code
		}

		assert.Equal(t, http.StatusOK, call("203.0.113.7"))
		assert.Equal(t, http.StatusOK, call("203.0.113.7"))
		assert.Equal(t, http.StatusTooManyRequests, call("203.0.113.7"))
		assert.Equal(t, http.StatusOK, call("203.0.113.8"), "clients behind the proxy are told apart")
	})
}

func TestIdentityRequiredOnBookingRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Config{Logger: logger.Discard()})

	w := serve(r, httptest.NewRequest("GET", "/bookings", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("GET", "/bookings", nil)
	req.Header.Set(auth.UserIDHeader, "abc")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)
}
