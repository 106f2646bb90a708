package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/limiter"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func resCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var res app.Res
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Code
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "secret", Expiry: time.Hour})
	token, err := tm.Generate("u-1", "s-1", false)
	require.NoError(t, err)

	r := newEngine(UserAuthToken(tm))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, app.GetUID(c)+"/"+app.GetSessionUUID(c))
	})

	tests := []struct {
		name     string
		setup    func(req *http.Request)
		wantHTTP int
		wantBody string
		wantCode int
	}{
		{"bearer header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "u-1/s-1", 0},
		{"raw header", func(req *http.Request) { req.Header.Set("Authorization", token) }, http.StatusOK, "u-1/s-1", 0},
		{"query token", func(req *http.Request) { req.URL.RawQuery = "token=" + token }, http.StatusOK, "u-1/s-1", 0},
		{"missing", func(req *http.Request) {}, http.StatusUnauthorized, "", code.ErrorNotUserAuthToken.Code()},
		{"invalid", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, "", code.ErrorInvalidUserAuthToken.Code()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := serve(r, req)
			assert.Equal(t, tt.wantHTTP, w.Code)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, resCode(t, w))
				return
			}
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	r := newEngine(TraceMiddlewareWithConfig(true, ""))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), logger.TraceID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	assert.Equal(t, "given-id", serve(r, req).Header().Get(DefaultTraceIDHeader))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(DefaultTraceIDHeader), 36)
}

func TestContextTimeout(t *testing.T) {
	r := newEngine(ContextTimeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, code.ErrorRequestTimeout.Code(), resCode(t, w))

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key:          "/v1/items/sync",
		FillInterval: time.Hour,
		Capacity:     1,
		Quantum:      1,
	})
	r := newEngine(RateLimiter(l))
	r.POST("/v1/items/sync", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/v1/items/sync", nil)).Code)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/v1/items/sync", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/healthcheck", nil)).Code)
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(RecoveryWithLogger(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, code.ErrorServerInternal.Code(), resCode(t, w))
}

func TestCors(t *testing.T) {
	r := newEngine(Cors())
	r.GET("/version", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/version", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	r := newEngine()
	r.NoRoute(NotFound)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, code.ErrorNotFoundAPI.Code(), resCode(t, w))
}
