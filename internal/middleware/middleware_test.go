package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/auth"
	"github.com/BruksfildServices01/vetclinic-api/internal/metrics"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	sess := session.From(c)
	if !sess.Authenticated() {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, sess.UserID().String())
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/whoami", whoami)

	userID := uuid.New()
	raw, err := tokens.Issue(&models.User{ID: userID, Role: models.RoleClinic})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer " + raw, http.StatusOK, userID.String()},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid_authorization_header"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequireSession(t *testing.T) {
	r := gin.New()
	r.GET("/me", RequireSession(), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func corsRequest(r http.Handler, method, origin string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/x", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://App.example/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := corsRequest(r, http.MethodGet, "https://app.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Retry-After", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))

	w = corsRequest(r, http.MethodGet, "https://evil.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	w = corsRequest(r, http.MethodOptions, "https://app.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	assert.NotContains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	w = corsRequest(r, http.MethodOptions, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = corsRequest(r, http.MethodOptions, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSOpenPolicy(t *testing.T) {
	for _, allowed := range [][]string{nil, {"*"}} {
		r := gin.New()
		r.Use(CORSMiddleware(allowed))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := corsRequest(r, http.MethodGet, "https://anything.example")
		assert.Equal(t, "https://anything.example", w.Header().Get("Access-Control-Allow-Origin"), allowed)
	}
}

func TestMetricsAndLogger(t *testing.T) {
	m := metrics.NewCollector()
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Metrics(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `vetclinic_http_requests_total{method="GET",route="/health",status="200"} 3`)
	assert.Contains(t, body, `vetclinic_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}
