package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfix/superfix-backend/internal/config"
	"github.com/superfix/superfix-backend/internal/http/middleware"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/service"
)

func testEngine(t *testing.T) (*gin.Engine, *service.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: "test", AllowedOrigins: []string{"http://localhost:5173"}}
	tokens := service.NewTokenManager("router-test-secret-0123456789abcdef", time.Hour)
	// хэндлеры не нужны: запросы отсекаются раньше
	return SetupRouter(cfg, Handlers{}, tokens, middleware.NewRateLimiter(100, time.Minute), ""), tokens
}

func TestRouter_RoleGates(t *testing.T) {
	r, tokens := testEngine(t)
	heroToken, err := tokens.Issue(uuid.New(), models.RoleHero)
	require.NoError(t, err)
	adminToken, err := tokens.Issue(uuid.New(), models.RoleAdmin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"admin list without token", http.MethodGet, "/api/request", "", http.StatusUnauthorized},
		{"admin list as hero", http.MethodGet, "/api/request", heroToken, http.StatusForbidden},
		{"hero missions as admin", http.MethodGet, "/api/hero/my-missions", adminToken, http.StatusForbidden},
		{"applications as hero", http.MethodGet, "/api/admin/applications", heroToken, http.StatusForbidden},
		{"upload without token", http.MethodPost, "/api/media/upload", "", http.StatusUnauthorized},
		{"status with bad id", http.MethodPut, "/api/missions/abc/status", heroToken, http.StatusBadRequest},
		{"forged token", http.MethodDelete, "/api/heroes/" + uuid.NewString(), "not-a-jwt", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
