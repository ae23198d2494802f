package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/infrastructure/auth"
	"github.com/billadmin/backend/internal/infrastructure/config"
	"github.com/billadmin/backend/internal/infrastructure/logger"
	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, userID string, role access.Role) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(auth.GenerateTokenInput{UserID: userID, Role: role})
	require.NoError(t, err)
	return token.Token
}

func newProtectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/whoami", func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":      p.ID,
			"role":    p.Role,
			"ctx_uid": logger.GetUserID(c.Request.Context()),
		})
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(DefaultJWTConfig(svc))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+newTestToken(t, svc, "admin-1", access.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "admin-1", body["id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "admin-1", body["ctx_uid"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(DefaultJWTConfig(svc))

	expired := auth.NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "test-issuer", AccessTokenExpiration: -time.Minute})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"basic auth", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized},
		{"empty bearer", BearerPrefix, dto.ErrCodeUnauthorized},
		{"garbage token", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired token", BearerPrefix + newTestToken(t, expired, "user-1", access.RoleUser), dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_UnknownRoleFallsBackToUser(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := DefaultJWTConfig(newTestJWTService())
	cfg.Logger = zap.New(core)
	router := newProtectedRouter(cfg)

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		UserID: "user-7",
		Role:   "owner",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", decodeBody(t, w)["role"])
	assert.Equal(t, 1, logs.FilterMessage("Unknown role in token, falling back to user scope").Len())
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newProtectedRouter(DefaultJWTConfig(newTestJWTService()))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPrincipal_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetPrincipal(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))
}
