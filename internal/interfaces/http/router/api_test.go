package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	billingapp "github.com/billadmin/backend/internal/application/billing"
	"github.com/billadmin/backend/internal/application/screen"
	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/infrastructure/auth"
	"github.com/billadmin/backend/internal/infrastructure/config"
	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/billadmin/backend/internal/interfaces/http/handler"
	"github.com/billadmin/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiSeed = `{
  "accounts": [
    {"id": "acc-1", "profile_id": "prof-1", "user_id": "user-1", "name": "Acme Corp", "is_active": true, "created_at": "2024-01-01"},
    {"id": "acc-2", "profile_id": "prof-1", "user_id": "user-2", "name": "Globex", "is_active": true, "created_at": "2024-01-02"}
  ],
  "invoices": [
    {"id": "inv-1", "invoice_number": "INV-001", "account_id": "acc-1", "total_amount": 40, "due_date": "2024-03-10", "created_at": "2024-02-10", "status": "sent"},
    {"id": "inv-2", "invoice_number": "INV-002", "account_id": "acc-2", "total_amount": 60, "due_date": "2024-03-20", "created_at": "2024-02-20", "status": "sent"}
  ]
}`

func createTestAPI(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	data := dataset.New(nil, nil)
	require.NoError(t, data.Load(strings.NewReader(apiSeed)))

	calc := billing.NewCalculator(billing.DefaultLateFeeRate)
	clock := func() time.Time { return time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC) }
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-at-least-32-chars",
		Issuer:                "billadmin",
		AccessTokenExpiration: time.Hour,
	})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	RegisterAPI(engine, Handlers{
		Lists:   handler.NewListHandler(screen.NewService(data, calc, screen.Options{Now: clock}, nil)),
		Billing: handler.NewBillingHandler(billingapp.NewOverdueService(data, calc, nil).WithClock(clock)),
		System:  handler.NewSystemHandler(data, "test"),
	}, middleware.JWTAuthMiddleware(jwtService))
	return engine, jwtService
}

func bearer(t *testing.T, svc *auth.JWTService, userID string, role access.Role) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(auth.GenerateTokenInput{UserID: userID, Role: role})
	require.NoError(t, err)
	return middleware.BearerPrefix + token.Token
}

func TestRegisterAPI(t *testing.T) {
	engine, jwtService := createTestAPI(t)

	get := func(path, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authorization != "" {
			req.Header.Set(middleware.AuthHeaderKey, authorization)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("health needs no token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get("/health", "").Code)
		assert.Equal(t, http.StatusOK, get("/api/v1/health", "").Code)
	})

	t.Run("every screen requires a token", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/accounts", "/api/v1/profiles", "/api/v1/plans", "/api/v1/services",
			"/api/v1/invoices", "/api/v1/invoices/inv-1", "/api/v1/billing/summary",
		} {
			w := get(path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDKey), path)
		}
	})

	t.Run("token scopes the invoice list", func(t *testing.T) {
		w := get("/api/v1/invoices", bearer(t, jwtService, "user-1", access.RoleUser))
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 1, resp.Meta.Total)
	})

	t.Run("super admin sees everything", func(t *testing.T) {
		w := get("/api/v1/invoices", bearer(t, jwtService, "root", access.RoleSuperAdmin))
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Meta.Total)
	})

	t.Run("invoice lookup outside scope is not found", func(t *testing.T) {
		w := get("/api/v1/invoices/inv-2", bearer(t, jwtService, "user-1", access.RoleUser))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("billing summary", func(t *testing.T) {
		w := get("/api/v1/billing/summary", bearer(t, jwtService, "user-2", access.RoleUser))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data billingapp.SummaryDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "60", resp.Data.OutstandingBalance.String())
		require.Len(t, resp.Data.OverdueAlerts, 1)
		assert.Equal(t, 5, resp.Data.OverdueAlerts[0].DaysOverdue)
	})
}
