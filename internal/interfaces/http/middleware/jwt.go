package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/infrastructure/auth"
	"github.com/billadmin/backend/internal/infrastructure/logger"
	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var errMissingCredentials = errors.New("missing bearer credentials")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/api/v1/health"},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token and stores the
// caller principal. A token carrying an unknown role is accepted with user
// scope and logged; it never widens visibility.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, log, errMissingCredentials, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, log, errMissingCredentials, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, log, errMissingCredentials, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			log.Warn("Unknown role in token, falling back to user scope",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(PrincipalKey, principal)

		ctx := c.Request.Context()
		ctx, _ = logger.WithPrincipal(ctx, logger.FromContext(ctx), principal.ID, string(principal.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	text := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, text = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, text = dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		code, text = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, text))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetPrincipal retrieves the authenticated caller from gin.Context
func GetPrincipal(c *gin.Context) (access.Principal, bool) {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(access.Principal); ok {
			return p, true
		}
	}
	return access.Principal{}, false
}
