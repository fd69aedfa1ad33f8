package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/infrastructure/auth"
	"github.com/memoriascard/backend/internal/infrastructure/logger"
	"github.com/memoriascard/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTEmailKey   = "jwt_email"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// SkipRoutes are "METHOD /path" pairs that don't require authentication
	SkipRoutes []string
	// Optional callback if token is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/webhooks/stripe",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/catalog",
			"/api/v1/memory",
		},
		// Anonymous card lists answer empty with a sign-in notification
		SkipRoutes: []string{
			"GET /api/v1/cards",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		route := c.Request.Method + " " + path
		for _, skipRoute := range cfg.SkipRoutes {
			if route == skipRoute {
				c.Next()
				return
			}
		}

		tokenString, err := bearerToken(c)
		if err != nil {
			handleAuthError(c, cfg, auth.ErrInvalidToken, err.Error())
			return
		}

		claims, err := authenticate(c, cfg, tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		storeClaims(c, claims)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("email", claims.Email),
			)
		}

		c.Next()
	}
}

// OptionalJWTAuthMiddleware extracts claims when a valid token is present and
// lets anonymous requests through otherwise
func OptionalJWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			c.Next()
			return
		}

		claims, err := authenticate(c, cfg, tokenString)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("Ignoring invalid optional token", zap.Error(err))
			}
			c.Next()
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	if tokenString == "" {
		return "", errors.New("missing token")
	}
	return tokenString, nil
}

// authenticate validates the token and checks it against the blacklist.
// Blacklist lookups fail open so a redis outage does not lock everyone out.
func authenticate(c *gin.Context, cfg JWTMiddlewareConfig, tokenString string) (*auth.Claims, error) {
	claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	if cfg.TokenBlacklist != nil && claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		} else if blacklisted {
			return nil, auth.ErrTokenBlacklisted
		}
	}
	return claims, nil
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTEmailKey, claims.Email)

	ctx := c.Request.Context()
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeNotAuthenticated
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		errorCode = "TOKEN_INVALID"
		errorMessage = "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "TOKEN_INVALID"
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		errorCode = "TOKEN_REVOKED"
		errorMessage = "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(errorCode, errorMessage, c.GetString(RequestIDContextKey)))
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

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTEmail retrieves the email from JWT claims in context
func GetJWTEmail(c *gin.Context) string {
	return c.GetString(JWTEmailKey)
}

// SessionFrom builds the caller's session from the JWT claims. Requests
// without valid claims get the anonymous session.
func SessionFrom(c *gin.Context) identity.Session {
	userID, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		return identity.Session{}
	}
	return identity.NewSession(userID, GetJWTEmail(c))
}
