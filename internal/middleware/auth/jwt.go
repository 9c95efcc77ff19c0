package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthUser represents an authenticated support operator
type AuthUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// operatorClaims is the token payload issued to support operators
type operatorClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey contextKey = "authenticated_user"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
	// RequiredRole, when set, must equal the token's role claim
	RequiredRole string
}

// JWTMiddleware creates a middleware that validates HS256 bearer tokens for
// the admin routes. Tokens must carry an expiry.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(config.Secret), nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			tokenString, code, message := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if code != "" {
				config.Logger.Warn("Rejected authorization header",
					zap.String("code", code),
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return reject(c, http.StatusUnauthorized, code, message)
			}

			claims := &operatorClaims{}
			if _, err := parser.ParseWithClaims(tokenString, claims, keyFunc); err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return reject(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			}

			if claims.Subject == "" {
				config.Logger.Warn("JWT without subject", zap.String("path", path))
				return reject(c, http.StatusUnauthorized, "INVALID_CLAIMS", "Invalid token claims")
			}

			if config.RequiredRole != "" && claims.Role != config.RequiredRole {
				config.Logger.Warn("Insufficient role",
					zap.String("user_id", claims.Subject),
					zap.String("role", claims.Role),
					zap.String("path", path))
				return reject(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Insufficient permissions")
			}

			authUser := &AuthUser{
				UserID: claims.Subject,
				Email:  claims.Email,
				Role:   claims.Role,
			}

			ctx := context.WithValue(c.Request().Context(), userContextKey, authUser)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", authUser.UserID)

			config.Logger.Debug("Operator authenticated",
				zap.String("user_id", authUser.UserID),
				zap.String("role", authUser.Role),
				zap.String("path", path))

			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header. A non-empty
// code means the header was rejected.
func bearerToken(header string) (token, code, message string) {
	if header == "" {
		return "", "MISSING_AUTH_HEADER", "Authorization header required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", "INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>"
	}
	return strings.TrimSpace(token), "", ""
}

func reject(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{
		"error": message,
		"code":  code,
	})
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}

// RequireAuth returns the authenticated user, or writes a 401 and returns
// a nil user
func RequireAuth(c echo.Context) (*AuthUser, error) {
	user, err := GetUserFromContext(c)
	if err != nil {
		return nil, reject(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
	}
	return user, nil
}
