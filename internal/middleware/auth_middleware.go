package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/errors"
	"github.com/ikkim/vendor-onboarding/pkg/util"
)

// Context keys for the verified caller
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	TenantKey    = "tenant"
)

type AuthMiddleware struct {
	registry *util.TenantRegistry
}

func NewAuthMiddleware(registry *util.TenantRegistry) *AuthMiddleware {
	return &AuthMiddleware{
		registry: registry,
	}
}

// Authenticate validates the bearer token against the tenant registry (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		principal, err := m.registry.Verify(parts[1])
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired, please sign in again")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, principal.UserID)
		c.Set(UserEmailKey, principal.Email)
		c.Set(TenantKey, principal.Tenant)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": principal.UserID,
			"tenant":  principal.Tenant,
		})

		c.Next()
	}
}

// RequireTenant admits only callers authenticated by one of the named tenants
func (m *AuthMiddleware) RequireTenant(tenants ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		tenant, exists := GetTenant(c)
		if !exists {
			log.Warn("Tenant information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzTenantNotFound, "Tenant information not found")
			c.Abort()
			return
		}

		for _, t := range tenants {
			if tenant == t {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Tenant not permitted", map[string]interface{}{
			"user_id":          userID,
			"tenant":           tenant,
			"required_tenants": tenants,
			"path":             c.Request.URL.Path,
		})
		errors.Forbidden(c, "")
		c.Abort()
	}
}

// GetUserID extracts the identity provider subject from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetTenant extracts the caller's tenant from context
func GetTenant(c *gin.Context) (string, bool) {
	tenant, exists := c.Get(TenantKey)
	if !exists {
		return "", false
	}
	t, ok := tenant.(string)
	return t, ok
}
