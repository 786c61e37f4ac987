package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vuongngo/reactive-forum-api/internal/policy"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// Context keys set by Auth
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyToken    = "jwtToken"
)

// TokenValidator checks a session token and returns the caller it belongs to
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*policy.Caller, error)
}

// Auth returns a middleware that requires a valid "Bearer <token>" session token
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthenticated, "Authorization header is required")
			return
		}

		token, ok := BearerToken(authHeader)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthenticated, "Invalid authorization header format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		caller, err := validator.ValidateToken(ctx, token)
		if err != nil {
			if response.CodeOf(err) == response.ErrCodeInternal {
				response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to validate token")
				return
			}
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthenticated, "Invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, caller.ID)
		c.Set(ContextKeyUserRole, caller.Role)
		c.Set(ContextKeyToken, token)

		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
