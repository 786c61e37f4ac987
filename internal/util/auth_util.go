package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/middleware"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// AuthData holds the authenticated caller set by middleware.Auth
type AuthData struct {
	UserID uuid.UUID
	Role   string
	Token  string
}

// ExtractAuthData reads the caller from the Gin context.
// On failure it writes a 401 response and returns false.
func ExtractAuthData(c *gin.Context) (AuthData, bool) {
	userID, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthenticated, "User ID not found in context")
		return AuthData{}, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthenticated, "Invalid user ID format")
		return AuthData{}, false
	}

	token, _ := c.Get(middleware.ContextKeyToken)
	tokenStr, _ := token.(string)
	role, _ := c.Get(middleware.ContextKeyUserRole)
	roleStr, _ := role.(string)

	return AuthData{
		UserID: userUUID,
		Role:   roleStr,
		Token:  tokenStr,
	}, true
}

// ParseUUIDParam parses a path parameter as a UUID.
// On failure it writes a 400 response and returns false.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
