package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vuongngo/reactive-forum-api/internal/middleware"
)

func TestExtractAuthData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	t.Run("성공: 컨텍스트에 사용자 있음", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyUserRole, "admin")
		c.Set(middleware.ContextKeyToken, "token")

		data, ok := ExtractAuthData(c)

		assert.True(t, ok)
		assert.Equal(t, AuthData{UserID: userID, Role: "admin", Token: "token"}, data)
	})

	t.Run("실패: 사용자 없음", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		_, ok := ExtractAuthData(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("실패: 잘못된 형식", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(middleware.ContextKeyUserID, userID.String())

		_, ok := ExtractAuthData(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestParseUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "threadId", Value: id.String()}, {Key: "commentId", Value: "nope"}}

	parsed, ok := ParseUUIDParam(c, "threadId")
	assert.True(t, ok)
	assert.Equal(t, id, parsed)

	_, ok = ParseUUIDParam(c, "commentId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
