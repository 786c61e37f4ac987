package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/middleware"
	"github.com/vuongngo/reactive-forum-api/internal/notify"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// WSHandler upgrades authenticated clients onto the event hub.
// Browsers cannot set headers on a websocket handshake, so the token travels in the query.
type WSHandler struct {
	hub       *notify.Hub
	validator middleware.TokenValidator
	logger    *zap.Logger
}

func NewWSHandler(hub *notify.Hub, validator middleware.TokenValidator, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		validator: validator,
		logger:    logger,
	}
}

// Subscribe godoc
// @Summary      실시간 이벤트 구독 (WebSocket)
// @Description  newThread, updatedComment 등 스레드 변경 이벤트를 수신합니다. threadId를 주면 해당 스레드 이벤트만 받습니다
// @Tags         events
// @Param        token    query string true  "세션 토큰"
// @Param        threadId query string false "Thread ID (UUID)"
// @Success      101 "Switching Protocols"
// @Failure      400 {object} response.ErrorResponse "잘못된 Thread ID"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Router       /ws [get]
func (h *WSHandler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthenticated, "token query parameter is required")
		return
	}

	var threadID *uuid.UUID
	if raw := c.Query("threadId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid threadId")
			return
		}
		threadID = &id
	}

	caller, err := h.validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, caller.ID, threadID); err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.String("user_id", caller.ID.String()), zap.Error(err))
	}
}
