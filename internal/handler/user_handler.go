package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/response"
	"github.com/vuongngo/reactive-forum-api/internal/service"
	"github.com/vuongngo/reactive-forum-api/internal/util"
)

type UserHandler struct {
	credentialService service.CredentialService
	logger            *zap.Logger
}

func NewUserHandler(credentialService service.CredentialService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		credentialService: credentialService,
		logger:            logger,
	}
}

// ListUsers godoc
// @Summary      사용자 목록 조회
// @Description  필터(`field=op:value`)와 페이지네이션으로 사용자를 조회합니다
// @Tags         users
// @Produce      json
// @Param        limit    query int    false "페이지 크기 (기본 10, 최대 100)"
// @Param        page     query int    false "페이지 번호 (0부터)"
// @Param        username query string false "예: like:mo"
// @Success      200 {object} response.SuccessResponse{data=[]dto.UserResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 쿼리"
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	opts, ok := parseListQuery(c, dto.UserQueryFields)
	if !ok {
		return
	}

	users, err := h.credentialService.List(c.Request.Context(), opts)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, users)
}

// GetUser godoc
// @Summary      사용자 조회
// @Tags         users
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 User ID"
// @Failure      404 {object} response.ErrorResponse "사용자를 찾을 수 없음"
// @Router       /user/{userId} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.credentialService.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      프로필 수정
// @Description  비어 있지 않은 필드(username, firstName, lastName, avatar)만 반영합니다
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path string                true "User ID (UUID)"
// @Param        request body dto.UpdateUserRequest true "수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse} "수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 중복된 사용자명"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Router       /user/{userId} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "userId")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.credentialService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      사용자 삭제
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse "삭제 성공"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "사용자를 찾을 수 없음"
// @Router       /user/{userId} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.credentialService.Remove(c.Request.Context(), userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// ToggleFlag godoc
// @Summary      스레드 플래그 토글
// @Description  스레드를 사용자의 플래그 목록에 추가하거나 제거합니다
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path string true "User ID (UUID)"
// @Param        threadId path string true "Thread ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse} "토글 성공"
// @Failure      404 {object} response.ErrorResponse "스레드를 찾을 수 없음"
// @Router       /user/{userId}/flag/{threadId} [get]
func (h *UserHandler) ToggleFlag(c *gin.Context) {
	userID, ok := util.ParseUUIDParam(c, "userId")
	if !ok {
		return
	}
	threadID, ok := util.ParseUUIDParam(c, "threadId")
	if !ok {
		return
	}

	user, err := h.credentialService.ToggleFlag(c.Request.Context(), userID, threadID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}
