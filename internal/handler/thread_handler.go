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

type ThreadHandler struct {
	threadService service.ThreadService
	logger        *zap.Logger
}

func NewThreadHandler(threadService service.ThreadService, logger *zap.Logger) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
		logger:        logger,
	}
}

// ListThreads godoc
// @Summary      스레드 목록 조회
// @Description  topicId, authorId, title, createdAt 필터(`field=op:value`)와 페이지네이션을 지원합니다
// @Tags         threads
// @Produce      json
// @Param        limit   query int    false "페이지 크기 (기본 10, 최대 100)"
// @Param        page    query int    false "페이지 번호 (0부터)"
// @Param        topicId query string false "예: eq:<uuid>"
// @Param        title   query string false "예: like:go"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ThreadResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 쿼리"
// @Router       /threads [get]
func (h *ThreadHandler) ListThreads(c *gin.Context) {
	opts, ok := parseListQuery(c, dto.ThreadQueryFields)
	if !ok {
		return
	}

	threads, err := h.threadService.List(c.Request.Context(), opts)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, threads)
}

// GetThread godoc
// @Summary      스레드 조회
// @Description  댓글, 답글, 작성자 정보를 포함한 전체 스레드를 조회합니다
// @Tags         threads
// @Produce      json
// @Param        threadId path string true "Thread ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "조회 성공"
// @Failure      404 {object} response.ErrorResponse "스레드를 찾을 수 없음"
// @Router       /thread/{threadId} [get]
func (h *ThreadHandler) GetThread(c *gin.Context) {
	threadID, ok := util.ParseUUIDParam(c, "threadId")
	if !ok {
		return
	}

	thread, err := h.threadService.GetByID(c.Request.Context(), threadID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}

// CreateThread godoc
// @Summary      스레드 생성
// @Tags         threads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateThreadRequest true "스레드 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.ThreadResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "토픽을 찾을 수 없음"
// @Router       /thread [post]
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	auth, ok := util.ExtractAuthData(c)
	if !ok {
		return
	}

	var req dto.CreateThreadRequest
	if !bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.Create(c.Request.Context(), auth.UserID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, thread)
}

// UpdateThread godoc
// @Summary      스레드 수정
// @Description  topicId, title, body, cardImage, tags 중 전달된 필드만 반영합니다
// @Tags         threads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        threadId path string                  true "Thread ID (UUID)"
// @Param        request  body dto.UpdateThreadRequest true "수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "수정 성공"
// @Failure      403 {object} response.ErrorResponse "작성자 또는 관리자만 가능"
// @Failure      404 {object} response.ErrorResponse "스레드를 찾을 수 없음"
// @Router       /thread/{threadId} [put]
func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	threadID, ok := util.ParseUUIDParam(c, "threadId")
	if !ok {
		return
	}

	var req dto.UpdateThreadRequest
	if !bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.Update(c.Request.Context(), threadID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}

// DeleteThread godoc
// @Summary      스레드 삭제
// @Description  댓글, 답글, 좋아요를 함께 삭제하고 작성자들의 활동 카운터를 차감합니다
// @Tags         threads
// @Produce      json
// @Security     BearerAuth
// @Param        threadId path string true "Thread ID (UUID)"
// @Success      200 {object} response.SuccessResponse "삭제 성공"
// @Failure      403 {object} response.ErrorResponse "작성자 또는 관리자만 가능"
// @Failure      404 {object} response.ErrorResponse "스레드를 찾을 수 없음"
// @Router       /thread/{threadId} [delete]
func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	threadID, ok := util.ParseUUIDParam(c, "threadId")
	if !ok {
		return
	}

	if err := h.threadService.Remove(c.Request.Context(), threadID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// LikeThread godoc
// @Summary      스레드 좋아요 토글
// @Tags         threads
// @Produce      json
// @Security     BearerAuth
// @Param        threadId path string true "Thread ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "토글 성공"
// @Failure      404 {object} response.ErrorResponse "스레드를 찾을 수 없음"
// @Router       /thread/{threadId}/like [get]
func (h *ThreadHandler) LikeThread(c *gin.Context) {
	auth, ok := util.ExtractAuthData(c)
	if !ok {
		return
	}
	threadID, ok := util.ParseUUIDParam(c, "threadId")
	if !ok {
		return
	}

	thread, err := h.threadService.Like(c.Request.Context(), auth.UserID, threadID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}
