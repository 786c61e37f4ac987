package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/response"
	"github.com/vuongngo/reactive-forum-api/internal/service"
	"github.com/vuongngo/reactive-forum-api/internal/util"
)

// CommentHandler serves comments and their replies. Every operation answers with the whole thread.
type CommentHandler struct {
	threadService service.ThreadService
	logger        *zap.Logger
}

func NewCommentHandler(threadService service.ThreadService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		threadService: threadService,
		logger:        logger,
	}
}

type commentPath struct {
	userID    uuid.UUID
	threadID  uuid.UUID
	commentID uuid.UUID
	replyID   uuid.UUID
}

// path reads the caller and the given path ids, writing the error response on failure
func (h *CommentHandler) path(c *gin.Context, params ...string) (commentPath, bool) {
	var p commentPath
	auth, ok := util.ExtractAuthData(c)
	if !ok {
		return p, false
	}
	p.userID = auth.UserID

	targets := map[string]*uuid.UUID{
		"threadId":  &p.threadID,
		"commentId": &p.commentID,
		"replyId":   &p.replyID,
	}
	for _, name := range params {
		id, ok := util.ParseUUIDParam(c, name)
		if !ok {
			return p, false
		}
		*targets[name] = id
	}
	return p, true
}

func (h *CommentHandler) respond(c *gin.Context, status int, thread *dto.ThreadResponse, err error) {
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, status, thread)
}

// CreateComment godoc
// @Summary      댓글 작성
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        threadId path string          true "Thread ID (UUID)"
// @Param        request  body dto.TextRequest true "댓글 내용"
// @Success      201 {object} response.SuccessResponse{data=dto.ThreadResponse} "작성 성공"
// @Failure      404 {object} response.ErrorResponse "스레드를 찾을 수 없음"
// @Router       /thread/{threadId}/comment [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	p, ok := h.path(c, "threadId")
	if !ok {
		return
	}
	var req dto.TextRequest
	if !bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.CreateComment(c.Request.Context(), p.userID, p.threadID, &req)
	h.respond(c, http.StatusCreated, thread, err)
}

// UpdateComment godoc
// @Summary      댓글 수정
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string          true "Thread ID (UUID)"
// @Param        commentId path string          true "Comment ID (UUID)"
// @Param        request   body dto.TextRequest true "댓글 내용"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "수정 성공"
// @Failure      403 {object} response.ErrorResponse "작성자만 가능"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId")
	if !ok {
		return
	}
	var req dto.TextRequest
	if !bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.UpdateComment(c.Request.Context(), p.userID, p.threadID, p.commentID, &req)
	h.respond(c, http.StatusOK, thread, err)
}

// DeleteComment godoc
// @Summary      댓글 삭제
// @Description  답글과 좋아요를 함께 삭제합니다
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string true "Thread ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "삭제 성공"
// @Failure      403 {object} response.ErrorResponse "작성자만 가능"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId")
	if !ok {
		return
	}

	thread, err := h.threadService.RemoveComment(c.Request.Context(), p.userID, p.threadID, p.commentID)
	h.respond(c, http.StatusOK, thread, err)
}

// LikeComment godoc
// @Summary      댓글 좋아요 토글
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string true "Thread ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "토글 성공"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId}/like [get]
func (h *CommentHandler) LikeComment(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId")
	if !ok {
		return
	}

	thread, err := h.threadService.LikeComment(c.Request.Context(), p.userID, p.threadID, p.commentID)
	h.respond(c, http.StatusOK, thread, err)
}

// CreateReply godoc
// @Summary      답글 작성
// @Tags         replies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string          true "Thread ID (UUID)"
// @Param        commentId path string          true "Comment ID (UUID)"
// @Param        request   body dto.TextRequest true "답글 내용"
// @Success      201 {object} response.SuccessResponse{data=dto.ThreadResponse} "작성 성공"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId}/reply [post]
func (h *CommentHandler) CreateReply(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId")
	if !ok {
		return
	}
	var req dto.TextRequest
	if !bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.CreateReply(c.Request.Context(), p.userID, p.threadID, p.commentID, &req)
	h.respond(c, http.StatusCreated, thread, err)
}

// UpdateReply godoc
// @Summary      답글 수정
// @Tags         replies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string          true "Thread ID (UUID)"
// @Param        commentId path string          true "Comment ID (UUID)"
// @Param        replyId   path string          true "Reply ID (UUID)"
// @Param        request   body dto.TextRequest true "답글 내용"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "수정 성공"
// @Failure      403 {object} response.ErrorResponse "작성자만 가능"
// @Failure      404 {object} response.ErrorResponse "답글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId}/reply/{replyId} [put]
func (h *CommentHandler) UpdateReply(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId", "replyId")
	if !ok {
		return
	}
	var req dto.TextRequest
	if !bindJSON(c, &req) {
		return
	}

	thread, err := h.threadService.UpdateReply(c.Request.Context(), p.userID, p.threadID, p.commentID, p.replyID, &req)
	h.respond(c, http.StatusOK, thread, err)
}

// DeleteReply godoc
// @Summary      답글 삭제
// @Tags         replies
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string true "Thread ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        replyId   path string true "Reply ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "삭제 성공"
// @Failure      403 {object} response.ErrorResponse "작성자만 가능"
// @Failure      404 {object} response.ErrorResponse "답글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId}/reply/{replyId} [delete]
func (h *CommentHandler) DeleteReply(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId", "replyId")
	if !ok {
		return
	}

	thread, err := h.threadService.RemoveReply(c.Request.Context(), p.userID, p.threadID, p.commentID, p.replyID)
	h.respond(c, http.StatusOK, thread, err)
}

// LikeReply godoc
// @Summary      답글 좋아요 토글
// @Tags         replies
// @Produce      json
// @Security     BearerAuth
// @Param        threadId  path string true "Thread ID (UUID)"
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        replyId   path string true "Reply ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ThreadResponse} "토글 성공"
// @Failure      404 {object} response.ErrorResponse "답글을 찾을 수 없음"
// @Router       /thread/{threadId}/comment/{commentId}/reply/{replyId}/like [get]
func (h *CommentHandler) LikeReply(c *gin.Context) {
	p, ok := h.path(c, "threadId", "commentId", "replyId")
	if !ok {
		return
	}

	thread, err := h.threadService.LikeReply(c.Request.Context(), p.userID, p.threadID, p.commentID, p.replyID)
	h.respond(c, http.StatusOK, thread, err)
}
