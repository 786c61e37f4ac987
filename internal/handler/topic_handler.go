package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/response"
	"github.com/vuongngo/reactive-forum-api/internal/service"
	"github.com/vuongngo/reactive-forum-api/internal/util"
)

type TopicHandler struct {
	topicService service.TopicService
	logger       *zap.Logger
}

func NewTopicHandler(topicService service.TopicService, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
		logger:       logger,
	}
}

// ListTopics godoc
// @Summary      토픽 목록 조회
// @Description  생성일 내림차순으로 before 이전에 생성된 토픽을 조회합니다
// @Tags         topics
// @Produce      json
// @Param        before query string false "RFC3339 시각 (기본: 현재)"
// @Param        limit  query int    false "개수 (기본 10, 최대 100)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.TopicResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 쿼리"
// @Router       /topics [get]
func (h *TopicHandler) ListTopics(c *gin.Context) {
	var before time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "before must be an RFC3339 timestamp")
			return
		}
		before = parsed
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	topics, err := h.topicService.List(c.Request.Context(), before, limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, topics)
}

// GetTopic godoc
// @Summary      토픽 조회
// @Tags         topics
// @Produce      json
// @Param        id path string true "Topic ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TopicResponse} "조회 성공"
// @Failure      404 {object} response.ErrorResponse "토픽을 찾을 수 없음"
// @Router       /topic/{id} [get]
func (h *TopicHandler) GetTopic(c *gin.Context) {
	topicID, ok := util.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	topic, err := h.topicService.GetByID(c.Request.Context(), topicID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, topic)
}

// CreateTopic godoc
// @Summary      토픽 생성
// @Tags         topics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateTopicRequest true "토픽 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.TopicResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 중복된 이름"
// @Failure      403 {object} response.ErrorResponse "관리자 전용"
// @Router       /topic [post]
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	topic, err := h.topicService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, topic)
}

// CreateTopics godoc
// @Summary      토픽 일괄 생성
// @Description  모든 이름이 유효할 때만 저장합니다 (하나라도 실패하면 아무것도 저장되지 않음)
// @Tags         topics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateTopicsRequest true "일괄 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=[]dto.TopicResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "빈 이름 또는 중복된 이름"
// @Failure      403 {object} response.ErrorResponse "관리자 전용"
// @Router       /topics [post]
func (h *TopicHandler) CreateTopics(c *gin.Context) {
	var req dto.CreateTopicsRequest
	if !bindJSON(c, &req) {
		return
	}

	topics, err := h.topicService.CreateBatch(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, topics)
}

// UpdateTopic godoc
// @Summary      토픽 이름 변경
// @Tags         topics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                 true "Topic ID (UUID)"
// @Param        request body dto.UpdateTopicRequest true "수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.TopicResponse} "수정 성공"
// @Failure      404 {object} response.ErrorResponse "토픽을 찾을 수 없음"
// @Router       /topic/{id} [put]
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	topicID, ok := util.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTopicRequest
	if !bindJSON(c, &req) {
		return
	}

	topic, err := h.topicService.Update(c.Request.Context(), topicID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, topic)
}

// DeleteTopic godoc
// @Summary      토픽 삭제
// @Tags         topics
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Topic ID (UUID)"
// @Success      200 {object} response.SuccessResponse "삭제 성공"
// @Failure      404 {object} response.ErrorResponse "토픽을 찾을 수 없음"
// @Router       /topic/{id} [delete]
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	topicID, ok := util.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.topicService.Remove(c.Request.Context(), topicID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}
