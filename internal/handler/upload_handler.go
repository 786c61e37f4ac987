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

type UploadHandler struct {
	uploadService service.UploadService
	logger        *zap.Logger
}

func NewUploadHandler(uploadService service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// GeneratePresignedURL godoc
// @Summary      이미지 업로드용 Presigned URL 생성
// @Description  카드 이미지(threads) 또는 아바타(avatars) 업로드용 S3 PUT URL을 발급합니다 (5분 유효)
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PresignedURLRequest true "업로드 정보"
// @Success      200 {object} response.SuccessResponse{data=dto.PresignedURLResponse} "발급 성공"
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 파일 형식 또는 크기"
// @Failure      500 {object} response.ErrorResponse "스토리지 미설정 또는 서버 에러"
// @Router       /uploads/presigned-url [post]
func (h *UploadHandler) GeneratePresignedURL(c *gin.Context) {
	auth, ok := util.ExtractAuthData(c)
	if !ok {
		return
	}

	var req dto.PresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.uploadService.PresignImage(c.Request.Context(), auth.UserID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
