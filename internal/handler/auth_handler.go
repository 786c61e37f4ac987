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

type AuthHandler struct {
	credentialService service.CredentialService
	logger            *zap.Logger
}

func NewAuthHandler(credentialService service.CredentialService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		credentialService: credentialService,
		logger:            logger,
	}
}

// SignUp godoc
// @Summary      회원가입
// @Description  새 사용자를 등록하고 세션 토큰을 발급합니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.SignUpRequest true "회원가입 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.AuthResponse} "가입 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 중복된 사용자명"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.credentialService.SignUp(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// SignIn godoc
// @Summary      로그인
// @Description  사용자명과 비밀번호로 로그인하고 세션 토큰을 발급합니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.SignInRequest true "로그인 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.AuthResponse} "로그인 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "비밀번호 불일치"
// @Failure      404 {object} response.ErrorResponse "사용자를 찾을 수 없음"
// @Router       /signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.credentialService.SignIn(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// SignOut godoc
// @Summary      로그아웃
// @Description  현재 세션 토큰을 폐기합니다
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.SuccessResponse "로그아웃 성공"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Router       /signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	auth, ok := util.ExtractAuthData(c)
	if !ok {
		return
	}

	if err := h.credentialService.ClearSession(c.Request.Context(), auth.UserID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}
