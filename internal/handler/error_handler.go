package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error("Service error",
				zap.String("path", c.FullPath()),
				zap.String("code", appErr.Code),
				zap.String("details", appErr.Details),
				zap.Error(err))
		} else {
			logger.Debug("Request rejected",
				zap.String("path", c.FullPath()),
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message))
		}
		response.SendError(c, status, appErr.Code, appErr.Message)
		return
	}

	logger.Error("Unhandled service error", zap.String("path", c.FullPath()), zap.Error(err))
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case response.ErrCodeUnauthorized:
		return http.StatusForbidden
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeConflict:
		return http.StatusConflict
	case response.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON binds the request body and writes a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return false
	}
	return true
}

// parseListQuery parses list filters and writes a 400 on failure
func parseListQuery(c *gin.Context, fields map[string]dto.QueryField) (domain.ListOptions, bool) {
	opts, err := dto.ParseListQuery(c.Request.URL.Query(), fields)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, err.Error())
		return opts, false
	}
	return opts, true
}
