package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// translateError maps repository errors onto AppError kinds.
// An AppError already carrying a kind is returned unchanged.
func translateError(err error, notFoundMessage, internalMessage string) error {
	var appErr *response.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NewNotFoundError(notFoundMessage, "")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return response.NewValidationError("Value already exists", err.Error())
	default:
		return response.NewInternalError(internalMessage, err.Error())
	}
}
