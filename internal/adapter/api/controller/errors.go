package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

// StatusFor traduz um erro de domínio para o código HTTP correspondente
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNoMatchingRule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrInvalidStateTransition),
		errors.Is(err, apperror.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, apperror.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError escreve a resposta de erro padrão. Erros internos são registrados no log.
func respondError(ctx *gin.Context, log logger.Logger, message string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(message, "error", err.Error(), "path", ctx.FullPath(), "status", status)
	}

	if apperror.IsRetryable(err) {
		ctx.JSON(status, dto.NewRetryableErrorResponse(status, message, err.Error()))
		return
	}
	ctx.JSON(status, dto.NewErrorResponse(status, message, err.Error()))
}

func badRequest(ctx *gin.Context, message, details string) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, message, details))
}
