package handlers

import (
	"errors"
	"net/http"

	"taskhub/internal/logger"
	"taskhub/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError переводит ошибку бизнес-логики в HTTP-ответ.
// Возвращает false, если ошибка не бизнесовая и её нужно отдать как 500.
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return true
	}
	return false
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "INTEGRITY_ERROR":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// serviceFailure — единый выход для небизнесовых ошибок: вызывающему
// отдаётся общий провал, подробности остаются в журнале.
func serviceFailure(w http.ResponseWriter, operation string, err error) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: Ошибка Service", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, "операция не выполнена")
}
