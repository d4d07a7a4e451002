package handlers

import (
	"net/http"

	"taskhub/internal/logger"
	"taskhub/internal/middleware"
	"taskhub/internal/service"

	"go.uber.org/zap"
)

type AccountHandler struct {
	cascade *service.CascadeDeleter
}

func NewAccountHandler(cascade *service.CascadeDeleter) *AccountHandler {
	return &AccountHandler{cascade: cascade}
}

// DeleteAccount запускает каскадное удаление аккаунта вызывающего.
// Любой провал внутри каскада отдаётся как общий отказ — частично
// удалённое состояние чинится повторным вызовом.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	if err := h.cascade.DeleteUserAccount(r.Context(), userID); err != nil {
		serviceFailure(w, "delete_account", err)
		return
	}

	logger.Info("HTTP_OUT: Аккаунт удалён", zap.Int64("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}
