package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"taskhub/internal/auth"
	"taskhub/internal/gateway"
	"taskhub/internal/handlers/dto"
	"taskhub/internal/logger"
	"taskhub/internal/models"
	"taskhub/internal/notify"
	"taskhub/internal/observability/metrics"
	"taskhub/internal/tokenstore"

	"go.uber.org/zap"
)

type AuthHandler struct {
	gw       *gateway.Gateway
	signer   *auth.Signer
	tokens   *tokenstore.Store
	notifier notify.Notifier
}

func NewAuthHandler(gw *gateway.Gateway, signer *auth.Signer, tokens *tokenstore.Store, notifier notify.Notifier) *AuthHandler {
	return &AuthHandler{
		gw:       gw,
		signer:   signer,
		tokens:   tokens,
		notifier: notifier,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if strings.TrimSpace(request.Email) == "" {
		responseWithError(w, http.StatusBadRequest, "email не может быть пустым")
		return
	}
	if len(request.Password) < 8 {
		responseWithError(w, http.StatusBadRequest, "пароль короче 8 символов")
		return
	}

	existing, err := h.gw.Users.FetchOne(r.Context(), gateway.Filter{"email": request.Email})
	if err != nil {
		serviceFailure(w, "register", err)
		return
	}
	if existing != nil {
		responseWithError(w, http.StatusConflict, "email уже занят")
		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		serviceFailure(w, "register", err)
		return
	}

	created, err := h.gw.Users.Insert(r.Context(), models.User{
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		Email:        request.Email,
		PasswordHash: hash,
		Role:         "user",
	})
	if err != nil {
		serviceFailure(w, "register", err)
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован", zap.Int64("user_id", created.ID))
	responseWithJSON(w, http.StatusCreated, toPayload("id", created.ID))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	user, err := h.gw.Users.FetchOne(r.Context(), gateway.Filter{"email": request.Email})
	if err != nil {
		serviceFailure(w, "login", err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, request.Password) {
		logger.Warn("HTTP: Неудачная попытка входа", zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnauthorized, "неверный email или пароль")
		return
	}

	token, err := h.signer.IssueToken(user.ID)
	if err != nil {
		serviceFailure(w, "login", err)
		return
	}

	responseWithData(w, http.StatusOK, dto.LoginResponse{Token: token, UserID: user.ID})
}

// RequestReset всегда отвечает 204: существование адреса не раскрывается.
func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	user, err := h.gw.Users.FetchOne(r.Context(), gateway.Filter{"email": request.Email})
	if err != nil {
		serviceFailure(w, "request_reset", err)
		return
	}

	if user != nil {
		token, err := h.tokens.Generate(user.Email)
		if err != nil {
			serviceFailure(w, "request_reset", err)
			return
		}
		metrics.TokensGenerated.Inc()

		if err := h.notifier.SendResetToken(r.Context(), user.Email, token); err != nil {
			logger.Error("HTTP: Не удалось отправить токен", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if len(request.NewPassword) < 8 {
		responseWithError(w, http.StatusBadRequest, "пароль короче 8 символов")
		return
	}

	if !h.tokens.Validate(request.Token, request.Email) {
		logger.Warn("HTTP: Отклонён токен сброса", zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusForbidden, "токен недействителен")
		return
	}

	hash, err := auth.HashPassword(request.NewPassword)
	if err != nil {
		serviceFailure(w, "confirm_reset", err)
		return
	}

	count, err := h.gw.Users.Update(r.Context(),
		gateway.Filter{"email": request.Email},
		gateway.Patch{"passwordhash": hash})
	if err != nil {
		serviceFailure(w, "confirm_reset", err)
		return
	}
	if count == 0 {
		responseWithError(w, http.StatusNotFound, "пользователь не найден")
		return
	}

	h.tokens.MarkUsed(request.Token)

	logger.Info("HTTP_OUT: Пароль обновлён по токену")
	w.WriteHeader(http.StatusNoContent)
}
