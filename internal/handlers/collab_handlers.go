package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/handlers/dto"
	"taskhub/internal/logger"
	"taskhub/internal/middleware"
	"taskhub/internal/models"
	"taskhub/internal/service"

	"go.uber.org/zap"
)

type CollabHandler struct {
	gw       *gateway.Gateway
	resolver *service.Resolver
	bridge   *service.BridgeManager
	cascade  *service.CascadeDeleter
}

func NewCollabHandler(gw *gateway.Gateway, resolver *service.Resolver, bridge *service.BridgeManager, cascade *service.CascadeDeleter) *CollabHandler {
	return &CollabHandler{
		gw:       gw,
		resolver: resolver,
		bridge:   bridge,
		cascade:  cascade,
	}
}

const roleOwner = "Owner"
const roleMember = "Member"

func (h *CollabHandler) CreateCollaboration(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	var request dto.CreateCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := h.bridge.CreateCollaborationWithOwner(r.Context(), models.Collaboration{
		TaskID:      request.TaskID,
		Title:       request.Title,
		Description: request.Description,
	}, userID, roleOwner)
	if err != nil {
		serviceFailure(w, "create_collaboration", err)
		return
	}

	logger.Info("HTTP_OUT: Коллаборация создана",
		zap.Int64("collaboration_id", created.ID),
		zap.Int64("owner_id", userID))
	responseWithData(w, http.StatusCreated, created)
}

func (h *CollabHandler) JoinCollaboration(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	var request dto.JoinCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	collab, err := h.bridge.FindByJoinToken(r.Context(), request.JoinToken)
	if err != nil {
		serviceFailure(w, "join_collaboration", err)
		return
	}
	if collab == nil {
		responseWithError(w, http.StatusNotFound, "приглашение не найдено")
		return
	}

	if err := h.bridge.JoinCollaboration(r.Context(), userID, collab.ID, roleMember); err != nil {
		serviceFailure(w, "join_collaboration", err)
		return
	}

	responseWithData(w, http.StatusOK, collab)
}

func (h *CollabHandler) GetCollaborations(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	views, err := h.resolver.CollaborationsForUser(r.Context(), userID)
	if err != nil {
		serviceFailure(w, "get_collaborations", err)
		return
	}
	responseWithData(w, http.StatusOK, views)
}

func (h *CollabHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	collabID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.resolver.CollaborationMembers(r.Context(), collabID)
	if err != nil {
		serviceFailure(w, "get_members", err)
		return
	}
	responseWithData(w, http.StatusOK, members)
}

func (h *CollabHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	collabID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var request dto.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if err := h.bridge.UpdateMemberRole(r.Context(), collabID, memberID, request.Role); err != nil {
		serviceFailure(w, "update_member_role", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollabHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	collabID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.bridge.RemoveMember(r.Context(), collabID, memberID); err != nil {
		serviceFailure(w, "remove_member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollabHandler) DeleteCollaboration(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	collabID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cascade.DeleteCollaboration(r.Context(), collabID); err != nil {
		serviceFailure(w, "delete_collaboration", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollabHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	collabID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var request dto.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	if request.Content == "" {
		responseWithError(w, http.StatusBadRequest, "сообщение не может быть пустым")
		return
	}

	collab, err := h.gw.Collaborations.FetchOne(r.Context(), gateway.Filter{"id": collabID})
	if err != nil {
		serviceFailure(w, "post_message", err)
		return
	}
	if collab == nil {
		responseWithError(w, http.StatusNotFound, "коллаборация не найдена")
		return
	}

	created, err := h.gw.Messages.Insert(r.Context(), models.Message{
		CollaborationID: collabID,
		UserID:          userID,
		Content:         request.Content,
		SentAt:          time.Now().UTC(),
	})
	if err != nil {
		serviceFailure(w, "post_message", err)
		return
	}
	responseWithData(w, http.StatusCreated, created)
}

func (h *CollabHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	collabID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.gw.Messages.FetchAll(r.Context(), gateway.Filter{"collaborationid": collabID})
	if err != nil {
		serviceFailure(w, "get_messages", err)
		return
	}
	responseWithData(w, http.StatusOK, messages)
}
