package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/handlers/dto"
	"taskhub/internal/logger"
	"taskhub/internal/middleware"
	"taskhub/internal/models"
	"taskhub/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	gw       *gateway.Gateway
	resolver *service.Resolver
	badges   *service.BadgeEvaluator
}

func NewTaskHandler(gw *gateway.Gateway, resolver *service.Resolver, badges *service.BadgeEvaluator) *TaskHandler {
	return &TaskHandler{
		gw:       gw,
		resolver: resolver,
		badges:   badges,
	}
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	tasks, err := h.resolver.TasksForUser(r.Context(), userID)
	if err != nil {
		serviceFailure(w, "get_tasks", err)
		return
	}
	responseWithData(w, http.StatusOK, tasks)
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Title == "" {
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}
	if request.DueDate.IsZero() {
		responseWithError(w, http.StatusBadRequest, "дедлайн должен быть задан")
		return
	}

	priority := request.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	created, err := h.gw.Tasks.Insert(r.Context(), models.Task{
		UserID:      userID,
		Title:       request.Title,
		Description: request.Description,
		DueDate:     request.DueDate,
		Status:      models.StatusInProgress,
		Priority:    priority,
	})
	if err != nil {
		serviceFailure(w, "create_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Int64("user_id", userID))
	responseWithData(w, http.StatusCreated, created)
}

// CompleteTask переводит задачу в завершённые и сразу пересчитывает
// награды — завершение задачи и есть событие, двигающее пороги.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	count, err := h.gw.Tasks.Update(r.Context(),
		gateway.Filter{"id": taskID, "userid": userID},
		gateway.Patch{"status": models.StatusCompleted})
	if err != nil {
		serviceFailure(w, "complete_task", err)
		return
	}
	if count == 0 {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	if err := h.badges.CheckAndAwardBadges(r.Context(), userID); err != nil {
		// задача уже завершена; недосчитанные награды доберёт следующий вызов
		logger.Error("HTTP: Пересчёт наград не удался", err, zap.Int64("user_id", userID))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.gw.Tasks.FetchOne(r.Context(), gateway.Filter{"id": taskID, "userid": userID})
	if err != nil {
		serviceFailure(w, "delete_task", err)
		return
	}
	if task == nil {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	// сперва зависимые напоминания, затем сама задача
	if err := h.gw.Reminders.Delete(r.Context(), gateway.Filter{"taskid": taskID}); err != nil {
		serviceFailure(w, "delete_task", err)
		return
	}
	if err := h.gw.Tasks.Delete(r.Context(), gateway.Filter{"id": taskID}); err != nil {
		serviceFailure(w, "delete_task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	reminders, err := h.resolver.RemindersForUser(r.Context(), userID)
	if err != nil {
		serviceFailure(w, "get_reminders", err)
		return
	}
	responseWithData(w, http.StatusOK, reminders)
}

func (h *TaskHandler) PostReminder(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var request dto.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	if request.NotifyAt.IsZero() {
		responseWithError(w, http.StatusBadRequest, "время напоминания должно быть задано")
		return
	}

	// напоминание не несёт userid — владение подтверждается через задачу
	task, err := h.gw.Tasks.FetchOne(r.Context(), gateway.Filter{"id": taskID, "userid": userID})
	if err != nil {
		serviceFailure(w, "create_reminder", err)
		return
	}
	if task == nil {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	created, err := h.gw.Reminders.Insert(r.Context(), models.Reminder{
		TaskID:   taskID,
		Type:     request.Type,
		NotifyAt: request.NotifyAt.UTC(),
	})
	if err != nil {
		serviceFailure(w, "create_reminder", err)
		return
	}
	responseWithData(w, http.StatusCreated, created)
}

func (h *TaskHandler) PostExport(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var request dto.CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	if request.Format == "" {
		request.Format = "csv"
	}

	task, err := h.gw.Tasks.FetchOne(r.Context(), gateway.Filter{"id": taskID, "userid": userID})
	if err != nil {
		serviceFailure(w, "create_export", err)
		return
	}
	if task == nil {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	created, err := h.gw.Exports.Insert(r.Context(), models.Export{
		UserID:      userID,
		TaskID:      taskID,
		Format:      request.Format,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		serviceFailure(w, "create_export", err)
		return
	}
	responseWithData(w, http.StatusCreated, created)
}

func (h *TaskHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	userID := middleware.GetUserID(r.Context())

	earned, err := h.gw.UserBadges.FetchAll(r.Context(), gateway.Filter{"userid": userID})
	if err != nil {
		serviceFailure(w, "get_badges", err)
		return
	}
	responseWithData(w, http.StatusOK, earned)
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("param", param),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверный id")
		return 0, false
	}
	return id, true
}
