package service

import (
	"context"
	"fmt"

	"taskhub/internal/gateway"
	"taskhub/internal/logger"
	"taskhub/internal/models"

	"go.uber.org/zap"
)

// Resolver эмулирует JOIN в памяти клиента: хранилище не умеет ни
// серверных JOIN, ни фильтра по множеству id, поэтому двуххопные связи
// собираются из независимых выборок. Порядок строк — порядок выборки,
// без неявной сортировки.
type Resolver struct {
	gw *gateway.Gateway
}

func NewResolver(gw *gateway.Gateway) *Resolver {
	return &Resolver{gw: gw}
}

// CollaborationView — коллаборация глазами участника.
type CollaborationView struct {
	Collaboration models.Collaboration `json:"collaboration"`
	Role          string               `json:"role"`
	TaskTitle     string               `json:"task_title"`
}

// MemberView — участник коллаборации.
type MemberView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RemindersForUser: хоп 1 — задачи пользователя, хоп 2 — полная выборка
// напоминаний с фильтрацией по множеству taskid в памяти. Если задач нет,
// второй хоп не выполняется.
func (r *Resolver) RemindersForUser(ctx context.Context, userID int64) ([]models.Reminder, error) {
	tasks, err := r.gw.Tasks.FetchAll(ctx, gateway.Filter{"userid": userID})
	if err != nil {
		return nil, fmt.Errorf("получение задач пользователя: %w", err)
	}
	if len(tasks) == 0 {
		return []models.Reminder{}, nil
	}

	taskIDs := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		taskIDs[t.ID] = struct{}{}
	}

	all, err := r.gw.Reminders.FetchAll(ctx, gateway.Filter{})
	if err != nil {
		return nil, fmt.Errorf("получение напоминаний: %w", err)
	}

	res := []models.Reminder{}
	for _, rem := range all {
		if _, ok := taskIDs[rem.TaskID]; ok {
			res = append(res, rem)
		}
	}
	return res, nil
}

// CollaborationsForUser: хоп 1 — мостовые строки пользователя, хоп 2 —
// полная выборка коллабораций с фильтрацией по множеству id. Заголовок
// общей задачи подтягивается отдельным чтением на каждую коллаборацию;
// отсутствующая задача даёт пустой заголовок, а не ошибку.
func (r *Resolver) CollaborationsForUser(ctx context.Context, userID int64) ([]CollaborationView, error) {
	links, err := r.gw.UserCollaborations.FetchAll(ctx, gateway.Filter{"userid": userID})
	if err != nil {
		return nil, fmt.Errorf("получение членств пользователя: %w", err)
	}
	if len(links) == 0 {
		return []CollaborationView{}, nil
	}

	roles := make(map[int64]string, len(links))
	for _, l := range links {
		roles[l.CollaborationID] = l.Role
	}

	all, err := r.gw.Collaborations.FetchAll(ctx, gateway.Filter{})
	if err != nil {
		return nil, fmt.Errorf("получение коллабораций: %w", err)
	}

	res := []CollaborationView{}
	for _, c := range all {
		role, ok := roles[c.ID]
		if !ok {
			continue
		}
		res = append(res, CollaborationView{
			Collaboration: c,
			Role:          role,
			TaskTitle:     r.taskTitle(ctx, c.TaskID),
		})
	}
	return res, nil
}

// CollaborationMembers разрешает каждого участника отдельным чтением —
// N+1 закладывался сознательно: у хранилища нет выборки по множеству id,
// а агрегаты в этом домене насчитывают десятки строк. Мостовая строка,
// чей пользователь удалён в обход оркестратора, молча пропускается.
func (r *Resolver) CollaborationMembers(ctx context.Context, collaborationID int64) ([]MemberView, error) {
	links, err := r.gw.UserCollaborations.FetchAll(ctx, gateway.Filter{"collaborationid": collaborationID})
	if err != nil {
		return nil, fmt.Errorf("получение членств коллаборации: %w", err)
	}

	res := []MemberView{}
	for _, l := range links {
		user, err := r.gw.Users.FetchOne(ctx, gateway.Filter{"id": l.UserID})
		if err != nil {
			return nil, fmt.Errorf("получение участника: %w", err)
		}
		if user == nil {
			logger.Warn("Resolver: висячая мостовая строка, участник пропущен",
				zap.Int64("user_id", l.UserID),
				zap.Int64("collaboration_id", collaborationID))
			continue
		}
		res = append(res, MemberView{
			Name:  user.FullName(),
			Email: user.Email,
			Role:  l.Role,
		})
	}
	return res, nil
}

// TasksForUser — одношаговая выборка, вынесена сюда, чтобы каскад и
// оценщик наград ходили за задачами одним путём.
func (r *Resolver) TasksForUser(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := r.gw.Tasks.FetchAll(ctx, gateway.Filter{"userid": userID})
	if err != nil {
		return nil, fmt.Errorf("получение задач пользователя: %w", err)
	}
	return tasks, nil
}

func (r *Resolver) taskTitle(ctx context.Context, taskID int64) string {
	task, err := r.gw.Tasks.FetchOne(ctx, gateway.Filter{"id": taskID})
	if err != nil || task == nil {
		if err != nil {
			logger.Warn("Resolver: не удалось получить задачу коллаборации", zap.Error(err))
		}
		return ""
	}
	return task.Title
}
