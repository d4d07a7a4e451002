package service

import (
	"context"
	"fmt"

	"taskhub/internal/gateway"
	"taskhub/internal/logger"

	"go.uber.org/zap"
)

// CascadeDeleter удаляет корень агрегата и всех его зависимых в
// фиксированном порядке: сначала самые глубокие зависимые, корень —
// последним. Транзакций нет: сбой на любом шаге прерывает оставшиеся,
// уже выполненные шаги не откатываются. Каждый шаг — delete-by-filter,
// то есть повторный запуск после частичного провала сходится, а не
// усугубляет состояние.
type CascadeDeleter struct {
	gw       *gateway.Gateway
	resolver *Resolver
}

func NewCascadeDeleter(gw *gateway.Gateway, resolver *Resolver) *CascadeDeleter {
	return &CascadeDeleter{gw: gw, resolver: resolver}
}

// DeleteUserAccount удаляет пользователя и всё, что на него ссылается:
// напоминания (через задачи), задачи, членства, награды, экспорты,
// затем саму строку пользователя. Финальная проверка перечитывает
// пользователя: если строка всё ещё читается, операция считается
// провалившейся целиком — хранилище могло молча проигнорировать delete.
func (c *CascadeDeleter) DeleteUserAccount(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewValidationError("user_id", "должен быть положительным")
	}

	user, err := c.gw.Users.FetchOne(ctx, gateway.Filter{"id": userID})
	if err != nil {
		return fmt.Errorf("проверка пользователя: %w", err)
	}
	if user == nil {
		// частичное удаление не начинаем
		return NewNotFound("пользователь", userID)
	}

	tasks, err := c.resolver.TasksForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("шаг 2, задачи пользователя: %w", err)
	}

	for _, t := range tasks {
		if err := c.gw.Reminders.Delete(ctx, gateway.Filter{"taskid": t.ID}); err != nil {
			logger.Error("Cascade: шаг 3 прерван", err, zap.Int64("task_id", t.ID))
			return fmt.Errorf("шаг 3, напоминания задачи %d: %w", t.ID, err)
		}
	}

	steps := []struct {
		name   string
		table  interface {
			Delete(ctx context.Context, filter gateway.Filter) error
		}
		filter gateway.Filter
	}{
		{"задачи", c.gw.Tasks, gateway.Filter{"userid": userID}},
		{"членства", c.gw.UserCollaborations, gateway.Filter{"userid": userID}},
		{"награды", c.gw.UserBadges, gateway.Filter{"userid": userID}},
		{"экспорты", c.gw.Exports, gateway.Filter{"userid": userID}},
		{"пользователь", c.gw.Users, gateway.Filter{"id": userID}},
	}

	for i, step := range steps {
		if err := step.table.Delete(ctx, step.filter); err != nil {
			logger.Error("Cascade: шаг прерван", err,
				zap.Int("step", i+4),
				zap.String("table", step.name),
				zap.Int64("user_id", userID))
			return fmt.Errorf("шаг %d, %s: %w", i+4, step.name, err)
		}
	}

	// шаг 9: проверка результата
	left, err := c.gw.Users.FetchOne(ctx, gateway.Filter{"id": userID})
	if err != nil {
		return fmt.Errorf("проверка после удаления: %w", err)
	}
	if left != nil {
		logger.Error("Cascade: пользователь читается после удаления", nil,
			zap.Int64("user_id", userID))
		return NewIntegrityError("пользователь", userID)
	}

	logger.Info("Cascade: пользователь удалён",
		zap.Int64("user_id", userID),
		zap.Int("tasks", len(tasks)))
	return nil
}

// DeleteCollaboration удаляет мостовые строки членства, затем саму
// коллаборацию. Повторная проверка чтением здесь не выполняется —
// асимметрия с удалением пользователя унаследована от исходного
// поведения и закреплена тестами.
func (c *CascadeDeleter) DeleteCollaboration(ctx context.Context, collaborationID int64) error {
	if collaborationID <= 0 {
		return NewValidationError("collaboration_id", "должен быть положительным")
	}

	if err := c.gw.UserCollaborations.Delete(ctx, gateway.Filter{"collaborationid": collaborationID}); err != nil {
		return fmt.Errorf("удаление членств: %w", err)
	}

	if err := c.gw.Collaborations.Delete(ctx, gateway.Filter{"id": collaborationID}); err != nil {
		return fmt.Errorf("удаление коллаборации: %w", err)
	}

	logger.Info("Cascade: коллаборация удалена", zap.Int64("collaboration_id", collaborationID))
	return nil
}
