package service

import (
	"context"
	"fmt"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/logger"
	"taskhub/internal/models"

	"go.uber.org/zap"
)

// пороги по количеству завершённых задач; badge id фиксированы справочником
var badgeThresholds = []struct {
	Completed int
	BadgeID   int64
}{
	{1, 1},
	{26, 2},
	{51, 3},
	{100, 4},
}

// BadgeEvaluator материализует награды за пройденные пороги. Идемпотентен
// по построению: уже выданная награда никогда не вставляется повторно и
// никогда не отзывается, даже если счётчик задач позже уменьшился.
// Одновременные вызовы для одного пользователя не сериализуются — это
// известная гонка, блокировок здесь нет.
type BadgeEvaluator struct {
	gw       *gateway.Gateway
	resolver *Resolver
	now      func() time.Time
}

func NewBadgeEvaluator(gw *gateway.Gateway, resolver *Resolver) *BadgeEvaluator {
	return &BadgeEvaluator{gw: gw, resolver: resolver, now: time.Now}
}

// CheckAndAwardBadges пересчитывает завершённые задачи пользователя и
// вставляет мостовую строку за каждый пройденный, но ещё не отмеченный
// порог. Пороги проверяются независимо: скачок с 0 до 120 завершённых
// даёт все четыре награды за один проход.
func (e *BadgeEvaluator) CheckAndAwardBadges(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewValidationError("user_id", "должен быть положительным")
	}

	tasks, err := e.resolver.TasksForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("получение задач: %w", err)
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			completed++
		}
	}

	earned, err := e.gw.UserBadges.FetchAll(ctx, gateway.Filter{"userid": userID})
	if err != nil {
		return fmt.Errorf("получение наград: %w", err)
	}

	held := make(map[int64]struct{}, len(earned))
	for _, ub := range earned {
		held[ub.BadgeID] = struct{}{}
	}

	awarded := 0
	for _, th := range badgeThresholds {
		if completed < th.Completed {
			continue
		}
		if _, ok := held[th.BadgeID]; ok {
			continue
		}
		_, err := e.gw.UserBadges.Insert(ctx, models.UserBadge{
			UserID:     userID,
			BadgeID:    th.BadgeID,
			DateEarned: e.now(),
		})
		if err != nil {
			return fmt.Errorf("вставка награды %d: %w", th.BadgeID, err)
		}
		awarded++
	}

	if awarded > 0 {
		logger.Info("Badges: выданы новые награды",
			zap.Int64("user_id", userID),
			zap.Int("completed", completed),
			zap.Int("awarded", awarded))
	}
	return nil
}
