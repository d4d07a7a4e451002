package notify

import (
	"context"

	"taskhub/internal/logger"

	"go.uber.org/zap"
)

// Notifier — внешняя доставка уведомлений. Сама отправка почты — чужая
// забота; ядру нужен только контракт.
type Notifier interface {
	SendResetToken(ctx context.Context, email, token string) error
}

// LogNotifier пишет уведомление в журнал вместо отправки. Используется
// в разработке и тестах.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendResetToken(ctx context.Context, email, token string) error {
	logger.Info("Notify: токен сброса пароля (доставка не настроена)",
		zap.String("email", email),
		zap.String("token", token))
	return nil
}
