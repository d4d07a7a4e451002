package worker

import (
	"context"
	"time"

	"taskhub/internal/logger"
	"taskhub/internal/tokenstore"

	"go.uber.org/zap"
)

// CleanupWorker периодически выметает истёкшие токены сброса пароля.
// Сам стор себя не чистит (только лениво при валидации), поэтому
// регулярный обход живёт здесь.
type CleanupWorker struct {
	store    *tokenstore.Store
	interval time.Duration
}

func NewCleanupWorker(store *tokenstore.Store, interval *time.Duration) *CleanupWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}
	return &CleanupWorker{
		store:    store,
		interval: intervalToSet,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep()
		case <-ctx.Done():
			logger.Info("Worker: фоновая очистка токенов останавливается")
			return
		}
	}
}

func (w *CleanupWorker) Sweep() {
	start := time.Now()
	swept := w.store.Cleanup()
	logger.Info("Worker: обход токенов завершён",
		zap.Duration("ms", time.Since(start)),
		zap.Int("swept", swept),
		zap.Int("alive", w.store.Len()))
}
