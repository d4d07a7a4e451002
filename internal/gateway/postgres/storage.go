package postgres

import (
	"context"
	"fmt"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/logger"
	"taskhub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage держит пул соединений; каждая таблица шлюза работает поверх
// него одиночными запросами без JOIN — паритет с контрактом удалённого
// пер-табличного хранилища.
type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Gateway: ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Gateway: ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Gateway: неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Gateway: успешное подключение к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Gateway: закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Gateway: неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Gateway собирает набор таблиц поверх пула.
func (s *Storage) Gateway() *gateway.Gateway {
	return &gateway.Gateway{
		Users:              NewTable[models.User](s.pool, "users"),
		Tasks:              NewTable[models.Task](s.pool, "tasks"),
		Reminders:          NewTable[models.Reminder](s.pool, "reminders"),
		Collaborations:     NewTable[models.Collaboration](s.pool, "collaborations"),
		UserCollaborations: NewTable[models.UserCollaboration](s.pool, "usercollaborations"),
		Badges:             NewTable[models.Badge](s.pool, "badges"),
		UserBadges:         NewTable[models.UserBadge](s.pool, "userbadges"),
		Exports:            NewTable[models.Export](s.pool, "exports"),
		Messages:           NewTable[models.Message](s.pool, "messages"),
	}
}
