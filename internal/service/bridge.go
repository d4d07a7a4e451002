package service

import (
	"context"
	"fmt"
	"strings"

	"taskhub/internal/gateway"
	"taskhub/internal/logger"
	"taskhub/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BridgeManager ведёт мостовые строки членства. Хранилище внешние
// ключи не проверяет, поэтому существование родителей подтверждается
// здесь перед каждой вставкой.
type BridgeManager struct {
	gw *gateway.Gateway
}

func NewBridgeManager(gw *gateway.Gateway) *BridgeManager {
	return &BridgeManager{gw: gw}
}

// JoinCollaboration вставляет мостовую строку (userID, collaborationID).
// Проверка на дубликат членства — забота вызывающего, не этого слоя.
func (b *BridgeManager) JoinCollaboration(ctx context.Context, userID, collaborationID int64, role string) error {
	if err := validateMembership(userID, collaborationID, role); err != nil {
		return err
	}

	user, err := b.gw.Users.FetchOne(ctx, gateway.Filter{"id": userID})
	if err != nil {
		return fmt.Errorf("проверка пользователя: %w", err)
	}
	if user == nil {
		return NewNotFound("пользователь", userID)
	}

	collab, err := b.gw.Collaborations.FetchOne(ctx, gateway.Filter{"id": collaborationID})
	if err != nil {
		return fmt.Errorf("проверка коллаборации: %w", err)
	}
	if collab == nil {
		return NewNotFound("коллаборация", collaborationID)
	}

	_, err = b.gw.UserCollaborations.Insert(ctx, models.UserCollaboration{
		UserID:          userID,
		CollaborationID: collaborationID,
		Role:            role,
	})
	if err != nil {
		return fmt.Errorf("вставка членства: %w", err)
	}
	return nil
}

// CreateCollaborationWithOwner — двухфазная операция: (1) вставка
// коллаборации, id берётся из ответа на вставку; (2) вставка мостовой
// строки владельца. Провал второй фазы НЕ откатывает первую — осиротевшая
// коллаборация остаётся, вызывающий видит общий провал. Компенсирующих
// транзакций тут нет сознательно.
func (b *BridgeManager) CreateCollaborationWithOwner(ctx context.Context, collab models.Collaboration, ownerID int64, role string) (*models.Collaboration, error) {
	if ownerID <= 0 {
		return nil, NewValidationError("owner_id", "должен быть положительным")
	}
	if strings.TrimSpace(role) == "" {
		return nil, NewValidationError("role", "пустое значение")
	}
	if strings.TrimSpace(collab.Title) == "" {
		return nil, NewValidationError("title", "пустое значение")
	}

	if collab.JoinToken == "" {
		collab.JoinToken = uuid.NewString()
	}

	created, err := b.gw.Collaborations.Insert(ctx, collab)
	if err != nil {
		return nil, fmt.Errorf("вставка коллаборации: %w", err)
	}

	if err := b.JoinCollaboration(ctx, ownerID, created.ID, role); err != nil {
		logger.Error("Bridge: коллаборация создана, но владелец не записан", err,
			zap.Int64("collaboration_id", created.ID),
			zap.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("вставка владельца: %w", err)
	}
	return created, nil
}

// UpdateMemberRole меняет только поле role по составному фильтру.
func (b *BridgeManager) UpdateMemberRole(ctx context.Context, collaborationID, userID int64, role string) error {
	if err := validateMembership(userID, collaborationID, role); err != nil {
		return err
	}

	count, err := b.gw.UserCollaborations.Update(ctx,
		gateway.Filter{"collaborationid": collaborationID, "userid": userID},
		gateway.Patch{"role": role},
	)
	if err != nil {
		return fmt.Errorf("обновление роли: %w", err)
	}
	if count == 0 {
		return NewNotFound("членство", userID)
	}
	return nil
}

// RemoveMember удаляет мостовую строку. Родительскую коллаборацию не
// трогает, даже если ушёл последний участник.
func (b *BridgeManager) RemoveMember(ctx context.Context, collaborationID, userID int64) error {
	if userID <= 0 {
		return NewValidationError("user_id", "должен быть положительным")
	}
	if collaborationID <= 0 {
		return NewValidationError("collaboration_id", "должен быть положительным")
	}

	err := b.gw.UserCollaborations.Delete(ctx,
		gateway.Filter{"collaborationid": collaborationID, "userid": userID})
	if err != nil {
		return fmt.Errorf("удаление членства: %w", err)
	}
	return nil
}

// FindByJoinToken находит коллаборацию по её пригласительному токену.
func (b *BridgeManager) FindByJoinToken(ctx context.Context, token string) (*models.Collaboration, error) {
	if strings.TrimSpace(token) == "" {
		return nil, NewValidationError("join_token", "пустое значение")
	}
	collab, err := b.gw.Collaborations.FetchOne(ctx, gateway.Filter{"jointoken": token})
	if err != nil {
		return nil, fmt.Errorf("поиск по токену: %w", err)
	}
	return collab, nil
}

// проверки выполняются до любого обращения к хранилищу
func validateMembership(userID, collaborationID int64, role string) error {
	if userID <= 0 {
		return NewValidationError("user_id", "должен быть положительным")
	}
	if collaborationID <= 0 {
		return NewValidationError("collaboration_id", "должен быть положительным")
	}
	if strings.TrimSpace(role) == "" {
		return NewValidationError("role", "пустое значение")
	}
	return nil
}
