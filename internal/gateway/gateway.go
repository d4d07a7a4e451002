package gateway

import (
	"context"
	"errors"

	"taskhub/internal/models"
)

// Filter — колонка -> требуемое значение, условия соединяются по AND.
// Пустой фильтр означает "все строки таблицы".
type Filter map[string]any

// Patch — колонка -> новое значение для частичного обновления.
type Patch map[string]any

// ErrAmbiguous возвращается FetchOne, когда фильтру соответствует
// больше одной строки.
var ErrAmbiguous = errors.New("фильтру соответствует больше одной строки")

// Table — контракт удалённого хранилища для одной таблицы.
// Ни одна операция не затрагивает другие таблицы: JOIN, каскадов и
// транзакций на стороне хранилища нет. Отсутствие строк — это пустой
// результат, а не ошибка; любая ошибка означает сбой хранилища или
// транспорта и может быть повторена вызывающим.
type Table[R any] interface {
	FetchAll(ctx context.Context, filter Filter) ([]R, error)
	// FetchOne возвращает nil без ошибки, если строк нет.
	FetchOne(ctx context.Context, filter Filter) (*R, error)
	// Insert возвращает сохранённую строку вместе со сгенерированным id —
	// id берётся из ответа на вставку, никогда из повторного чтения.
	Insert(ctx context.Context, row R) (*R, error)
	Update(ctx context.Context, filter Filter, patch Patch) (int64, error)
	Delete(ctx context.Context, filter Filter) error
}

// Gateway — полный набор таблиц, с которым работает слой оркестрации.
type Gateway struct {
	Users              Table[models.User]
	Tasks              Table[models.Task]
	Reminders          Table[models.Reminder]
	Collaborations     Table[models.Collaboration]
	UserCollaborations Table[models.UserCollaboration]
	Badges             Table[models.Badge]
	UserBadges         Table[models.UserBadge]
	Exports            Table[models.Export]
	Messages           Table[models.Message]
}
