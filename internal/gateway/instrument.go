package gateway

import (
	"context"

	"taskhub/internal/observability/metrics"
)

// instrumented оборачивает таблицу счётчиками обращений к хранилищу.
type instrumented[R any] struct {
	name string
	next Table[R]
}

func InstrumentTable[R any](name string, next Table[R]) Table[R] {
	return &instrumented[R]{name: name, next: next}
}

// Instrument возвращает шлюз, в котором каждая таблица считает свои вызовы.
func Instrument(gw *Gateway) *Gateway {
	return &Gateway{
		Users:              InstrumentTable("users", gw.Users),
		Tasks:              InstrumentTable("tasks", gw.Tasks),
		Reminders:          InstrumentTable("reminders", gw.Reminders),
		Collaborations:     InstrumentTable("collaborations", gw.Collaborations),
		UserCollaborations: InstrumentTable("usercollaborations", gw.UserCollaborations),
		Badges:             InstrumentTable("badges", gw.Badges),
		UserBadges:         InstrumentTable("userbadges", gw.UserBadges),
		Exports:            InstrumentTable("exports", gw.Exports),
		Messages:           InstrumentTable("messages", gw.Messages),
	}
}

func (t *instrumented[R]) FetchAll(ctx context.Context, filter Filter) ([]R, error) {
	rows, err := t.next.FetchAll(ctx, filter)
	metrics.ObserveStoreCall(t.name, "fetch_all", err)
	return rows, err
}

func (t *instrumented[R]) FetchOne(ctx context.Context, filter Filter) (*R, error) {
	row, err := t.next.FetchOne(ctx, filter)
	metrics.ObserveStoreCall(t.name, "fetch_one", err)
	return row, err
}

func (t *instrumented[R]) Insert(ctx context.Context, row R) (*R, error) {
	stored, err := t.next.Insert(ctx, row)
	metrics.ObserveStoreCall(t.name, "insert", err)
	return stored, err
}

func (t *instrumented[R]) Update(ctx context.Context, filter Filter, patch Patch) (int64, error) {
	count, err := t.next.Update(ctx, filter, patch)
	metrics.ObserveStoreCall(t.name, "update", err)
	return count, err
}

func (t *instrumented[R]) Delete(ctx context.Context, filter Filter) error {
	err := t.next.Delete(ctx, filter)
	metrics.ObserveStoreCall(t.name, "delete", err)
	return err
}
