package service_test

import (
	"context"

	"taskhub/internal/gateway"

	"github.com/stretchr/testify/mock"
)

// MockTable - мок одной таблицы шлюза
type MockTable[R any] struct {
	mock.Mock
}

func (m *MockTable[R]) FetchAll(ctx context.Context, filter gateway.Filter) ([]R, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]R), args.Error(1)
}

func (m *MockTable[R]) FetchOne(ctx context.Context, filter gateway.Filter) (*R, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*R), args.Error(1)
}

func (m *MockTable[R]) Insert(ctx context.Context, row R) (*R, error) {
	args := m.Called(ctx, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*R), args.Error(1)
}

func (m *MockTable[R]) Update(ctx context.Context, filter gateway.Filter, patch gateway.Patch) (int64, error) {
	args := m.Called(ctx, filter, patch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTable[R]) Delete(ctx context.Context, filter gateway.Filter) error {
	args := m.Called(ctx, filter)
	return args.Error(0)
}

// countingTable считает вызовы поверх настоящей таблицы
type countingTable[R any] struct {
	gateway.Table[R]
	fetchAll int
	fetchOne int
	deletes  int
}

func (c *countingTable[R]) FetchAll(ctx context.Context, filter gateway.Filter) ([]R, error) {
	c.fetchAll++
	return c.Table.FetchAll(ctx, filter)
}

func (c *countingTable[R]) FetchOne(ctx context.Context, filter gateway.Filter) (*R, error) {
	c.fetchOne++
	return c.Table.FetchOne(ctx, filter)
}

func (c *countingTable[R]) Delete(ctx context.Context, filter gateway.Filter) error {
	c.deletes++
	return c.Table.Delete(ctx, filter)
}

// stubbornTable молча игнорирует Delete — имитация хранилища,
// которое отчитывается об успехе, не удалив строку
type stubbornTable[R any] struct {
	gateway.Table[R]
}

func (s *stubbornTable[R]) Delete(ctx context.Context, filter gateway.Filter) error {
	return nil
}

// failingTable проваливает вставки
type failingTable[R any] struct {
	gateway.Table[R]
	insertErr error
}

func (f *failingTable[R]) Insert(ctx context.Context, row R) (*R, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return f.Table.Insert(ctx, row)
}
