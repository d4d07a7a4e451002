package inmemory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"taskhub/internal/gateway"
)

// Table — таблица в памяти. Фильтры сопоставляются по тегам `db`,
// как и в остальных адаптерах. Используется тестами и локальным режимом.
type Table[R any] struct {
	mtx    sync.RWMutex
	rows   []R
	nextID int64
	hasID  bool
}

func NewTable[R any]() *Table[R] {
	return &Table[R]{
		nextID: 1,
		hasID:  gateway.HasColumn[R]("id"),
	}
}

func (t *Table[R]) FetchAll(ctx context.Context, filter gateway.Filter) ([]R, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	res := []R{}
	for _, row := range t.rows {
		ok, err := matches(row, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, row)
		}
	}
	return res, nil
}

func (t *Table[R]) FetchOne(ctx context.Context, filter gateway.Filter) (*R, error) {
	found, err := t.FetchAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		row := found[0]
		return &row, nil
	default:
		return nil, gateway.ErrAmbiguous
	}
}

func (t *Table[R]) Insert(ctx context.Context, row R) (*R, error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.hasID {
		v := reflect.ValueOf(&row).Elem()
		f, _ := gateway.FieldByColumn(v, "id")
		if f.Int() == 0 {
			f.SetInt(t.nextID)
			t.nextID++
		} else if f.Int() >= t.nextID {
			t.nextID = f.Int() + 1
		}
	}

	t.rows = append(t.rows, row)
	stored := row
	return &stored, nil
}

func (t *Table[R]) Update(ctx context.Context, filter gateway.Filter, patch gateway.Patch) (int64, error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	var count int64
	for i := range t.rows {
		ok, err := matches(t.rows[i], filter)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		v := reflect.ValueOf(&t.rows[i]).Elem()
		for col, val := range patch {
			f, found := gateway.FieldByColumn(v, col)
			if !found {
				return 0, fmt.Errorf("неизвестная колонка %q", col)
			}
			if err := setValue(f, val); err != nil {
				return 0, err
			}
		}
		count++
	}
	return count, nil
}

func (t *Table[R]) Delete(ctx context.Context, filter gateway.Filter) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	kept := t.rows[:0]
	for _, row := range t.rows {
		ok, err := matches(row, filter)
		if err != nil {
			return err
		}
		if !ok {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return nil
}

func matches[R any](row R, filter gateway.Filter) (bool, error) {
	v := reflect.ValueOf(row)
	for col, want := range filter {
		f, found := gateway.FieldByColumn(v, col)
		if !found {
			return false, fmt.Errorf("неизвестная колонка %q", col)
		}
		if !equalValues(f, want) {
			return false, nil
		}
	}
	return true, nil
}

func equalValues(field reflect.Value, want any) bool {
	w := reflect.ValueOf(want)
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch w.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return field.Int() == w.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return field.Int() == int64(w.Uint())
		}
		return false
	case reflect.String:
		return w.Kind() == reflect.String && field.String() == w.String()
	case reflect.Bool:
		return w.Kind() == reflect.Bool && field.Bool() == w.Bool()
	default:
		return reflect.DeepEqual(field.Interface(), want)
	}
}

func setValue(field reflect.Value, val any) error {
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case rv.Type().ConvertibleTo(field.Type()):
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("значение типа %s не подходит для колонки типа %s", rv.Type(), field.Type())
	}
	return nil
}
