package postgres

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"taskhub/internal/gateway"
	"taskhub/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Table — одна таблица PostgreSQL. Каждый вызов — ровно один простой
// запрос вида `... WHERE col = $n AND ...`; JOIN не выполняются никогда.
type Table[R any] struct {
	pool  *pgxpool.Pool
	name  string
	cols  []string
	hasID bool
}

func NewTable[R any](pool *pgxpool.Pool, name string) *Table[R] {
	return &Table[R]{
		pool:  pool,
		name:  name,
		cols:  gateway.Columns[R](),
		hasID: gateway.HasColumn[R]("id"),
	}
}

func (t *Table[R]) FetchAll(ctx context.Context, filter gateway.Filter) ([]R, error) {
	start := time.Now()

	where, args := buildWhere(filter, 1)
	query := fmt.Sprintf(`SELECT %s FROM %s%s`, strings.Join(t.cols, ", "), t.name, where)

	rows, err := t.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Gateway: выборка не удалась", err, zap.String("table", t.name))
		return nil, fmt.Errorf("выборка из %s: %w", t.name, err)
	}

	res, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[R])
	if err != nil {
		return nil, fmt.Errorf("чтение строк %s: %w", t.name, err)
	}

	t.warnSlow(start, "fetch_all")
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
		return &found[0], nil
	default:
		return nil, fmt.Errorf("чтение из %s: %w", t.name, gateway.ErrAmbiguous)
	}
}

func (t *Table[R]) Insert(ctx context.Context, row R) (*R, error) {
	start := time.Now()

	cols, vals := t.insertColumns(row)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		t.name,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(t.cols, ", "),
	)

	rows, err := t.pool.Query(ctx, query, vals...)
	if err != nil {
		logger.Error("Gateway: вставка не удалась", err, zap.String("table", t.name))
		return nil, fmt.Errorf("вставка в %s: %w", t.name, err)
	}

	stored, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[R])
	if err != nil {
		return nil, fmt.Errorf("чтение вставленной строки %s: %w", t.name, err)
	}

	t.warnSlow(start, "insert")
	return &stored, nil
}

func (t *Table[R]) Update(ctx context.Context, filter gateway.Filter, patch gateway.Patch) (int64, error) {
	start := time.Now()

	sets := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+len(filter))
	for _, col := range sortedKeys(patch) {
		args = append(args, patch[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	where, whereArgs := buildWhere(filter, len(args)+1)
	args = append(args, whereArgs...)

	query := fmt.Sprintf(`UPDATE %s SET %s%s`, t.name, strings.Join(sets, ", "), where)

	tag, err := t.pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error("Gateway: обновление не удалось", err, zap.String("table", t.name))
		return 0, fmt.Errorf("обновление %s: %w", t.name, err)
	}

	t.warnSlow(start, "update")
	return tag.RowsAffected(), nil
}

func (t *Table[R]) Delete(ctx context.Context, filter gateway.Filter) error {
	start := time.Now()

	where, args := buildWhere(filter, 1)
	query := fmt.Sprintf(`DELETE FROM %s%s`, t.name, where)

	if _, err := t.pool.Exec(ctx, query, args...); err != nil {
		logger.Error("Gateway: удаление не удалось", err, zap.String("table", t.name))
		return fmt.Errorf("удаление из %s: %w", t.name, err)
	}

	t.warnSlow(start, "delete")
	return nil
}

// insertColumns перечисляет колонки для вставки; нулевой суррогатный id
// пропускается, чтобы его сгенерировало хранилище.
func (t *Table[R]) insertColumns(row R) ([]string, []any) {
	v := reflect.ValueOf(row)
	cols := make([]string, 0, len(t.cols))
	vals := make([]any, 0, len(t.cols))
	for _, col := range t.cols {
		f, _ := gateway.FieldByColumn(v, col)
		if col == "id" && t.hasID && f.Int() == 0 {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, f.Interface())
	}
	return cols, vals
}

func (t *Table[R]) warnSlow(start time.Time, op string) {
	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Gateway: медленная операция",
			zap.String("table", t.name),
			zap.String("op", op),
			zap.Duration("ms", time.Since(start)))
	}
}

func buildWhere(filter gateway.Filter, firstArg int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	conds := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for _, col := range sortedKeys(filter) {
		args = append(args, filter[col])
		conds = append(conds, fmt.Sprintf("%s = $%d", col, firstArg+len(args)-1))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
