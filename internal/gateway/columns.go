package gateway

import (
	"reflect"
	"strings"
)

// Columns возвращает имена колонок типа строки в порядке объявления полей,
// по тегам `db`. Поля без тега или с тегом "-" пропускаются.
func Columns[R any]() []string {
	var zero R
	t := reflect.TypeOf(zero)
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name, ok := columnName(t.Field(i)); ok {
			cols = append(cols, name)
		}
	}
	return cols
}

// FieldByColumn находит поле структуры по имени колонки из тега `db`.
func FieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if name, ok := columnName(t.Field(i)); ok && name == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// HasColumn сообщает, несёт ли тип строки колонку с данным именем.
// Мостовые таблицы без суррогатного ключа не имеют колонки "id".
func HasColumn[R any](column string) bool {
	var zero R
	t := reflect.TypeOf(zero)
	for i := 0; i < t.NumField(); i++ {
		if name, ok := columnName(t.Field(i)); ok && name == column {
			return true
		}
	}
	return false
}

func columnName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("db")
	if tag == "" || tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, name != ""
}
