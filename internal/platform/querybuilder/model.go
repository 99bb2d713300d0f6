package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// modelLayout lists the db-tagged exported fields of a struct type.
type modelLayout struct {
	columns []string
	fields  []int
}

var layouts sync.Map // reflect.Type -> modelLayout

// InsertModel builds a single-row INSERT from a struct whose fields carry db tags.
func InsertModel[T any](table string, model T, suffix string) (string, []any, error) {
	return InsertModels(table, []T{model}, suffix)
}

// InsertModels builds one multi-row INSERT from models sharing the same db
// tagged struct type.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	builder := InsertInto(table).Suffix(suffix)
	for i, model := range models {
		value, err := structValue(model)
		if err != nil {
			return "", nil, fmt.Errorf("model %d: %w", i, err)
		}
		layout, err := layoutOf(value.Type())
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			builder.Columns(layout.columns...)
		}

		row := make([]any, len(layout.fields))
		for j, idx := range layout.fields {
			row[j] = value.Field(idx).Interface()
		}
		builder.Values(row...)
	}
	return builder.ToSQL()
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct, got %s", value.Kind())
	}
	return value, nil
}

func layoutOf(typ reflect.Type) (modelLayout, error) {
	if cached, ok := layouts.Load(typ); ok {
		return cached.(modelLayout), nil
	}

	var layout modelLayout
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		layout.columns = append(layout.columns, col)
		layout.fields = append(layout.fields, i)
	}
	if len(layout.columns) == 0 {
		return modelLayout{}, fmt.Errorf("model %s has no db columns", typ)
	}

	layouts.Store(typ, layout)
	return layout, nil
}
