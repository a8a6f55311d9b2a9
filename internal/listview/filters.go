package listview

import (
	"reflect"
	"strings"

	"github.com/kermes/kermes-panel/pkg/types"
)

// NormalizeFilters flattens multi-select options to their ids and drops empty values.
// The input is left untouched.
func NormalizeFilters(filters map[string]any) map[string]any {
	out := make(map[string]any, len(filters))
	for key, value := range filters {
		if normalized, ok := normalizeValue(value); ok {
			out[key] = normalized
		}
	}
	return out
}

func normalizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case types.Option:
		return v.Value, true
	case *types.Option:
		if v == nil {
			return nil, false
		}
		return v.Value, true
	case []types.Option:
		return types.OptionValues(v), len(v) > 0
	case map[string]any:
		nested := NormalizeFilters(v)
		return nested, len(nested) > 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return normalizeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if item, ok := normalizeValue(rv.Index(i).Interface()); ok {
				items = append(items, item)
			}
		}
		return items, len(items) > 0
	}
	return value, true
}
