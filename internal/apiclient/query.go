package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// EncodeQuery flattens nested params into bracket notation:
// {"filter": {"brands": [1, 2]}} becomes filter[brands][]=1&filter[brands][]=2.
// Nil values are skipped.
func EncodeQuery(params map[string]any) url.Values {
	values := url.Values{}
	for key, value := range params {
		appendQuery(values, key, value)
	}
	return values
}

func appendQuery(values url.Values, key string, value any) {
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendQuery(values, key+"["+k+"]", byKey[k].Interface())
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			values.Add(key, string(rv.Bytes()))
			return
		}
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			if text, ok := scalarText(item); ok {
				values.Add(key+"[]", text)
			}
		}
	default:
		if text, ok := scalarText(rv.Interface()); ok {
			values.Add(key, text)
		}
	}
}

func scalarText(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false
		}
		return scalarText(rv.Elem().Interface())
	}
	return fmt.Sprint(value), true
}
