package transformer

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// walkTyped rebuilds structs, typed slices, arrays, maps and pointers as the
// records and lists encoding/json would produce for them, so that plugins
// reach values nested in typed results. Struct fields follow their json tags.
// Types that encode themselves are left to encoding/json.
func walkTyped(v any, recurse func(any) (any, error)) (any, bool, error) {
	if v == nil {
		return nil, false, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		// A marshaler with a pointer receiver only works through the pointer.
		if encodesItself(rv.Type()) && !encodesItself(rv.Type().Elem()) {
			return v, false, nil
		}
		if rv.IsNil() {
			return nil, true, nil
		}
		out, err := recurse(rv.Elem().Interface())
		return out, true, err
	}
	if encodesItself(rv.Type()) {
		return v, false, nil
	}

	switch rv.Kind() {
	case reflect.Struct:
		out := make(map[string]any)
		if err := collectFields(rv, out, recurse); err != nil {
			return nil, true, err
		}
		return out, true, nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, true, nil
		}
		// encoding/json writes byte slices as base64 strings.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, false, nil
		}
		return walkList(rv, recurse)
	case reflect.Array:
		return walkList(rv, recurse)
	case reflect.Map:
		return walkMap(rv, recurse)
	default:
		return v, false, nil
	}
}

func encodesItself(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}

func walkList(rv reflect.Value, recurse func(any) (any, error)) (any, bool, error) {
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		r, err := recurse(rv.Index(i).Interface())
		if err != nil {
			return nil, true, err
		}
		out[i] = r
	}
	return out, true, nil
}

func walkMap(rv reflect.Value, recurse func(any) (any, error)) (any, bool, error) {
	if rv.IsNil() {
		return nil, true, nil
	}

	keys := make([]string, 0, rv.Len())
	values := make([]reflect.Value, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := mapKey(iter.Key())
		if !ok {
			return rv.Interface(), false, nil
		}
		keys = append(keys, key)
		values = append(values, iter.Value())
	}

	out := make(map[string]any, len(keys))
	for i, key := range keys {
		r, err := recurse(values[i].Interface())
		if err != nil {
			return nil, true, err
		}
		out[key] = r
	}
	return out, true, nil
}

// mapKey converts a map key the way encoding/json does.
func mapKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.String {
		return k.String(), true
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", true
		}
		b, err := tm.MarshalText()
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), true
	default:
		return "", false
	}
}

// collectFields adds the encoded fields of the struct rv to out. Fields of
// embedded structs are promoted unless a shallower field has the same name.
func collectFields(rv reflect.Value, out map[string]any, recurse func(any) (any, error)) error {
	t := rv.Type()
	var embedded []reflect.Value

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		if f.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				embedded = append(embedded, inner)
				continue
			}
		}
		if !f.IsExported() || !fv.CanInterface() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if hasOption(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}
		if hasOption(opts, "omitzero") && isZeroValue(fv) {
			continue
		}

		r, err := recurse(fv.Interface())
		if err != nil {
			return err
		}
		out[name] = r
	}

	for _, inner := range embedded {
		promoted := make(map[string]any)
		if err := collectFields(inner, promoted, recurse); err != nil {
			return err
		}
		for k, v := range promoted {
			if _, taken := out[k]; !taken {
				out[k] = v
			}
		}
	}
	return nil
}

func hasOption(opts, option string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == option {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	default:
		return false
	}
}

func isZeroValue(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return true
	}
	if z, ok := v.Interface().(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	return v.IsZero()
}
