package formx

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/avdatabase/x/errorx"
)

// Marshaler is implemented by types that render their own form value.
type Marshaler interface {
	MarshalForm() (string, error)
}

// Marshal builds a [FormData] from the exported fields of the struct v, in
// declaration order. The `form` tag sets the field name; "-" skips a field
// and "omitempty" skips it when empty. Only scalar fields are supported.
func Marshal(v any) (*FormData, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &FormData{}, nil
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, errorx.InvalidArgumentErrorf("form: top-level value must be a struct, got %s", rv.Kind())
	}

	fd := &FormData{}
	for i, tag := range tags(rv.Type()) {
		if tag.Ignore {
			continue
		}
		fv := rv.Field(i)
		if tag.Omit && fv.IsZero() {
			continue
		}
		s, err := scalar(fv)
		if err != nil {
			return nil, errorx.InvalidArgumentErrorf("form: field %q: %s", tag.Name, err)
		}
		fd.Set(tag.Name, s)
	}

	return fd, nil
}

func scalar(v reflect.Value) (string, error) {
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return "", nil
	}

	if m, ok := asMarshaler(v); ok {
		return m.MarshalForm()
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return scalar(v.Elem())
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	default:
		return "", fmt.Errorf("unsupported type %s", v.Type())
	}
}

func asMarshaler(v reflect.Value) (Marshaler, bool) {
	if v.CanAddr() {
		if m, ok := v.Addr().Interface().(Marshaler); ok {
			return m, true
		}
	}
	if v.CanInterface() {
		if m, ok := v.Interface().(Marshaler); ok {
			return m, true
		}
	}
	return nil, false
}
