package config

import (
	"reflect"
	"strconv"
	"strings"
)

// lookup walks cfg's struct tree following toml tag names in path,
// returning the leaf reflect.Value and whether every segment resolved.
func lookup(cfg *Config, path []string) (reflect.Value, bool) {
	v := reflect.ValueOf(cfg).Elem()
	for _, segment := range path {
		field, ok := fieldByTomlName(v, segment)
		if !ok {
			return reflect.Value{}, false
		}
		v = field
	}
	return v, true
}

// assign walks cfg's struct tree following path, then parses value into
// the leaf field's type and sets it. Every segment must resolve to a
// known field (strict write); an unparsable value for the leaf's type is
// also an error.
func assign(cfg *Config, path []string, value string) error {
	v := reflect.ValueOf(cfg).Elem()
	for i, segment := range path {
		field, ok := fieldByTomlName(v, segment)
		if !ok {
			return &UnknownKeyError{Key: strings.Join(path, ".")}
		}
		if i == len(path)-1 {
			return setScalar(field, value)
		}
		v = field
	}
	return &UnknownKeyError{Key: strings.Join(path, ".")}
}

func fieldByTomlName(v reflect.Value, name string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("toml")
		tag, _, _ = strings.Cut(tag, ",")
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setScalar(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return &UnknownKeyError{Key: "(unsupported slice type)"}
		}
		field.Set(reflect.ValueOf(strings.Split(value, ",")))
	default:
		return &UnknownKeyError{Key: "(unsupported field type)"}
	}
	return nil
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}
