// Package query serializes structured parameters into canonical URL query strings
package query

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Param represents a single query parameter.
// Value may be nil, a string, a number, a boolean, a fmt.Stringer, a pointer to one of those or a slice of those.
type Param struct {
	Key   string
	Value any
}

// Params is an insertion-ordered list of query parameters
type Params []Param

// Set sets the value of a parameter, keeping the position of an already existing key
func (params Params) Set(key string, value any) Params {
	for i, param := range params {
		if param.Key == key {
			params[i].Value = value
			return params
		}
	}
	return append(params, Param{Key: key, Value: value})
}

// ToQueryString serializes the parameters into a query string prefixed with '?'.
// Nil and empty string values are dropped, slices are serialized as repeated keys and booleans as 'true' or
// 'false'. An empty string is returned if no parameter survives.
func ToQueryString(params Params) string {
	var builder strings.Builder
	for _, param := range params {
		for _, str := range stringify(param.Value) {
			if builder.Len() == 0 {
				builder.WriteByte('?')
			} else {
				builder.WriteByte('&')
			}
			builder.WriteString(url.QueryEscape(param.Key))
			builder.WriteByte('=')
			builder.WriteString(url.QueryEscape(str))
		}
	}
	return builder.String()
}

// FromRawQuery builds parameters out of a raw query string, keeping the order in which keys first appear.
// If allowed is not empty, only the listed keys are kept.
func FromRawQuery(raw string, allowed ...string) Params {
	values, _ := url.ParseQuery(raw)

	var params Params
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, "&") {
		key, _, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(key)
		if err != nil || key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if len(allowed) > 0 && !contains(allowed, key) {
			continue
		}
		vals := values[key]
		if len(vals) == 1 {
			params = append(params, Param{Key: key, Value: vals[0]})
		} else {
			params = append(params, Param{Key: key, Value: vals})
		}
	}
	return params
}

func contains(haystack []string, needle string) bool {
	for _, str := range haystack {
		if str == needle {
			return true
		}
	}
	return false
}

func stringify(value any) []string {
	if value == nil {
		return nil
	}
	switch val := value.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case bool:
		return []string{strconv.FormatBool(val)}
	case []string:
		res := make([]string, 0, len(val))
		for _, str := range val {
			res = append(res, stringify(str)...)
		}
		return res
	case fmt.Stringer:
		if ref := reflect.ValueOf(val); ref.Kind() == reflect.Pointer && ref.IsNil() {
			return nil
		}
		return stringify(val.String())
	}

	ref := reflect.ValueOf(value)
	switch ref.Kind() {
	case reflect.Pointer, reflect.Interface:
		if ref.IsNil() {
			return nil
		}
		return stringify(ref.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if ref.Kind() == reflect.Slice && ref.IsNil() {
			return nil
		}
		res := make([]string, 0, ref.Len())
		for i := 0; i < ref.Len(); i++ {
			res = append(res, stringify(ref.Index(i).Interface())...)
		}
		return res
	default:
		return stringify(fmt.Sprint(value))
	}
}
