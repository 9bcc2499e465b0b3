package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxBodySize is the maximum accepted size of a JSON request body
const MaxBodySize = 1 << 20

var (
	errRequestBodyInvalidJSON = func(err string) *Error {
		return &Error{
			Type:    "validation.requestBody.invalidJSON",
			Message: "Request body is not a valid JSON input.",
			Details: map[string]any{
				"error": err,
			},
		}
	}
	errRequestBodyTooLarge = &Error{
		Type:    "validation.requestBody.tooLarge",
		Message: fmt.Sprintf("Request body exceeds the maximum size of %d bytes.", MaxBodySize),
		Details: map[string]any{
			"max": MaxBodySize,
		},
	}
	errRequestBodyParameterInvalidType = func(name, expectedType string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.invalidType",
			Message: fmt.Sprintf("The request body parameter '%s' could not be assigned to the required type (%s).", name, expectedType),
			Details: map[string]any{
				"parameter":     name,
				"expected_type": expectedType,
			},
		}
	}
	errRequestBodyParameterMissing = func(name string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.missing",
			Message: fmt.Sprintf("The request body parameter '%s' is required but was not present in the request.", name),
			Details: map[string]any{
				"parameter": name,
			},
		}
	}
	errRequestBodyParameterNumberOutOfRange = func(name string, value, min, max int64) *Error {
		comparison := ""
		if value < min {
			comparison = fmt.Sprintf("%d [given] < %d [min]", value, min)
		} else if value > max {
			comparison = fmt.Sprintf("%d [given] > %d [max]", value, max)
		}

		return &Error{
			Type:    "validation.requestBody.parameter.number.outOfRange",
			Message: fmt.Sprintf("The request body parameter '%s' is out of the required range (%s).", name, comparison),
			Details: map[string]any{
				"parameter": name,
				"value":     value,
				"min":       min,
				"max":       max,
			},
		}
	}
	errRequestBodyParameterLengthOutOfRange = func(name string, length, min, max int64) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.string.lengthOutOfRange",
			Message: fmt.Sprintf("The length of the request body parameter '%s' has to be between %d and %d characters.", name, min, max),
			Details: map[string]any{
				"parameter": name,
				"length":    length,
				"min":       min,
				"max":       max,
			},
		}
	}
	errRequestBodyParameterInvalidEmail = func(name string) *Error {
		return &Error{
			Type:    "validation.requestBody.parameter.string.invalidEmail",
			Message: fmt.Sprintf("The request body parameter '%s' is not a valid email address.", name),
			Details: map[string]any{
				"parameter": name,
			},
		}
	}
)

// ReadJSON reads a JSON request body without decoding it, only making sure it is valid JSON.
// An empty body results in a nil message and no errors.
func ReadJSON(request *http.Request) (json.RawMessage, []*Error, error) {
	body, errs, err := readBody(request)
	if err != nil || len(errs) > 0 {
		return nil, errs, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil, nil
	}
	if !json.Valid(body) {
		var target any
		err := json.Unmarshal(body, &target)
		return nil, []*Error{errRequestBodyInvalidJSON(err.Error())}, nil
	}
	return body, nil, nil
}

// UnmarshalBody parses and decodes a JSON request body and performs validations on it.
// Fields are validated using the 'required', 'min', 'max', 'min_length', 'max_length' and 'format' struct tags.
func UnmarshalBody[T any](request *http.Request) (*T, []*Error, error) {
	body, errs, err := readBody(request)
	if err != nil || len(errs) > 0 {
		return nil, errs, err
	}
	return UnmarshalJSON[T](body)
}

// UnmarshalJSON decodes and validates an already read JSON payload the same way UnmarshalBody does
func UnmarshalJSON[T any](body []byte) (*T, []*Error, error) {
	target := new(T)
	if err := json.Unmarshal(body, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, []*Error{errRequestBodyParameterInvalidType(typeErr.Field, typeErr.Type.String())}, nil
		}
		return nil, []*Error{errRequestBodyInvalidJSON(err.Error())}, nil
	}

	errs, err := validateStruct("", target)
	if err != nil {
		return nil, nil, err
	}
	return target, errs, nil
}

func readBody(request *http.Request) ([]byte, []*Error, error) {
	if request.Body == nil {
		return nil, nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(request.Body, MaxBodySize+1))
	if err != nil {
		return nil, nil, err
	}
	if len(body) > MaxBodySize {
		return nil, []*Error{errRequestBodyTooLarge}, nil
	}
	return body, nil, nil
}

func validateStruct(fieldPrefix string, val any) ([]*Error, error) {
	typ := reflect.TypeOf(val)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, errors.New("illegal call to validateStruct with non-struct parameter")
	}
	ref := reflect.ValueOf(val)
	if ref.Kind() == reflect.Pointer {
		ref = ref.Elem()
	}

	var errs []*Error

	for i := 0; i < typ.NumField(); i++ {
		// Retrieve the validation requirements
		fieldDef := typ.Field(i)
		if !fieldDef.IsExported() {
			continue
		}
		required := strings.EqualFold(fieldDef.Tag.Get("required"), "true")
		min := tagInt(fieldDef, "min", math.MinInt64)
		max := tagInt(fieldDef, "max", math.MaxInt64)
		minLength := tagInt(fieldDef, "min_length", 0)
		maxLength := tagInt(fieldDef, "max_length", math.MaxInt64)
		format := fieldDef.Tag.Get("format")

		fieldName := fieldPrefix + getFieldName(fieldDef)

		// Perform all validations on the field
		field := ref.Field(i)
		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				if required {
					errs = append(errs, errRequestBodyParameterMissing(fieldName))
				}
				continue
			}
			field = field.Elem()
		}

		switch {
		case field.CanUint():
			val := int64(field.Uint())
			if val < min || val > max {
				errs = append(errs, errRequestBodyParameterNumberOutOfRange(fieldName, val, min, max))
			}
		case field.CanInt():
			val := field.Int()
			if val < min || val > max {
				errs = append(errs, errRequestBodyParameterNumberOutOfRange(fieldName, val, min, max))
			}
		case field.Kind() == reflect.String:
			str := field.String()
			if required && strings.TrimSpace(str) == "" {
				errs = append(errs, errRequestBodyParameterMissing(fieldName))
				continue
			}
			length := int64(utf8.RuneCountInString(str))
			if length < minLength || length > maxLength {
				errs = append(errs, errRequestBodyParameterLengthOutOfRange(fieldName, length, minLength, maxLength))
			}
			if format == "email" && str != "" {
				if addr, err := mail.ParseAddress(str); err != nil || addr.Address != str {
					errs = append(errs, errRequestBodyParameterInvalidEmail(fieldName))
				}
			}
		case field.Kind() == reflect.Struct:
			subErrs, err := validateStruct(fieldName+".", field.Addr().Interface())
			if err != nil {
				return nil, err
			}
			errs = append(errs, subErrs...)
		}
	}

	return errs, nil
}

func tagInt(def reflect.StructField, tag string, fallback int64) int64 {
	val, err := strconv.ParseInt(def.Tag.Get(tag), 10, 64)
	if err != nil {
		return fallback
	}
	return val
}

func getFieldName(def reflect.StructField) string {
	jsonVal, ok := def.Tag.Lookup("json")
	if !ok || jsonVal == "-" {
		return def.Name
	}
	name, _, _ := strings.Cut(jsonVal, ",")
	return name
}
