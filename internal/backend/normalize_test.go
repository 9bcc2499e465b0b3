package backend

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func upstream(status int, body string) error {
	return &UpstreamError{
		Method:   http.MethodGet,
		Path:     "/companies/1",
		Response: &Response{Status: status, Body: []byte(body)},
	}
}

func TestNormalizeUpstreamMessage(t *testing.T) {
	got := Normalize(upstream(404, `{"message":"Not found"}`))
	want := &NormalizedError{
		Status:  404,
		Message: "Not found",
		Details: map[string]any{"message": "Not found"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %#v, want %#v", got, want)
	}
}

func TestNormalizeNetworkError(t *testing.T) {
	got := Normalize(fmt.Errorf("GET /companies: %w", errors.New("connection refused")))
	if got.Status != 500 || got.Message != "Unexpected error" || got.Details != nil {
		t.Errorf("Normalize() = %#v, want {500, Unexpected error, nil}", got)
	}
	if got := Normalize(nil); got.Status != 500 || got.Message != GenericErrorMessage {
		t.Errorf("Normalize(nil) = %#v", got)
	}
}

func TestNormalizeFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
		wantDetails any
	}{
		{"json string body", 400, `"invalid email"`, 400, "invalid email", "invalid email"},
		{"plain text body", 502, "Bad Gateway", 502, "Bad Gateway", "Bad Gateway"},
		{"object without message", 409, `{"code":"CONFLICT"}`, 409, "request failed with status code 409", map[string]any{"code": "CONFLICT"}},
		{"empty body", 403, "", 403, "request failed with status code 403", nil},
		{"missing status", 0, `{"message":"boom"}`, 500, "boom", map[string]any{"message": "boom"}},
		{"message array", 400, `{"message":["name is required","email is invalid"]}`, 400, "name is required; email is invalid",
			map[string]any{"message": []any{"name is required", "email is invalid"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(upstream(tt.status, tt.body))
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if !reflect.DeepEqual(got.Details, tt.wantDetails) {
				t.Errorf("Details = %#v, want %#v", got.Details, tt.wantDetails)
			}
		})
	}
}

func TestNormalizeErrorsArray(t *testing.T) {
	got := Normalize(upstream(422, `{"message":"Validation failed","errors":[{"field":"email"}]}`))
	want := []any{map[string]any{"field": "email"}}
	if !reflect.DeepEqual(got.Errors, want) {
		t.Errorf("Errors = %#v, want %#v", got.Errors, want)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first := Normalize(upstream(404, `{"message":"Not found"}`))
	if second := Normalize(first); second != first {
		t.Errorf("Normalize(NormalizedError) = %#v, want the same instance", second)
	}
}
