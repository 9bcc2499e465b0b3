package schema

var emptyMap = map[string]any{}

var (
	ErrInternal = &Error{
		Type:    "generic.internal",
		Message: "An internal error occurred.",
		Details: emptyMap,
	}
	ErrNotFound = &Error{
		Type:    "generic.notFound",
		Message: "Resource not found.",
		Details: emptyMap,
	}
	ErrMethodNotAllowed = &Error{
		Type:    "generic.methodNotAllowed",
		Message: "Method not allowed.",
		Details: emptyMap,
	}
	ErrUnauthorized = &Error{
		Type:    "access.unauthorized",
		Message: "Unauthorized",
		Details: emptyMap,
	}
	ErrTooManyRequests = &Error{
		Type:    "access.tooManyRequests",
		Message: "Too many requests, please try again later.",
		Details: emptyMap,
	}
)

// ErrorResponse represents the response structure of resource routes whenever a request failed.
// Failed backend calls pass the backend's response body through as details.
type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details"`
}

// AuthResponse represents the response structure of the authentication routes
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  []any  `json:"errors,omitempty"`
}

// Error represents a single locally detected error
type Error struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}
