package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// GenericErrorMessage is the message used whenever no better one can be derived
const GenericErrorMessage = "Unexpected error"

// NormalizedError represents the uniform shape every failed backend call is mapped to
type NormalizedError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Errors holds the structured 'errors' array of the backend response, if it sent one
	Errors []any `json:"-"`
}

func (err *NormalizedError) Error() string {
	return err.Message
}

// Normalize maps an arbitrary error returned by Client.Do to a NormalizedError.
// If the error carries a backend response, its status code is used (500 if absent) and the message is taken from
// the body's 'message' field, the body itself if it is a string or plain text, the error's own message or a generic
// fallback, in that order. The decoded body is passed through as details. Every other error (i.e. network failures)
// results in status 500 with the generic message and no details.
func Normalize(err error) *NormalizedError {
	var normalized *NormalizedError
	if errors.As(err, &normalized) {
		return normalized
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Response == nil {
		return &NormalizedError{
			Status:  http.StatusInternalServerError,
			Message: GenericErrorMessage,
		}
	}

	res := &NormalizedError{
		Status: upstream.Response.Status,
	}
	if res.Status == 0 {
		res.Status = http.StatusInternalServerError
	}

	body := decodeBody(upstream.Response.Body)
	res.Details = body
	res.Message = messageOf(body)
	if res.Message == "" {
		res.Message = upstream.Error()
	}
	if res.Message == "" {
		res.Message = GenericErrorMessage
	}
	if obj, ok := body.(map[string]any); ok {
		if errs, ok := obj["errors"].([]any); ok {
			res.Errors = errs
		}
	}
	return res
}

func decodeBody(raw []byte) any {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	return decoded
}

func messageOf(body any) string {
	switch val := body.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		switch msg := val["message"].(type) {
		case string:
			return msg
		case []any:
			parts := make([]string, 0, len(msg))
			for _, part := range msg {
				if str, ok := part.(string); ok && str != "" {
					parts = append(parts, str)
				}
			}
			return strings.Join(parts, "; ")
		}
	}
	return ""
}
