package schema

import (
	"encoding/json"
	"github.com/skybi/portal-gateway/internal/backend"
	"net/http"
)

// Writer helps writing unified API responses
type Writer struct {
	InternalErrorHook func(err error)
}

// WriteJSONCode writes the JSON representation of value to the given response writer using the given HTTP status code
func (writer *Writer) WriteJSONCode(rw http.ResponseWriter, code int, value any) {
	val, err := json.Marshal(value)
	if err != nil {
		writer.WriteInternalError(rw, err)
		return
	}
	writer.WriteRaw(rw, code, val)
}

// WriteJSON writes the JSON representation of value to the given response writer.
// This method sends 200 OK as the HTTP status code; use WriteJSONCode to use a different one.
func (writer *Writer) WriteJSON(rw http.ResponseWriter, value any) {
	writer.WriteJSONCode(rw, http.StatusOK, value)
}

// WriteRaw writes an already encoded JSON payload (i.e. a backend response body) as it is
func (writer *Writer) WriteRaw(rw http.ResponseWriter, code int, payload []byte) {
	if len(payload) > 0 {
		rw.Header().Set("Content-Type", "application/json")
	}
	rw.WriteHeader(code)
	rw.Write(payload)
}

// WriteNoContent sends 204 No Content without a body
func (writer *Writer) WriteNoContent(rw http.ResponseWriter) {
	rw.WriteHeader(http.StatusNoContent)
}

// WriteErrors sends an error response describing locally detected errors
func (writer *Writer) WriteErrors(rw http.ResponseWriter, code int, errors ...*Error) {
	if errors == nil {
		errors = []*Error{}
	}
	for _, err := range errors {
		if err.Details == nil {
			err.Details = map[string]any{}
		}
	}

	message := http.StatusText(code)
	if len(errors) == 1 {
		message = errors[0].Message
	}
	writer.WriteJSONCode(rw, code, &ErrorResponse{
		Message: message,
		Details: map[string]any{
			"errors": errors,
		},
	})
}

// WriteNormalized sends the error response of a failed backend call
func (writer *Writer) WriteNormalized(rw http.ResponseWriter, err *backend.NormalizedError) {
	writer.WriteJSONCode(rw, err.Status, &ErrorResponse{
		Message: err.Message,
		Details: err.Details,
	})
}

// WriteAuth sends an authentication route response
func (writer *Writer) WriteAuth(rw http.ResponseWriter, code int, response *AuthResponse) {
	writer.WriteJSONCode(rw, code, response)
}

// WriteAuthErrors sends an authentication route response describing locally detected errors
func (writer *Writer) WriteAuthErrors(rw http.ResponseWriter, code int, errors ...*Error) {
	response := &AuthResponse{
		Success: false,
		Message: http.StatusText(code),
	}
	if len(errors) == 1 {
		response.Message = errors[0].Message
	}
	for _, err := range errors {
		response.Errors = append(response.Errors, err)
	}
	writer.WriteJSONCode(rw, code, response)
}

// WriteAuthNormalized sends the authentication route response of a failed backend call
func (writer *Writer) WriteAuthNormalized(rw http.ResponseWriter, err *backend.NormalizedError) {
	writer.WriteJSONCode(rw, err.Status, &AuthResponse{
		Success: false,
		Message: err.Message,
		Errors:  err.Errors,
	})
}

// WriteInternalError processes an internal server error and writes it to the response
func (writer *Writer) WriteInternalError(rw http.ResponseWriter, err error) {
	if writer.InternalErrorHook != nil {
		writer.InternalErrorHook(err)
	}
	val, _ := json.Marshal(&ErrorResponse{
		Message: ErrInternal.Message,
		Details: map[string]any{"errors": []*Error{ErrInternal}},
	})
	writer.WriteRaw(rw, http.StatusInternalServerError, val)
}
