package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/query"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize limits the amount of bytes read from a single backend response
const maxResponseSize = 10 << 20

// Call describes a single request to the backend
type Call struct {
	Method string
	Path   string
	Query  query.Params
	// Body is sent as JSON; json.RawMessage and []byte values are sent as they are
	Body any
}

// Response represents a backend response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode decodes the JSON response body into target
func (response *Response) Decode(target any) error {
	return json.Unmarshal(response.Body, target)
}

// UpstreamError is returned by Client.Do whenever the backend answered with a non-2xx status code
type UpstreamError struct {
	Method   string
	Path     string
	Response *Response
}

func (err *UpstreamError) Error() string {
	if err.Response == nil {
		return "request failed"
	}
	return fmt.Sprintf("request failed with status code %d", err.Response.Status)
}

// Client performs calls against the backend
type Client struct {
	factory  *Factory
	resolver session.Resolver
}

// URL returns the absolute URL the given call is sent to
func (client *Client) URL(call *Call) string {
	return client.factory.BaseURL + "/" + strings.TrimPrefix(call.Path, "/") + query.ToQueryString(call.Query)
}

// Do sends the call to the backend.
// A non-2xx answer results in an *UpstreamError carrying the response; transport failures are returned wrapped.
func (client *Client) Do(ctx context.Context, call *Call) (*Response, error) {
	var body io.Reader
	switch val := call.Body.(type) {
	case nil:
	case json.RawMessage:
		body = bytes.NewReader(val)
	case []byte:
		body = bytes.NewReader(val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, call.Method, client.URL(call), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.factory.UserAgent != "" {
		request.Header.Set("User-Agent", client.factory.UserAgent)
	}
	if token, ok := session.Token(ctx, client.resolver); ok {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID, ok := RequestIDFromContext(ctx); ok {
		request.Header.Set(HeaderRequestID, requestID)
	}

	start := time.Now()
	raw, err := client.factory.HTTPClient.Do(request)
	if err != nil {
		client.factory.Metrics.ObserveBackendCall(call.Method, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
	}
	defer raw.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(raw.Body, maxResponseSize))
	client.factory.Metrics.ObserveBackendCall(call.Method, raw.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", call.Method, call.Path, err)
	}

	response := &Response{
		Status: raw.StatusCode,
		Header: raw.Header,
		Body:   payload,
	}
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return nil, &UpstreamError{
			Method:   call.Method,
			Path:     call.Path,
			Response: response,
		}
	}
	return response, nil
}

// Send sends the call to the backend and returns its tagged result
func (client *Client) Send(ctx context.Context, call *Call) Result {
	response, err := client.Do(ctx, call)
	if err != nil {
		return Result{Err: Normalize(err)}
	}
	return Result{Response: response}
}
