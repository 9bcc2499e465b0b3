package backend

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/query"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recordedRequest struct {
	method string
	uri    string
	header http.Header
	body   string
}

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		raw, _ := io.ReadAll(request.Body)
		requests = append(requests, recordedRequest{
			method: request.Method,
			uri:    request.URL.RequestURI(),
			header: request.Header.Clone(),
			body:   string(raw),
		})
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestServerFactoryTimeout(t *testing.T) {
	if got := NewServerFactory("http://b", 0, nil).HTTPClient.Timeout; got != 20*time.Second {
		t.Errorf("Timeout = %v, want 20s", got)
	}
	if got := NewBrowserFactory("http://b").HTTPClient.Timeout; got != 0 {
		t.Errorf("browser Timeout = %v, want none", got)
	}
}

func TestDoAttachesBearerToken(t *testing.T) {
	server, requests := newBackend(t, http.StatusOK, `{"id":"1"}`)
	client := NewServerFactory(server.URL+"/", 0, nil).New(session.StaticResolver{AccessToken: "secret"})

	ctx := WithRequestID(context.Background(), "req-1")
	response, err := client.Do(ctx, &Call{
		Method: http.MethodPost,
		Path:   "/companies",
		Query:  query.Params{{Key: "draft", Value: true}, {Key: "skip", Value: nil}},
		Body:   map[string]string{"name": "ACME"},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if string(response.Body) != `{"id":"1"}` {
		t.Errorf("Body = %s", response.Body)
	}

	got := (*requests)[0]
	if got.method != http.MethodPost || got.uri != "/companies?draft=true" {
		t.Errorf("request = %s %s", got.method, got.uri)
	}
	if auth := got.header.Get("Authorization"); auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", auth)
	}
	if id := got.header.Get(HeaderRequestID); id != "req-1" {
		t.Errorf("%s = %q, want req-1", HeaderRequestID, id)
	}
	if got.header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", got.header.Get("Content-Type"))
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(got.body), &body); err != nil || body["name"] != "ACME" {
		t.Errorf("body = %s", got.body)
	}
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	server, requests := newBackend(t, http.StatusOK, `[]`)
	client := NewServerFactory(server.URL, 0, nil).New(session.StaticResolver{})

	if _, err := client.Do(context.Background(), &Call{Method: http.MethodGet, Path: "companies"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	got := (*requests)[0]
	if _, ok := got.header["Authorization"]; ok {
		t.Errorf("Authorization header present: %q", got.header.Get("Authorization"))
	}
	if got.header.Get("Content-Type") != "" {
		t.Error("Content-Type set on a request without body")
	}
}

func TestDoRawBody(t *testing.T) {
	server, requests := newBackend(t, http.StatusCreated, `{}`)
	client := NewServerFactory(server.URL, 0, nil).New(nil)

	_, err := client.Do(context.Background(), &Call{
		Method: http.MethodPost,
		Path:   "/qr/validate",
		Body:   json.RawMessage(`{"code":"abc"}`),
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if body := (*requests)[0].body; body != `{"code":"abc"}` {
		t.Errorf("body = %s", body)
	}
}

func TestDoUpstreamError(t *testing.T) {
	server, _ := newBackend(t, http.StatusNotFound, `{"message":"Not found"}`)
	client := NewServerFactory(server.URL, 0, nil).New(nil)

	_, err := client.Do(context.Background(), &Call{Method: http.MethodGet, Path: "/companies/x"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Do() error = %v, want *UpstreamError", err)
	}
	if upstream.Response.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", upstream.Response.Status)
	}
}

func TestSend(t *testing.T) {
	server, _ := newBackend(t, http.StatusBadRequest, `{"message":"Invalid"}`)
	client := NewServerFactory(server.URL, 0, nil).New(nil)

	result := client.Send(context.Background(), &Call{Method: http.MethodGet, Path: "/events"})
	if result.Ok() {
		t.Fatal("Ok() = true, want false")
	}
	if result.Err.Status != 400 || result.Err.Message != "Invalid" {
		t.Errorf("Err = %#v", result.Err)
	}

	server.Close()
	result = client.Send(context.Background(), &Call{Method: http.MethodGet, Path: "/events"})
	if result.Ok() || result.Err.Status != 500 || result.Err.Message != GenericErrorMessage {
		t.Errorf("network failure result = %#v", result.Err)
	}
}
