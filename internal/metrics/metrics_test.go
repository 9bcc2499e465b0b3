package metrics

import (
	"github.com/prometheus/client_golang/prometheus/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveBackendCall(t *testing.T) {
	reg := New()
	reg.ObserveBackendCall("GET", 200, 10*time.Millisecond)
	reg.ObserveBackendCall("GET", 200, 10*time.Millisecond)
	reg.ObserveBackendCall("POST", 0, time.Second)

	if got := testutil.ToFloat64(reg.BackendRequests.WithLabelValues("GET", "200")); got != 2 {
		t.Errorf("GET 200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.BackendRequests.WithLabelValues("POST", "0")); got != 1 {
		t.Errorf("POST 0 = %v, want 1", got)
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	reg.ObserveBackendCall("GET", 200, time.Millisecond)
	reg.ObserveHTTPRequest("/api/companies", "GET", 200)
	reg.ObserveGuardRedirect("platform-admin", "/login")
}

func TestHandler(t *testing.T) {
	reg := New()
	reg.ObserveHTTPRequest("/api/companies", "GET", 200)

	recorder := httptest.NewRecorder()
	reg.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `portal_http_requests_total{code="200",method="GET",route="/api/companies"} 1`) {
		t.Errorf("metrics output misses the request counter:\n%s", recorder.Body.String())
	}
}
