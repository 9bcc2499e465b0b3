package guard

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeMembership struct {
	member bool
	calls  int
}

func (membership *fakeMembership) IsStaffMember(_ context.Context, _ *session.Session, _ string) (bool, error) {
	membership.calls++
	return membership.member, nil
}

// newEvaluator builds an evaluator whose resolver yields a session with the given roles.
// Passing no roles at all (nil) results in an anonymous request.
func newEvaluator(roles ...string) *Evaluator {
	evaluator := &Evaluator{
		Resolver:          session.StaticResolver{},
		LoginRoute:        "/login",
		UnauthorizedRoute: "/unauthorized",
	}
	if roles != nil {
		evaluator.Resolver = fixedResolver{&session.Session{
			AccessToken: "token",
			UserID:      "user-1",
			Roles:       roles,
			Expires:     time.Now().Add(time.Hour).Unix(),
		}}
	}
	return evaluator
}

type fixedResolver struct {
	ses *session.Session
}

func (resolver fixedResolver) Resolve(_ context.Context) (*session.Session, bool) {
	return resolver.ses, true
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		roles  []string
		guard  *Guard
		target string
	}{
		{"anonymous", nil, RequireAuthenticated(), TargetLogin},
		{"authenticated", []string{"ATTENDEE"}, RequireAuthenticated(), ""},
		{"platform admin", []string{"PLATFORM_ADMIN"}, RequirePlatformAdmin(), ""},
		{"company admin on platform page", []string{"COMPANY_ADMIN"}, RequirePlatformAdmin(), TargetUnauthorized},
		{"company admin", []string{"company_admin"}, RequireCompanyAdmin(), ""},
		{"platform admin on company page", []string{"PLATFORM_ADMIN"}, RequireCompanyAdmin(), ""},
		{"attendee on company page", []string{"ATTENDEE"}, RequireCompanyAdmin(), TargetUnauthorized},
		{"unknown role", []string{"SUPERUSER"}, RequireCompanyAdmin(), TargetUnauthorized},
		{"no roles", []string{}, RequirePlatformAdmin(), TargetUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/admin", nil)
			ses, redirect := newEvaluator(tt.roles...).Evaluate(request, tt.guard)
			if tt.target == "" {
				if redirect != nil || ses == nil {
					t.Fatalf("Evaluate() = %v, %+v, want the session", ses, redirect)
				}
				return
			}
			if redirect == nil || redirect.Target != tt.target {
				t.Fatalf("Evaluate() redirect = %+v, want target %s", redirect, tt.target)
			}
			if ses != nil {
				t.Errorf("Evaluate() returned session %+v alongside a redirect", ses)
			}
		})
	}
}

func TestEvaluateRedirectLocations(t *testing.T) {
	request := httptest.NewRequest("GET", "/events/42/manage?tab=staff", nil)
	_, redirect := newEvaluator().Evaluate(request, RequireAuthenticated())
	if want := "/login?callbackUrl=%2Fevents%2F42%2Fmanage%3Ftab%3Dstaff"; redirect.Location != want {
		t.Errorf("Location = %q, want %q", redirect.Location, want)
	}

	_, redirect = newEvaluator("ATTENDEE").Evaluate(request, RequirePlatformAdmin())
	if redirect.Location != "/unauthorized" {
		t.Errorf("Location = %q, want /unauthorized", redirect.Location)
	}
}

func TestRequireEventAccess(t *testing.T) {
	tests := []struct {
		name      string
		roles     []string
		member    bool
		want      bool
		wantCalls int
	}{
		{"event manager", []string{"EVENT_MANAGER"}, false, true, 0},
		{"company admin", []string{"COMPANY_ADMIN"}, false, true, 0},
		{"staff member", []string{"STAFF"}, true, true, 1},
		{"staff non member", []string{"STAFF"}, false, false, 1},
		{"attendee", []string{"ATTENDEE"}, true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			membership := &fakeMembership{member: tt.member}
			evaluator := newEvaluator(tt.roles...)

			passed := false
			router := chi.NewRouter()
			router.Get("/events/{eventID}/manage", evaluator.Middleware(RequireEventAccess(membership, "eventID"))(func(writer http.ResponseWriter, request *http.Request) {
				_, passed = session.FromContext(request.Context())
			}))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest("GET", "/events/42/manage", nil))

			if passed != tt.want {
				t.Errorf("passed = %v, want %v", passed, tt.want)
			}
			if !tt.want && (recorder.Code != http.StatusFound || !strings.HasPrefix(recorder.Header().Get("Location"), "/unauthorized")) {
				t.Errorf("response = %d %q, want redirect to /unauthorized", recorder.Code, recorder.Header().Get("Location"))
			}
			if membership.calls != tt.wantCalls {
				t.Errorf("membership calls = %d, want %d", membership.calls, tt.wantCalls)
			}
		})
	}
}

func TestPendingStaffMembershipDenies(t *testing.T) {
	member, err := PendingStaffMembership{}.IsStaffMember(context.Background(), &session.Session{UserID: "u"}, "42")
	if member || err != nil {
		t.Errorf("IsStaffMember() = %v, %v, want false, nil", member, err)
	}
}
