// Package guard implements the access guards gating the portal's pages
package guard

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/metrics"
	"github.com/skybi/portal-gateway/internal/role"
	"net/http"
	"net/url"
)

// Redirect targets
const (
	TargetLogin        = "login"
	TargetUnauthorized = "unauthorized"
)

// Guard describes who may access a guarded page.
// A session passes if it has at least one role of AllowList or if Check approves it.
// A guard without both an allow-list and a check admits every authenticated session.
type Guard struct {
	Name      string
	AllowList role.Set
	Check     func(request *http.Request, ses *session.Session) bool
}

func (guard *Guard) admits(request *http.Request, ses *session.Session) bool {
	if guard.AllowList == role.EmptySet && guard.Check == nil {
		return true
	}
	if ses.RoleSet().HasAny(guard.AllowList) {
		return true
	}
	return guard.Check != nil && guard.Check(request, ses)
}

// Redirect describes where a rejected request is sent to
type Redirect struct {
	Target   string
	Location string
}

// Evaluator evaluates guards against the session of a request
type Evaluator struct {
	Resolver          session.Resolver
	LoginRoute        string
	UnauthorizedRoute string
	Metrics           *metrics.Registry
}

// Evaluate runs the given guard.
// Exactly one of the return values is non-nil: the session if the guard passed, the redirect otherwise.
func (evaluator *Evaluator) Evaluate(request *http.Request, guard *Guard) (*session.Session, *Redirect) {
	var ses *session.Session
	ok := false
	if evaluator.Resolver != nil {
		ses, ok = evaluator.Resolver.Resolve(request.Context())
	}
	if !ok || ses == nil {
		return nil, evaluator.redirect(guard, TargetLogin, loginLocation(evaluator.LoginRoute, request))
	}
	if !guard.admits(request, ses) {
		return nil, evaluator.redirect(guard, TargetUnauthorized, evaluator.UnauthorizedRoute)
	}
	return ses, nil
}

func (evaluator *Evaluator) redirect(guard *Guard, target, location string) *Redirect {
	evaluator.Metrics.ObserveGuardRedirect(guard.Name, target)
	return &Redirect{
		Target:   target,
		Location: location,
	}
}

// Middleware halts requests the given guard rejects by redirecting them.
// Admitted requests carry the session in their context.
func (evaluator *Evaluator) Middleware(guard *Guard) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			ses, redirect := evaluator.Evaluate(request, guard)
			if redirect != nil {
				http.Redirect(writer, request, redirect.Location, http.StatusFound)
				return
			}
			next.ServeHTTP(writer, request.WithContext(session.NewContext(request.Context(), ses)))
		}
	}
}

func loginLocation(loginRoute string, request *http.Request) string {
	callback := request.URL.RequestURI()
	return loginRoute + "?" + url.Values{"callbackUrl": {callback}}.Encode()
}

// RequirePlatformAdmin admits platform administrators only
func RequirePlatformAdmin() *Guard {
	return &Guard{
		Name:      "platform_admin",
		AllowList: role.Of(role.PlatformAdmin),
	}
}

// RequireCompanyAdmin admits company and platform administrators
func RequireCompanyAdmin() *Guard {
	return &Guard{
		Name:      "company_admin",
		AllowList: role.Of(role.PlatformAdmin, role.CompanyAdmin),
	}
}

// RequireAuthenticated admits every authenticated session
func RequireAuthenticated() *Guard {
	return &Guard{
		Name: "authenticated",
	}
}

// StaffMembership decides whether a staff member works at a specific event
type StaffMembership interface {
	IsStaffMember(ctx context.Context, ses *session.Session, eventID string) (bool, error)
}

// PendingStaffMembership is the staff membership rule as long as no data source for event staff assignments exists.
// It denies every staff member, so staff only gain access to events through another role.
type PendingStaffMembership struct{}

var _ StaffMembership = PendingStaffMembership{}

// IsStaffMember always denies and logs that the rule is incomplete
func (PendingStaffMembership) IsStaffMember(_ context.Context, ses *session.Session, eventID string) (bool, error) {
	log.Warn().Str("user_id", ses.UserID).Str("event_id", eventID).Msg("staff membership check is not wired to a data source yet; denying access")
	return false, nil
}

// RequireEventAccess admits administrators and event managers as well as staff members of the event
// identified by the given URL parameter
func RequireEventAccess(membership StaffMembership, eventIDParam string) *Guard {
	return &Guard{
		Name:      "event_access",
		AllowList: role.Of(role.PlatformAdmin, role.CompanyAdmin, role.EventManager),
		Check: func(request *http.Request, ses *session.Session) bool {
			if membership == nil || !ses.RoleSet().Has(role.Staff) {
				return false
			}
			eventID := chi.URLParam(request, eventIDParam)
			if eventID == "" {
				return false
			}
			member, err := membership.IsStaffMember(request.Context(), ses, eventID)
			if err != nil {
				log.Error().Err(err).Str("event_id", eventID).Msg("could not check the staff membership")
				return false
			}
			return member
		},
	}
}
