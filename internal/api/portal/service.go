package portal

import (
	"context"
	"errors"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/api/schema"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/skybi/portal-gateway/internal/config"
	"github.com/skybi/portal-gateway/internal/guard"
	"github.com/skybi/portal-gateway/internal/metrics"
	"golang.org/x/oauth2"
	"net/http"
	"time"
)

// Service represents the portal API service
type Service struct {
	server *http.Server

	Config *config.Config

	SessionStorage  session.Storage
	Backend         *backend.Factory
	Metrics         *metrics.Registry
	StaffMembership guard.StaffMembership

	oidcOAuth2Config    *oauth2.Config
	oidcProvider        *oidc.Provider
	oidcIDTokenVerifier *oidc.IDTokenVerifier

	guards      *guard.Evaluator
	rateLimiter *rateLimiter
	writer      *schema.Writer
}

// Router builds the HTTP handler serving all portal routes
func (service *Service) Router(ctx context.Context) (http.Handler, error) {
	if service.Config == nil || service.SessionStorage == nil || service.Backend == nil {
		return nil, errors.New("the portal API requires a configuration, a session storage and a backend factory")
	}

	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the portal API experienced an unexpected error")
		},
	}

	// Create the access guard evaluator and the rate limiter of the public authentication endpoints
	if service.StaffMembership == nil {
		service.StaffMembership = guard.PendingStaffMembership{}
	}
	service.guards = &guard.Evaluator{
		Resolver:          session.RequestResolver{},
		LoginRoute:        service.Config.LoginRoute,
		UnauthorizedRoute: service.Config.UnauthorizedRoute,
		Metrics:           service.Metrics,
	}
	service.rateLimiter = newRateLimiter(service.Config.AuthRateLimit, service.Metrics)

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{backend.HeaderRequestID},
		AllowCredentials: true,
	}))
	router.Use(hlog.NewHandler(log.Logger))
	router.Use(hlog.RemoteAddrHandler("ip"))
	router.Use(service.MiddlewareRequestID)
	router.Use(hlog.AccessHandler(service.logRequest))
	router.Use(service.MiddlewareLoadSession)
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the operational endpoints
	router.Get("/healthz", service.EndpointHealth)
	if service.Config.MetricsEnabled && service.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", service.Metrics.Handler())
	}

	// Create the OIDC provider & ID token verifier and register the OIDC authentication endpoints
	if service.Config.OIDCEnabled() {
		if err := service.setupOIDC(ctx); err != nil {
			return nil, err
		}
		router.Get("/api/auth/oidc/login_flow", service.EndpointOIDCLoginFlow)
		router.Get("/api/auth/oidc/callback", service.EndpointOIDCLoginCallback)
	}

	// Register the authentication endpoints
	router.Post("/api/auth/login", withMiddlewares(service.EndpointLogin, service.MiddlewareRateLimit))
	router.Post("/api/auth/logout", service.EndpointLogout)
	router.Get("/api/auth/session", withMiddlewares(service.EndpointGetSession, service.MiddlewareRequireSession))
	router.Post("/api/auth/register", withMiddlewares(service.EndpointRegister, service.MiddlewareRateLimit))
	router.Post("/api/auth/forgot-password", withMiddlewares(service.EndpointForgotPassword, service.MiddlewareRateLimit))
	router.Post("/api/auth/reset-password", withMiddlewares(service.EndpointResetPassword, service.MiddlewareRateLimit))
	router.Get("/api/auth/verify-email", service.EndpointVerifyEmail)
	router.Patch("/api/auth/change-password", withMiddlewares(service.EndpointChangePassword, service.MiddlewareRequireSession))

	// Register the company controller endpoints
	router.Get("/api/companies", withMiddlewares(service.EndpointGetCompanies, service.MiddlewareRequireSession))
	router.Post("/api/companies", withMiddlewares(service.EndpointCreateCompany, service.MiddlewareRequireSession))
	router.Get("/api/companies/{id}", withMiddlewares(service.EndpointGetCompany, service.MiddlewareRequireSession))
	router.Patch("/api/companies/{id}", withMiddlewares(service.EndpointEditCompany, service.MiddlewareRequireSession))
	router.Delete("/api/companies/{id}", withMiddlewares(service.EndpointDeleteCompany, service.MiddlewareRequireSession))
	router.Patch("/api/companies/{id}/status", withMiddlewares(service.EndpointEditCompanyStatus, service.MiddlewareRequireSession))

	// Register the event controller endpoints
	router.Get("/api/events", withMiddlewares(service.EndpointGetEvents, service.MiddlewareRequireSession))
	router.Post("/api/events", withMiddlewares(service.EndpointCreateEvent, service.MiddlewareRequireSession))
	router.Get("/api/events/{id}", withMiddlewares(service.EndpointGetEvent, service.MiddlewareRequireSession))
	router.Patch("/api/events/{id}", withMiddlewares(service.EndpointEditEvent, service.MiddlewareRequireSession))
	router.Delete("/api/events/{id}", withMiddlewares(service.EndpointDeleteEvent, service.MiddlewareRequireSession))
	router.Patch("/api/events/{id}/status", withMiddlewares(service.EndpointEditEventStatus, service.MiddlewareRequireSession))

	// Register the sponsor controller endpoints
	router.Get("/api/events/{id}/sponsors", withMiddlewares(service.EndpointGetSponsors, service.MiddlewareRequireSession))
	router.Post("/api/events/{id}/sponsors", withMiddlewares(service.EndpointCreateSponsor, service.MiddlewareRequireSession))
	router.Get("/api/sponsors/{id}", withMiddlewares(service.EndpointGetSponsor, service.MiddlewareRequireSession))
	router.Patch("/api/sponsors/{id}", withMiddlewares(service.EndpointEditSponsor, service.MiddlewareRequireSession))
	router.Delete("/api/sponsors/{id}", withMiddlewares(service.EndpointDeleteSponsor, service.MiddlewareRequireSession))
	router.Get("/api/sponsors/{id}/invitation-links", withMiddlewares(service.EndpointGetSponsorInvitationLinks, service.MiddlewareRequireSession))
	router.Post("/api/sponsors/{id}/invitation-links", withMiddlewares(service.EndpointCreateSponsorInvitationLink, service.MiddlewareRequireSession))

	// Register the speaker controller endpoints
	router.Get("/api/events/{id}/speakers", withMiddlewares(service.EndpointGetSpeakers, service.MiddlewareRequireSession))
	router.Post("/api/events/{id}/speakers", withMiddlewares(service.EndpointCreateSpeaker, service.MiddlewareRequireSession))
	router.Get("/api/speakers/{id}", withMiddlewares(service.EndpointGetSpeaker, service.MiddlewareRequireSession))
	router.Patch("/api/speakers/{id}", withMiddlewares(service.EndpointEditSpeaker, service.MiddlewareRequireSession))
	router.Delete("/api/speakers/{id}", withMiddlewares(service.EndpointDeleteSpeaker, service.MiddlewareRequireSession))

	// Register the ticket controller endpoints
	router.Get("/api/events/{id}/tickets", withMiddlewares(service.EndpointGetTickets, service.MiddlewareRequireSession))
	router.Post("/api/events/{id}/tickets", withMiddlewares(service.EndpointCreateTicket, service.MiddlewareRequireSession))
	router.Get("/api/tickets/{id}", withMiddlewares(service.EndpointGetTicket, service.MiddlewareRequireSession))
	router.Patch("/api/tickets/{id}", withMiddlewares(service.EndpointEditTicket, service.MiddlewareRequireSession))
	router.Delete("/api/tickets/{id}", withMiddlewares(service.EndpointDeleteTicket, service.MiddlewareRequireSession))

	// Register the participant controller endpoints
	router.Get("/api/events/{id}/participants", withMiddlewares(service.EndpointGetParticipants, service.MiddlewareRequireSession))
	router.Post("/api/events/{id}/participants", withMiddlewares(service.EndpointCreateParticipant, service.MiddlewareRequireSession))
	router.Get("/api/participants/{id}", withMiddlewares(service.EndpointGetParticipant, service.MiddlewareRequireSession))
	router.Delete("/api/participants/{id}", withMiddlewares(service.EndpointDeleteParticipant, service.MiddlewareRequireSession))
	router.Post("/api/participants/{id}/check-in", withMiddlewares(service.EndpointCheckInParticipant, service.MiddlewareRequireSession))

	// Register the QR code and user controller endpoints
	router.Post("/api/qr/validate", withMiddlewares(service.EndpointValidateQRCode, service.MiddlewareRequireSession))
	router.Get("/api/users/me", withMiddlewares(service.EndpointGetSelfUser, service.MiddlewareRequireSession))

	// Register the guarded pages
	router.Get("/dashboard", withMiddlewares(service.EndpointDashboardPage, service.guards.Middleware(guard.RequireAuthenticated())))
	router.Get("/admin", withMiddlewares(service.EndpointAdminPage, service.guards.Middleware(guard.RequirePlatformAdmin())))
	router.Get("/company", withMiddlewares(service.EndpointCompanyPage, service.guards.Middleware(guard.RequireCompanyAdmin())))
	router.Get("/events/{eventID}/manage", withMiddlewares(service.EndpointEventManagementPage, service.guards.Middleware(guard.RequireEventAccess(service.StaffMembership, "eventID"))))

	return router, nil
}

// Startup builds the router and the HTTP server of the portal API.
// It has to return before Serve and Shutdown are called.
func (service *Service) Startup() error {
	router, err := service.Router(context.Background())
	if err != nil {
		return err
	}
	service.server = &http.Server{
		Addr:              service.Config.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Serve accepts connections until the server is shut down
func (service *Service) Serve() error {
	if service.server == nil {
		return errors.New("the portal API was not started up")
	}
	return service.server.ListenAndServe()
}

// Shutdown shuts down the portal API
func (service *Service) Shutdown() {
	if service.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := service.server.Shutdown(ctx); err != nil {
			service.server.Close()
		}
	}
	if service.rateLimiter != nil {
		service.rateLimiter.stop()
	}
}

// EndpointHealth handles the 'GET /healthz' endpoint
func (service *Service) EndpointHealth(writer http.ResponseWriter, _ *http.Request) {
	service.writer.WriteJSON(writer, map[string]any{
		"status": "ok",
	})
}

func (service *Service) logRequest(request *http.Request, status, size int, duration time.Duration) {
	route := "unmatched"
	if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
		route = routeCtx.RoutePattern()
	}
	service.Metrics.ObserveHTTPRequest(route, request.Method, status)
	hlog.FromRequest(request).Debug().
		Str("method", request.Method).
		Str("route", route).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("handled request")
}

func withMiddlewares(end http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	final := end
	for i := len(middlewares); i > 0; i-- {
		final = middlewares[i-1](final)
	}
	return final
}
