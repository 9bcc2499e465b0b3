package portal

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/backend"
	"net/http"
	"time"
)

// maxRequestIDLength limits the length of request IDs accepted from callers
const maxRequestIDLength = 128

// MiddlewareRequestID assigns a request ID to every request.
// The ID is taken over from the caller if present, echoed in the response and forwarded to the backend.
func (service *Service) MiddlewareRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := request.Header.Get(backend.HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		writer.Header().Set(backend.HeaderRequestID, requestID)

		hlog.FromRequest(request).UpdateContext(func(ctx zerolog.Context) zerolog.Context {
			return ctx.Str("request_id", requestID)
		})
		next.ServeHTTP(writer, request.WithContext(backend.WithRequestID(request.Context(), requestID)))
	})
}

// MiddlewareLoadSession looks up the session belonging to the session cookie of the request, if any,
// and places it into the request context
func (service *Service) MiddlewareLoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		cookie, err := request.Cookie(service.Config.SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(writer, request)
			return
		}

		ses, err := service.SessionStorage.GetByRawToken(request.Context(), cookie.Value)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		if ses == nil || ses.IsExpired(time.Now()) {
			next.ServeHTTP(writer, request)
			return
		}

		hlog.FromRequest(request).UpdateContext(func(ctx zerolog.Context) zerolog.Context {
			return ctx.Str("user_id", ses.UserID)
		})
		next.ServeHTTP(writer, request.WithContext(session.NewContext(request.Context(), ses)))
	})
}

// MiddlewareRequireSession rejects requests without a valid session before any backend call is made
func (service *Service) MiddlewareRequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := session.Token(request.Context(), session.RequestResolver{}); !ok {
			service.unauthorized(writer)
			return
		}
		next.ServeHTTP(writer, request)
	}
}
