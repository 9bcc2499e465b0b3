package portal

import (
	"encoding/json"
	"github.com/rs/zerolog/hlog"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/api/schema"
	"github.com/skybi/portal-gateway/internal/api/validation"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/skybi/portal-gateway/internal/query"
	"net/http"
	"time"
)

type endpointLoginRequestPayload struct {
	Email    *string `json:"email" required:"true" format:"email"`
	Password *string `json:"password" required:"true"`
}

// EndpointLogin handles the 'POST /api/auth/login' endpoint
func (service *Service) EndpointLogin(writer http.ResponseWriter, request *http.Request) {
	raw, ok := service.readAuthPayload(writer, request, func(body []byte) ([]*schema.Error, error) {
		_, errs, err := schema.UnmarshalJSON[endpointLoginRequestPayload](body)
		return errs, err
	})
	if !ok {
		return
	}

	// Authenticate the credentials at the backend; an already existing session must not leak into this call
	result := service.Backend.New(nil).Send(request.Context(), &backend.Call{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   raw,
	})
	if !result.Ok() {
		service.writer.WriteAuthNormalized(writer, result.Err)
		return
	}
	login, user, err := backend.DecodeLogin(result.Response.Body)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if !login.Complete() {
		service.writer.WriteAuthErrors(writer, http.StatusBadGateway, errUpstreamLogin)
		return
	}

	// Create the session and hand its token to the client
	expires := time.Now().Add(service.Config.SessionLifetime)
	if !service.startSession(writer, request, &session.Create{
		AccessToken: login.AccessToken,
		UserID:      string(login.User.ID),
		Email:       login.User.Email,
		Roles:       login.User.Roles,
		Expires:     expires.Unix(),
	}) {
		return
	}

	service.writer.WriteAuth(writer, http.StatusOK, &schema.AuthResponse{
		Success: true,
		Message: "Logged in successfully.",
		Data: map[string]any{
			"user":    user,
			"expires": expires.Unix(),
		},
	})
}

// EndpointLogout handles the 'POST /api/auth/logout' endpoint
func (service *Service) EndpointLogout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(service.Config.SessionCookieName); err == nil && cookie.Value != "" {
		if err := service.SessionStorage.TerminateByRawToken(request.Context(), cookie.Value); err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
	}
	service.unsetSessionCookie(writer)

	service.writer.WriteAuth(writer, http.StatusOK, &schema.AuthResponse{
		Success: true,
		Message: "Logged out successfully.",
	})
}

// EndpointGetSession handles the 'GET /api/auth/session' endpoint
func (service *Service) EndpointGetSession(writer http.ResponseWriter, request *http.Request) {
	ses, ok := session.RequestResolver{}.Resolve(request.Context())
	if !ok {
		service.unauthorized(writer)
		return
	}

	service.writer.WriteAuth(writer, http.StatusOK, &schema.AuthResponse{
		Success: true,
		Data: map[string]any{
			"user_id": ses.UserID,
			"email":   ses.Email,
			"roles":   ses.RoleSet().Strings(),
			"expires": ses.Expires,
		},
	})
}

type endpointRegisterRequestPayload struct {
	Email    *string `json:"email" required:"true" format:"email"`
	Password *string `json:"password" required:"true"`
}

// EndpointRegister handles the 'POST /api/auth/register' endpoint
func (service *Service) EndpointRegister(writer http.ResponseWriter, request *http.Request) {
	raw, ok := service.readAuthPayload(writer, request, func(body []byte) ([]*schema.Error, error) {
		_, errs, err := schema.UnmarshalJSON[endpointRegisterRequestPayload](body)
		return errs, err
	})
	if !ok {
		return
	}
	service.relayAuth(writer, request, &backend.Call{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   raw,
	})
}

type endpointForgotPasswordRequestPayload struct {
	Email *string `json:"email" required:"true" format:"email"`
}

// EndpointForgotPassword handles the 'POST /api/auth/forgot-password' endpoint
func (service *Service) EndpointForgotPassword(writer http.ResponseWriter, request *http.Request) {
	raw, ok := service.readAuthPayload(writer, request, func(body []byte) ([]*schema.Error, error) {
		_, errs, err := schema.UnmarshalJSON[endpointForgotPasswordRequestPayload](body)
		return errs, err
	})
	if !ok {
		return
	}
	service.relayAuth(writer, request, &backend.Call{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   raw,
	})
}

type endpointResetPasswordRequestPayload struct {
	Token    *string `json:"token" required:"true"`
	Password *string `json:"password" required:"true"`
}

// EndpointResetPassword handles the 'POST /api/auth/reset-password' endpoint
func (service *Service) EndpointResetPassword(writer http.ResponseWriter, request *http.Request) {
	raw, ok := service.readAuthPayload(writer, request, func(body []byte) ([]*schema.Error, error) {
		_, errs, err := schema.UnmarshalJSON[endpointResetPasswordRequestPayload](body)
		return errs, err
	})
	if !ok {
		return
	}
	service.relayAuth(writer, request, &backend.Call{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Body:   raw,
	})
}

// EndpointVerifyEmail handles the 'GET /api/auth/verify-email?token={string}' endpoint
func (service *Service) EndpointVerifyEmail(writer http.ResponseWriter, request *http.Request) {
	token, validationErr := validation.QueryString(request, "token", true, "")
	if validationErr != nil {
		service.writer.WriteAuthErrors(writer, http.StatusBadRequest, validationErr)
		return
	}
	service.relayAuth(writer, request, &backend.Call{
		Method: http.MethodGet,
		Path:   "/auth/verify-email",
		Query:  query.Params{}.Set("token", token),
	})
}

type endpointChangePasswordRequestPayload struct {
	CurrentPassword *string `json:"currentPassword" required:"true"`
	NewPassword     *string `json:"newPassword" required:"true"`
}

// EndpointChangePassword handles the 'PATCH /api/auth/change-password' endpoint
func (service *Service) EndpointChangePassword(writer http.ResponseWriter, request *http.Request) {
	raw, ok := service.readAuthPayload(writer, request, func(body []byte) ([]*schema.Error, error) {
		_, errs, err := schema.UnmarshalJSON[endpointChangePasswordRequestPayload](body)
		return errs, err
	})
	if !ok {
		return
	}
	result := service.send(request, &backend.Call{
		Method: http.MethodPatch,
		Path:   "/auth/change-password",
		Body:   raw,
	})
	if !result.Ok() {
		service.writer.WriteAuthNormalized(writer, result.Err)
		return
	}

	// Every session of the user ends with the password change; the requesting client continues with a fresh one
	ses, ok := session.RequestResolver{}.Resolve(request.Context())
	if ok {
		if err := service.SessionStorage.TerminateByUserID(request.Context(), ses.UserID); err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		hlog.FromRequest(request).Info().Str("user_id", ses.UserID).Msg("terminated all sessions after a password change")
		if !service.startSession(writer, request, &session.Create{
			AccessToken: ses.AccessToken,
			UserID:      ses.UserID,
			Email:       ses.Email,
			Roles:       ses.Roles,
			Expires:     ses.Expires,
		}) {
			return
		}
	}
	service.writeAuthResult(writer, result.Response)
}

// readAuthPayload reads the JSON body of an authentication request and validates it using the given function.
// The body is returned as it is so that fields unknown to this service still reach the backend.
func (service *Service) readAuthPayload(writer http.ResponseWriter, request *http.Request, validate func(body []byte) ([]*schema.Error, error)) (json.RawMessage, bool) {
	raw, validationErrs, err := schema.ReadJSON(request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return nil, false
	}
	if len(validationErrs) == 0 {
		if raw == nil {
			raw = json.RawMessage("{}")
		}
		validationErrs, err = validate(raw)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return nil, false
		}
	}
	if len(validationErrs) > 0 {
		service.writer.WriteAuthErrors(writer, http.StatusBadRequest, validationErrs...)
		return nil, false
	}
	return raw, true
}

// relayAuth performs a single backend call and writes its result using the authentication response envelope
func (service *Service) relayAuth(writer http.ResponseWriter, request *http.Request, call *backend.Call) {
	result := service.send(request, call)
	if !result.Ok() {
		service.writer.WriteAuthNormalized(writer, result.Err)
		return
	}
	service.writeAuthResult(writer, result.Response)
}

// writeAuthResult writes a successful backend answer using the authentication response envelope.
// The envelope always has a body, so a backend answering 204 results in a 200.
func (service *Service) writeAuthResult(writer http.ResponseWriter, response *backend.Response) {
	status := response.Status
	if status == http.StatusNoContent {
		status = http.StatusOK
	}
	service.writer.WriteAuth(writer, status, authResponseOf(response.Body))
}

// authResponseOf wraps a successful backend payload into the authentication response envelope.
// Payloads already using the envelope keep their message and data.
func authResponseOf(body []byte) *schema.AuthResponse {
	response := &schema.AuthResponse{Success: true}
	if len(body) == 0 {
		return response
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		response.Data = string(body)
		return response
	}
	object, ok := payload.(map[string]any)
	if !ok {
		response.Data = payload
		return response
	}

	if message, ok := object["message"].(string); ok {
		response.Message = message
	}
	_, hasSuccess := object["success"]
	data, hasData := object["data"]
	switch {
	case hasData:
		response.Data = data
	case hasSuccess || (len(object) == 1 && response.Message != ""):
	default:
		response.Data = object
	}
	return response
}

// startSession creates a session and sets the session cookie; it reports whether this succeeded
func (service *Service) startSession(writer http.ResponseWriter, request *http.Request, create *session.Create) bool {
	rawToken, err := service.SessionStorage.Create(request.Context(), create)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return false
	}
	if service.Metrics != nil {
		service.Metrics.SessionsCreated.Inc()
	}
	hlog.FromRequest(request).Info().Str("user_id", create.UserID).Msg("created a new session")

	http.SetCookie(writer, &http.Cookie{
		Name:     service.Config.SessionCookieName,
		Value:    rawToken,
		Path:     "/",
		Expires:  time.Unix(create.Expires, 0),
		Secure:   service.Config.IsSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func (service *Service) unsetSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     service.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   service.Config.IsSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
