package portal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/random"
	"golang.org/x/oauth2"
	"net/http"
	"strings"
	"time"
)

var (
	stateLength         = 16
	nonceLength         = 16
	cookieNameState     = "login_state"
	cookieLifetimeState = int(time.Hour.Seconds())
)

type oidcLoginFlowState struct {
	ID         string `json:"id"`
	Nonce      string `json:"nonce"`
	Afterwards string `json:"afterwards"`
}

// setupOIDC creates the OIDC provider, the ID token verifier and the OAuth2 configuration
func (service *Service) setupOIDC(ctx context.Context) error {
	oidcProvider, err := oidc.NewProvider(ctx, service.Config.OIDCProviderURL)
	if err != nil {
		return fmt.Errorf("create OIDC provider: %w", err)
	}
	service.oidcProvider = oidcProvider
	service.oidcIDTokenVerifier = oidcProvider.Verifier(&oidc.Config{
		ClientID: service.Config.OIDCClientID,
	})
	service.oidcOAuth2Config = &oauth2.Config{
		ClientID:     service.Config.OIDCClientID,
		ClientSecret: service.Config.OIDCClientSecret,
		Endpoint:     oidcProvider.Endpoint(),
		RedirectURL:  service.Config.CallbackURL(),
		Scopes:       []string{oidc.ScopeOpenID, "email"},
	}
	return nil
}

// safeAfterwards only lets relative paths through to prevent open redirects
func safeAfterwards(afterwards string) string {
	if !strings.HasPrefix(afterwards, "/") || strings.HasPrefix(afterwards, "//") || strings.HasPrefix(afterwards, "/\\") {
		return "/"
	}
	return afterwards
}

// EndpointOIDCLoginFlow handles the 'GET /api/auth/oidc/login_flow?afterwards={string?:/}' endpoint
func (service *Service) EndpointOIDCLoginFlow(writer http.ResponseWriter, request *http.Request) {
	afterwards := safeAfterwards(request.URL.Query().Get("afterwards"))

	// Create and set the login flow state cookie
	state := oidcLoginFlowState{
		ID:         random.String(stateLength, random.CharsetAlphanumeric),
		Nonce:      random.String(nonceLength, random.CharsetAlphanumeric),
		Afterwards: afterwards,
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameState,
		Value:    base64.StdEncoding.EncodeToString(stateJSON),
		Path:     "/api/auth/oidc",
		MaxAge:   cookieLifetimeState,
		Secure:   service.Config.IsSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Redirect the user to the authentication endpoint of the OIDC provider
	http.Redirect(writer, request, service.oidcOAuth2Config.AuthCodeURL(state.ID, oidc.Nonce(state.Nonce)), http.StatusFound)
}

// EndpointOIDCLoginCallback handles the 'GET /api/auth/oidc/callback' endpoint
func (service *Service) EndpointOIDCLoginCallback(writer http.ResponseWriter, request *http.Request) {
	// Extract the state cookie
	stateCookie, err := request.Cookie(cookieNameState)
	if err != nil {
		service.writer.WriteAuthErrors(writer, http.StatusBadRequest, errOIDCLoginFlow("no login flow initiated"))
		return
	}
	stateJSON, err := base64.StdEncoding.DecodeString(stateCookie.Value)
	if err != nil {
		service.writer.WriteAuthErrors(writer, http.StatusBadRequest, errOIDCLoginFlow("invalid state cookie"))
		return
	}
	state := new(oidcLoginFlowState)
	if err := json.Unmarshal(stateJSON, state); err != nil {
		service.writer.WriteAuthErrors(writer, http.StatusBadRequest, errOIDCLoginFlow("invalid state cookie"))
		return
	}

	// Validate the state ID
	if request.URL.Query().Get("state") != state.ID {
		service.writer.WriteAuthErrors(writer, http.StatusBadRequest, errOIDCLoginFlow("states do not match"))
		return
	}

	// Unset the state cookie
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameState,
		Value:    "",
		Path:     "/api/auth/oidc",
		Expires:  time.Now().Add(-time.Second),
		HttpOnly: true,
	})

	// Retrieve the OAuth2 access token and extract and verify the ID token + nonce
	oauth2Token, err := service.oidcOAuth2Config.Exchange(request.Context(), request.URL.Query().Get("code"))
	if err != nil {
		service.writer.WriteAuthErrors(writer, http.StatusForbidden, errOIDCLoginFlow("invalid login code (expired?)"))
		return
	}
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		service.writer.WriteInternalError(writer, errors.New("no 'id_token' field in OAuth2 access token; most likely an OIDC provider error"))
		return
	}
	idToken, err := service.oidcIDTokenVerifier.Verify(request.Context(), rawIDToken)
	if err != nil {
		service.writer.WriteInternalError(writer, errors.New("received invalid ID token; most likely an OIDC provider error"))
		return
	}
	if idToken.Nonce != state.Nonce {
		service.writer.WriteAuthErrors(writer, http.StatusForbidden, errOIDCLoginFlow("nonces do not match"))
		return
	}

	// Extract the user's email and roles out of the ID token claims
	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	email, _ := claims["email"].(string)

	// Create the session; the OAuth2 access token becomes the bearer token sent to the backend
	expires := time.Now().Add(service.Config.SessionLifetime)
	if !oauth2Token.Expiry.IsZero() && oauth2Token.Expiry.Before(expires) {
		expires = oauth2Token.Expiry
	}
	if !service.startSession(writer, request, &session.Create{
		AccessToken: oauth2Token.AccessToken,
		UserID:      idToken.Subject,
		Email:       email,
		Roles:       rolesClaim(claims, service.Config.OIDCRolesClaim),
		Expires:     expires.Unix(),
	}) {
		return
	}

	// Redirect the user to the URL specified on login flow initiating
	http.Redirect(writer, request, safeAfterwards(state.Afterwards), http.StatusFound)
}

// rolesClaim extracts the role names out of the given claim.
// Both a list of strings and a single (optionally space separated) string are accepted.
func rolesClaim(claims map[string]any, name string) []string {
	switch val := claims[name].(type) {
	case string:
		return strings.Fields(val)
	case []any:
		roles := make([]string, 0, len(val))
		for _, raw := range val {
			if role, ok := raw.(string); ok {
				roles = append(roles, role)
			}
		}
		return roles
	default:
		return nil
	}
}
