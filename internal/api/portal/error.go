package portal

import (
	"github.com/skybi/portal-gateway/internal/api/schema"
	"net/http"
)

var (
	errOIDCLoginFlow = func(reason string) *schema.Error {
		return &schema.Error{
			Type:    "auth.oidc.loginFlow",
			Message: "The login flow could not be completed: " + reason + ".",
			Details: map[string]any{
				"reason": reason,
			},
		}
	}
	errUpstreamLogin = &schema.Error{
		Type:    "auth.login.invalidUpstreamResponse",
		Message: "The authentication service answered without an access token.",
		Details: map[string]any{},
	}
)

func (service *Service) unauthorized(writer http.ResponseWriter) {
	service.writer.WriteJSONCode(writer, http.StatusUnauthorized, &schema.ErrorResponse{
		Message: schema.ErrUnauthorized.Message,
		Details: map[string]any{},
	})
}
