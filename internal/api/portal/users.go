package portal

import "net/http"

// EndpointGetSelfUser handles the 'GET /api/users/me' endpoint
func (service *Service) EndpointGetSelfUser(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/users/me")
}

// EndpointValidateQRCode handles the 'POST /api/qr/validate' endpoint
func (service *Service) EndpointValidateQRCode(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/qr/validate", http.StatusOK)
}
