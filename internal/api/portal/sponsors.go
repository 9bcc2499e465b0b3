package portal

import "net/http"

// EndpointGetSponsors handles the 'GET /api/events/{id}/sponsors' endpoint
func (service *Service) EndpointGetSponsors(writer http.ResponseWriter, request *http.Request) {
	service.forwardList(writer, request, "/events/"+pathParam(request, "id")+"/sponsors")
}

// EndpointCreateSponsor handles the 'POST /api/events/{id}/sponsors' endpoint
func (service *Service) EndpointCreateSponsor(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/events/"+pathParam(request, "id")+"/sponsors", http.StatusCreated)
}

// EndpointGetSponsor handles the 'GET /api/sponsors/{id}' endpoint
func (service *Service) EndpointGetSponsor(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/sponsors/"+pathParam(request, "id"))
}

// EndpointEditSponsor handles the 'PATCH /api/sponsors/{id}' endpoint
func (service *Service) EndpointEditSponsor(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/sponsors/"+pathParam(request, "id"), http.StatusOK)
}

// EndpointDeleteSponsor handles the 'DELETE /api/sponsors/{id}' endpoint
func (service *Service) EndpointDeleteSponsor(writer http.ResponseWriter, request *http.Request) {
	service.forwardDelete(writer, request, "/sponsors/"+pathParam(request, "id"))
}

// EndpointGetSponsorInvitationLinks handles the 'GET /api/sponsors/{id}/invitation-links' endpoint
func (service *Service) EndpointGetSponsorInvitationLinks(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/sponsors/"+pathParam(request, "id")+"/invitation-links")
}

// EndpointCreateSponsorInvitationLink handles the 'POST /api/sponsors/{id}/invitation-links' endpoint
func (service *Service) EndpointCreateSponsorInvitationLink(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/sponsors/"+pathParam(request, "id")+"/invitation-links", http.StatusCreated)
}
