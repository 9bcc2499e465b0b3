package portal

import "net/http"

// EndpointGetSpeakers handles the 'GET /api/events/{id}/speakers' endpoint
func (service *Service) EndpointGetSpeakers(writer http.ResponseWriter, request *http.Request) {
	service.forwardList(writer, request, "/events/"+pathParam(request, "id")+"/speakers")
}

// EndpointCreateSpeaker handles the 'POST /api/events/{id}/speakers' endpoint
func (service *Service) EndpointCreateSpeaker(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/events/"+pathParam(request, "id")+"/speakers", http.StatusCreated)
}

// EndpointGetSpeaker handles the 'GET /api/speakers/{id}' endpoint
func (service *Service) EndpointGetSpeaker(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/speakers/"+pathParam(request, "id"))
}

// EndpointEditSpeaker handles the 'PATCH /api/speakers/{id}' endpoint
func (service *Service) EndpointEditSpeaker(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/speakers/"+pathParam(request, "id"), http.StatusOK)
}

// EndpointDeleteSpeaker handles the 'DELETE /api/speakers/{id}' endpoint
func (service *Service) EndpointDeleteSpeaker(writer http.ResponseWriter, request *http.Request) {
	service.forwardDelete(writer, request, "/speakers/"+pathParam(request, "id"))
}
