package portal

import "net/http"

// EndpointGetParticipants handles the 'GET /api/events/{id}/participants' endpoint
func (service *Service) EndpointGetParticipants(writer http.ResponseWriter, request *http.Request) {
	service.forwardList(writer, request, "/events/"+pathParam(request, "id")+"/participants")
}

// EndpointCreateParticipant handles the 'POST /api/events/{id}/participants' endpoint
func (service *Service) EndpointCreateParticipant(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/events/"+pathParam(request, "id")+"/participants", http.StatusCreated)
}

// EndpointGetParticipant handles the 'GET /api/participants/{id}' endpoint
func (service *Service) EndpointGetParticipant(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/participants/"+pathParam(request, "id"))
}

// EndpointDeleteParticipant handles the 'DELETE /api/participants/{id}' endpoint
func (service *Service) EndpointDeleteParticipant(writer http.ResponseWriter, request *http.Request) {
	service.forwardDelete(writer, request, "/participants/"+pathParam(request, "id"))
}

// EndpointCheckInParticipant handles the 'POST /api/participants/{id}/check-in' endpoint
func (service *Service) EndpointCheckInParticipant(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/participants/"+pathParam(request, "id")+"/check-in", http.StatusOK)
}
