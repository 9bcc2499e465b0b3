package portal

import "net/http"

// EndpointGetEvents handles the 'GET /api/events?page={number?:1}&limit={number?:10}' endpoint
func (service *Service) EndpointGetEvents(writer http.ResponseWriter, request *http.Request) {
	service.forwardList(writer, request, "/events")
}

// EndpointCreateEvent handles the 'POST /api/events' endpoint
func (service *Service) EndpointCreateEvent(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/events", http.StatusCreated)
}

// EndpointGetEvent handles the 'GET /api/events/{id}' endpoint
func (service *Service) EndpointGetEvent(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/events/"+pathParam(request, "id"))
}

// EndpointEditEvent handles the 'PATCH /api/events/{id}' endpoint
func (service *Service) EndpointEditEvent(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/events/"+pathParam(request, "id"), http.StatusOK)
}

// EndpointDeleteEvent handles the 'DELETE /api/events/{id}' endpoint
func (service *Service) EndpointDeleteEvent(writer http.ResponseWriter, request *http.Request) {
	service.forwardDelete(writer, request, "/events/"+pathParam(request, "id"))
}

// EndpointEditEventStatus handles the 'PATCH /api/events/{id}/status' endpoint
func (service *Service) EndpointEditEventStatus(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/events/"+pathParam(request, "id")+"/status", http.StatusOK)
}
