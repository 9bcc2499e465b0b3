package portal

import "net/http"

// EndpointGetTickets handles the 'GET /api/events/{id}/tickets' endpoint
func (service *Service) EndpointGetTickets(writer http.ResponseWriter, request *http.Request) {
	service.forwardList(writer, request, "/events/"+pathParam(request, "id")+"/tickets")
}

// EndpointCreateTicket handles the 'POST /api/events/{id}/tickets' endpoint
func (service *Service) EndpointCreateTicket(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/events/"+pathParam(request, "id")+"/tickets", http.StatusCreated)
}

// EndpointGetTicket handles the 'GET /api/tickets/{id}' endpoint
func (service *Service) EndpointGetTicket(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/tickets/"+pathParam(request, "id"))
}

// EndpointEditTicket handles the 'PATCH /api/tickets/{id}' endpoint
func (service *Service) EndpointEditTicket(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/tickets/"+pathParam(request, "id"), http.StatusOK)
}

// EndpointDeleteTicket handles the 'DELETE /api/tickets/{id}' endpoint
func (service *Service) EndpointDeleteTicket(writer http.ResponseWriter, request *http.Request) {
	service.forwardDelete(writer, request, "/tickets/"+pathParam(request, "id"))
}
