package portal

import "net/http"

// EndpointGetCompanies handles the 'GET /api/companies?page={number?:1}&limit={number?:10}' endpoint
func (service *Service) EndpointGetCompanies(writer http.ResponseWriter, request *http.Request) {
	service.forwardList(writer, request, "/companies")
}

// EndpointCreateCompany handles the 'POST /api/companies' endpoint
func (service *Service) EndpointCreateCompany(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPost, "/companies", http.StatusCreated)
}

// EndpointGetCompany handles the 'GET /api/companies/{id}' endpoint
func (service *Service) EndpointGetCompany(writer http.ResponseWriter, request *http.Request) {
	service.forwardRead(writer, request, "/companies/"+pathParam(request, "id"))
}

// EndpointEditCompany handles the 'PATCH /api/companies/{id}' endpoint
func (service *Service) EndpointEditCompany(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/companies/"+pathParam(request, "id"), http.StatusOK)
}

// EndpointDeleteCompany handles the 'DELETE /api/companies/{id}' endpoint
func (service *Service) EndpointDeleteCompany(writer http.ResponseWriter, request *http.Request) {
	service.forwardDelete(writer, request, "/companies/"+pathParam(request, "id"))
}

// EndpointEditCompanyStatus handles the 'PATCH /api/companies/{id}/status' endpoint
func (service *Service) EndpointEditCompanyStatus(writer http.ResponseWriter, request *http.Request) {
	service.forwardWrite(writer, request, http.MethodPatch, "/companies/"+pathParam(request, "id")+"/status", http.StatusOK)
}
