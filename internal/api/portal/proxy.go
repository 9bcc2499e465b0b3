package portal

import (
	"github.com/go-chi/chi/v5"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/api/schema"
	"github.com/skybi/portal-gateway/internal/api/validation"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/skybi/portal-gateway/internal/query"
	"net/http"
	"net/url"
)

// listQueryParameters are the query parameters list endpoints forward to the backend
var listQueryParameters = []string{"page", "limit", "search", "status", "sort", "order", "companyId", "eventId"}

// pathParam returns the escaped value of a URL parameter, ready to be used inside a backend path
func pathParam(request *http.Request, name string) string {
	return url.PathEscape(chi.URLParam(request, name))
}

// send performs a single backend call on behalf of the session of the request
func (service *Service) send(request *http.Request, call *backend.Call) backend.Result {
	return service.Backend.New(session.RequestResolver{}).Send(request.Context(), call)
}

// relay performs a single backend call and writes its result.
// Successful calls answer with the backend payload and the given status code; 204 answers carry no body.
func (service *Service) relay(writer http.ResponseWriter, request *http.Request, call *backend.Call, status int) {
	result := service.send(request, call)
	if !result.Ok() {
		service.writer.WriteNormalized(writer, result.Err)
		return
	}
	if status == http.StatusNoContent {
		service.writer.WriteNoContent(writer)
		return
	}
	service.writer.WriteRaw(writer, status, result.Response.Body)
}

// forwardList relays a paginated list request after validating its pagination parameters
func (service *Service) forwardList(writer http.ResponseWriter, request *http.Request, path string) {
	var validationErrs []*schema.Error

	if _, validationErr := validation.QueryNumber(request, "page", false, 1, 1, 1<<31); validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}
	if _, validationErr := validation.QueryNumber(request, "limit", false, 10, 1, 100); validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	service.relay(writer, request, &backend.Call{
		Method: http.MethodGet,
		Path:   path,
		Query:  query.FromRawQuery(request.URL.RawQuery, listQueryParameters...),
	}, http.StatusOK)
}

// forwardRead relays a request reading a single resource
func (service *Service) forwardRead(writer http.ResponseWriter, request *http.Request, path string) {
	service.relay(writer, request, &backend.Call{
		Method: http.MethodGet,
		Path:   path,
	}, http.StatusOK)
}

// forwardWrite relays a request carrying a JSON body.
// The body is only checked to be valid JSON; its contents are validated by the backend.
func (service *Service) forwardWrite(writer http.ResponseWriter, request *http.Request, method, path string, status int) {
	body, validationErrs, err := schema.ReadJSON(request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	call := &backend.Call{
		Method: method,
		Path:   path,
	}
	if body != nil {
		call.Body = body
	}
	service.relay(writer, request, call, status)
}

// forwardDelete relays a request deleting a single resource
func (service *Service) forwardDelete(writer http.ResponseWriter, request *http.Request, path string) {
	service.relay(writer, request, &backend.Call{
		Method: http.MethodDelete,
		Path:   path,
	}, http.StatusNoContent)
}
