package portal

import (
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"net/http"
)

// writePage answers a guarded page request with the context the page is rendered with
func (service *Service) writePage(writer http.ResponseWriter, request *http.Request, page string) {
	ses, ok := session.FromContext(request.Context())
	if !ok {
		service.unauthorized(writer)
		return
	}
	service.writer.WriteJSON(writer, map[string]any{
		"page":    page,
		"user_id": ses.UserID,
		"roles":   ses.RoleSet().Strings(),
	})
}

// EndpointDashboardPage handles the 'GET /dashboard' page
func (service *Service) EndpointDashboardPage(writer http.ResponseWriter, request *http.Request) {
	service.writePage(writer, request, "dashboard")
}

// EndpointAdminPage handles the 'GET /admin' page
func (service *Service) EndpointAdminPage(writer http.ResponseWriter, request *http.Request) {
	service.writePage(writer, request, "admin")
}

// EndpointCompanyPage handles the 'GET /company' page
func (service *Service) EndpointCompanyPage(writer http.ResponseWriter, request *http.Request) {
	service.writePage(writer, request, "company")
}

// EndpointEventManagementPage handles the 'GET /events/{eventID}/manage' page
func (service *Service) EndpointEventManagementPage(writer http.ResponseWriter, request *http.Request) {
	service.writePage(writer, request, "event_management")
}
