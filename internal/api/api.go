package api

import (
	"errors"
	"github.com/skybi/portal-gateway/internal/api/portal"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/backend"
	"github.com/skybi/portal-gateway/internal/config"
	"github.com/skybi/portal-gateway/internal/metrics"
	"net/http"
)

// Service represents the portal API service
type Service struct {
	Config         *config.Config
	SessionStorage session.Storage
	Metrics        *metrics.Registry
	portal         *portal.Service
}

// Startup starts up the portal API; errors raised while serving are sent to errs
func (service *Service) Startup(errs chan<- error) error {
	portalService := &portal.Service{
		Config:         service.Config,
		SessionStorage: service.SessionStorage,
		Backend:        backend.NewServerFactory(service.Config.BackendURL, service.Config.BackendTimeout, service.Metrics),
		Metrics:        service.Metrics,
	}
	if err := portalService.Startup(); err != nil {
		return err
	}
	service.portal = portalService
	go func() {
		if err := portalService.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	return nil
}

// Shutdown shuts down the portal API
func (service *Service) Shutdown() {
	if service.portal != nil {
		service.portal.Shutdown()
		service.portal = nil
	}
}
