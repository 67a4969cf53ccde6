// Package public mounts the reporter's unauthenticated pages.
package public

import (
	"net/http"

	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
)

// Service defines public route handlers consumed by this route module.
type Service interface {
	HandleRoot(w http.ResponseWriter, r *http.Request)
	HandleHealthz(w http.ResponseWriter, r *http.Request)
	HandleReport(w http.ResponseWriter, r *http.Request)
	HandleStatus(w http.ResponseWriter, r *http.Request)
	HandleDashboard(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires public routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Root, service.HandleRoot)
	mux.HandleFunc(routepath.Healthz, service.HandleHealthz)
	mux.HandleFunc(routepath.Report, service.HandleReport)
	mux.HandleFunc(routepath.Status, service.HandleStatus)
	mux.HandleFunc(routepath.Dashboard, service.HandleDashboard)
}
