// Package admin mounts the password-gated triage panel.
package admin

import (
	"net/http"
	"strings"

	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
)

// Service defines admin route handlers consumed by this route module.
type Service interface {
	HandleAdmin(w http.ResponseWriter, r *http.Request)
	HandleAdminLogin(w http.ResponseWriter, r *http.Request)
	HandleAdminLogout(w http.ResponseWriter, r *http.Request)
	HandleAdminAudit(w http.ResponseWriter, r *http.Request)
	HandleAdminComplaint(w http.ResponseWriter, r *http.Request, complaintID string)
}

// RegisterRoutes wires admin routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Admin, service.HandleAdmin)
	mux.HandleFunc(routepath.AdminLogin, service.HandleAdminLogin)
	mux.HandleFunc(routepath.AdminLogout, service.HandleAdminLogout)
	mux.HandleFunc(routepath.AdminAudit, service.HandleAdminAudit)
	mux.HandleFunc(routepath.AdminComplaintsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleComplaintPath(w, r, service)
	})
}

// HandleComplaintPath parses /admin/complaints/{id} and dispatches to the
// service. A trailing slash after the id is canonicalized with a redirect.
func HandleComplaintPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, routepath.AdminComplaintsPrefix)
	complaintID := strings.TrimRight(rest, "/")
	if complaintID == "" || strings.Contains(complaintID, "/") {
		http.NotFound(w, r)
		return
	}
	if complaintID != rest {
		http.Redirect(w, r, routepath.AdminComplaintsPrefix+complaintID, http.StatusMovedPermanently)
		return
	}
	service.HandleAdminComplaint(w, r, complaintID)
}
