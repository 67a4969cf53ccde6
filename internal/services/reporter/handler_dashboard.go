package reporter

import (
	"net/http"

	"github.com/louisbranch/civicreporter/internal/complaints"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/services/reporter/templates"
	"github.com/louisbranch/civicreporter/internal/services/shared/htmx"
)

// HandleDashboard lists resolved complaints with a map of the first
// geo-tagged one.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	page := h.pageContext(w, r, "reporter.dashboard.title")
	view := templates.DashboardView{Page: page, PhotoWidth: templates.DashboardPhotoWidth}
	status := http.StatusOK

	items, err := h.api.List(r.Context(), complaints.StatusFilter(complaints.StatusResolved))
	if err != nil {
		logUnexpected("list resolved complaints", err)
		view.Failed = true
		status = apperrors.HTTPStatus(err)
	} else {
		view.Total = len(items)
		view.Items = make([]templates.ComplaintView, 0, len(items))
		for _, item := range items {
			view.Items = append(view.Items, h.complaintView(page, item))
		}
		view.MapURL, _ = complaints.MapEmbedURL(items)
	}

	htmx.RenderPage(w, r, htmx.Page{
		Full:   templates.DashboardPage(view),
		Title:  page.PageTitle(),
		Status: status,
	})
}
