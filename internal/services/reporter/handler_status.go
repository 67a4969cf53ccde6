package reporter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/civicreporter/internal/complaints"
	"github.com/louisbranch/civicreporter/internal/services/reporter/templates"
	"github.com/louisbranch/civicreporter/internal/services/shared/complaintsapi"
	"github.com/louisbranch/civicreporter/internal/services/shared/htmx"
)

// HandleStatus runs the status assistant. A request carrying an id query
// parameter is treated as one question to the assistant.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	page := h.pageContext(w, r, "reporter.status.title")
	view := templates.StatusView{Page: page, PhotoWidth: templates.StatusPhotoWidth}

	query := r.URL.Query()
	if query.Has("id") {
		raw := strings.TrimSpace(query.Get("id"))
		view.Query = raw
		if raw != "" {
			view.Messages = append(view.Messages, templates.ChatMessage{FromUser: true, Text: raw})
		}
		view.Messages = append(view.Messages, h.statusReply(r, page, raw))
	}

	htmx.RenderPage(w, r, htmx.Page{
		Fragment: templates.StatusTranscript(view),
		Full:     templates.StatusPage(view),
		Title:    page.PageTitle(),
	})
}

// statusReply answers one lookup. Any failure other than a malformed id is
// reported to the user as a missing complaint.
func (h *Handler) statusReply(r *http.Request, page templates.PageContext, raw string) templates.ChatMessage {
	id, err := complaints.ParseID(raw)
	if err != nil {
		return templates.ChatMessage{Text: errorMessage(page, err)}
	}
	complaint, err := h.api.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, complaintsapi.ErrNotFound) {
			logUnexpected("lookup complaint", err)
		}
		return templates.ChatMessage{Text: page.T("reporter.status.not_found")}
	}
	view := h.complaintView(page, complaint)
	return templates.ChatMessage{Text: view.Title, Complaint: &view}
}
