package reporter

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/civicreporter/internal/complaints"
	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
	"github.com/louisbranch/civicreporter/internal/services/reporter/session"
	"github.com/louisbranch/civicreporter/internal/services/reporter/storage"
	"github.com/louisbranch/civicreporter/internal/services/reporter/templates"
	"github.com/louisbranch/civicreporter/internal/services/shared/htmx"
)

// HandleAdmin renders the triage panel, or the password gate without a
// valid admin session.
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if adminSessionID(r) == "" {
		h.renderLogin(w, r, false)
		return
	}

	page := h.pageContext(w, r, "reporter.admin.title")
	query := r.URL.Query()
	filter, err := complaints.ParseStatusFilter(query.Get("status"))
	if err != nil {
		filter = complaints.FilterAll
	}
	view := templates.AdminView{
		Page:    page,
		Filter:  string(filter),
		Filters: templates.StatusOptions(page, string(filter), true),
	}
	status := http.StatusOK

	items, err := h.api.List(r.Context(), filter)
	if err != nil {
		logUnexpected("list complaints for admin", err)
		view.Failed = true
		status = apperrors.HTTPStatus(err)
	} else {
		updatedID, _ := strconv.ParseInt(query.Get("updated"), 10, 64)
		failedID, _ := strconv.ParseInt(query.Get("failed"), 10, 64)
		view.Items = make([]templates.AdminItemView, 0, len(items))
		for _, item := range items {
			row := h.adminItem(page, item, view.Filter)
			switch item.ID {
			case updatedID:
				row.Flash, row.FlashOK = page.T("reporter.admin.updated"), true
			case failedID:
				row.Flash = page.T("reporter.admin.update_failed")
			}
			view.Items = append(view.Items, row)
		}
	}

	htmx.RenderPage(w, r, htmx.Page{
		Full:   templates.AdminPage(view),
		Title:  page.PageTitle(),
		Status: status,
	})
}

func (h *Handler) adminItem(page templates.PageContext, c complaints.Complaint, filter string) templates.AdminItemView {
	return templates.AdminItemView{
		Page:       page,
		Complaint:  h.complaintView(page, c),
		Statuses:   templates.StatusOptions(page, string(c.Status), false),
		Filter:     filter,
		PhotoWidth: templates.AdminPhotoWidth,
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, failed bool) {
	page := h.pageContext(w, r, "reporter.admin.title")
	status := http.StatusOK
	if failed {
		status = http.StatusUnauthorized
	}
	htmx.RenderPage(w, r, htmx.Page{
		Full:   templates.AdminLoginPage(templates.AdminLoginView{Page: page, Failed: failed}),
		Title:  page.PageTitle(),
		Status: status,
	})
}

// HandleAdminLogin checks the admin password and starts a session.
func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		if r.Method == http.MethodGet {
			http.Redirect(w, r, routepath.Admin, http.StatusFound)
			return
		}
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireSameOrigin(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	token, sess, err := h.sessions.Login(r.Context(), r.PostFormValue("password"))
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeAdminUnauthorized {
			h.renderLogin(w, r, true)
			return
		}
		log.Printf("reporter admin login: %v", err)
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}
	h.sessions.SetCookie(w, token, sess)
	http.Redirect(w, r, routepath.Admin, http.StatusSeeOther)
}

// HandleAdminLogout revokes the current session.
func (h *Handler) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireSameOrigin(w, r) {
		return
	}
	if token := session.TokenFromRequest(r); token != "" {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			log.Printf("reporter admin logout: %v", err)
		}
	}
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, routepath.Admin, http.StatusSeeOther)
}

// HandleAdminComplaint applies a status change to the complaint named by
// rawID. HTMX requests receive the re-rendered row; others are redirected
// back to the filtered panel.
func (h *Handler) HandleAdminComplaint(w http.ResponseWriter, r *http.Request, rawID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !requireSameOrigin(w, r) {
		return
	}
	sessionID := adminSessionID(r)
	if sessionID == "" {
		if htmx.IsHTMXRequest(r) {
			w.Header().Set(hxRedirectHeader, routepath.Admin)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, routepath.Admin, http.StatusSeeOther)
		return
	}

	page := h.pageContext(w, r, "reporter.admin.title")
	id, err := complaints.ParseID(rawID)
	if err != nil {
		http.Error(w, errorMessage(page, err), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	status, err := complaints.ParseStatus(r.PostFormValue("status"))
	if err != nil {
		http.Error(w, errorMessage(page, err), http.StatusBadRequest)
		return
	}
	filter, err := complaints.ParseStatusFilter(r.PostFormValue("filter"))
	if err != nil {
		filter = complaints.FilterAll
	}
	update := complaints.StatusUpdate{
		Status:    status,
		AdminNote: strings.TrimSpace(r.PostFormValue("admin_note")),
	}

	updated, err := h.api.UpdateStatus(r.Context(), id, update)
	ok := err == nil
	if ok {
		h.recordTriage(r, id, update, sessionID)
	} else {
		logUnexpected(fmt.Sprintf("update complaint %d", id), err)
	}

	if !htmx.IsHTMXRequest(r) {
		http.Redirect(w, r, routepath.AdminResult(string(filter), id, ok), http.StatusSeeOther)
		return
	}

	if !ok || updated.ID == 0 {
		updated = h.currentComplaint(r, id, update, ok)
	}
	row := h.adminItem(page, updated, string(filter))
	if ok {
		row.Flash, row.FlashOK = page.T("reporter.admin.updated"), true
	} else {
		row.Flash = page.T("reporter.admin.update_failed")
	}
	htmx.RenderPage(w, r, htmx.Page{Fragment: templates.AdminItem(row)})
}

// currentComplaint reloads a complaint for re-rendering its row, falling back
// to what the form submitted when the API cannot provide it.
func (h *Handler) currentComplaint(r *http.Request, id int64, update complaints.StatusUpdate, applied bool) complaints.Complaint {
	current, err := h.api.Get(r.Context(), id)
	if err == nil {
		return current
	}
	logUnexpected(fmt.Sprintf("reload complaint %d", id), err)
	fallback := complaints.Complaint{ID: id}
	if applied {
		fallback.Status = update.Status
		fallback.AdminNote = update.AdminNote
	}
	return fallback
}

func (h *Handler) recordTriage(r *http.Request, id int64, update complaints.StatusUpdate, sessionID string) {
	_, err := h.audit.AppendTriage(r.Context(), storage.TriageRecord{
		ComplaintID: id,
		Status:      update.Status,
		AdminNote:   update.AdminNote,
		SessionID:   sessionID,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		log.Printf("reporter record triage for complaint %d: %v", id, err)
	}
}
